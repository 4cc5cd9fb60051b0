package llm

// DefaultPrompt is the summarization instruction used when the user supplies
// none.
const DefaultPrompt = "Please provide a comprehensive summary of the following YouTube video transcript. " +
	"Include the main topics discussed, key points, and any important conclusions."
