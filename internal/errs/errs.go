// Package errs defines the failure kinds a run can end with. Commands print
// these verbatim after an "Error: " prefix, so every message is written for
// the user, not for logs.
package errs

import "fmt"

// InvalidURLError indicates the given reference is neither a video ID nor a
// recognized YouTube URL shape.
type InvalidURLError struct {
	Reference string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("Invalid YouTube URL: could not extract video ID from: %s", e.Reference)
}

// TranscriptFetchError indicates the transcript could not be retrieved, or
// came back empty.
type TranscriptFetchError struct {
	Msg string
	Err error
}

func (e *TranscriptFetchError) Error() string {
	return "Failed to fetch transcript: " + e.Msg
}

func (e *TranscriptFetchError) Unwrap() error { return e.Err }

// APIRequestError indicates a provider call failed: transport failure,
// non-success status, or an unparseable response body.
type APIRequestError struct {
	Msg string
	Err error
}

func (e *APIRequestError) Error() string {
	return "API request failed: " + e.Msg
}

func (e *APIRequestError) Unwrap() error { return e.Err }

// ConfigError indicates the effective configuration could not be assembled.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "Configuration error: " + e.Msg
}
