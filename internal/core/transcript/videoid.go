package transcript

import (
	"strings"

	"github.com/guiyumin/ytsum/internal/errs"
)

// videoIDLength is fixed by YouTube: every video ID is exactly 11 characters.
const videoIDLength = 11

// ExtractVideoID resolves a user-supplied reference to a canonical video ID.
// Accepted shapes, tried in order:
//
//	dQw4w9WgXcQ                                  (bare ID)
//	https://www.youtube.com/watch?v=dQw4w9WgXcQ
//	https://youtu.be/dQw4w9WgXcQ
//	https://www.youtube.com/embed/dQw4w9WgXcQ
//
// Query parameters after the ID are ignored. A qualifying run that is not
// exactly 11 characters long is rejected rather than truncated.
func ExtractVideoID(reference string) (string, error) {
	ref := strings.TrimSpace(reference)

	if len(ref) == videoIDLength && scanIDChars(ref) == videoIDLength {
		return ref, nil
	}

	if strings.Contains(ref, "youtube.com/watch") {
		if i := strings.Index(ref, "v="); i >= 0 {
			if id, ok := takeID(ref[i+len("v="):]); ok {
				return id, nil
			}
		}
	}

	if i := strings.Index(ref, "youtu.be/"); i >= 0 {
		if id, ok := takeID(ref[i+len("youtu.be/"):]); ok {
			return id, nil
		}
	}

	if i := strings.Index(ref, "youtube.com/embed/"); i >= 0 {
		if id, ok := takeID(ref[i+len("youtube.com/embed/"):]); ok {
			return id, nil
		}
	}

	return "", &errs.InvalidURLError{Reference: ref}
}

// takeID reads the run of ID characters at the start of s. The run must be
// exactly 11 long; a longer run means s is not a video ID boundary.
func takeID(s string) (string, bool) {
	n := scanIDChars(s)
	if n != videoIDLength {
		return "", false
	}
	return s[:n], true
}

// scanIDChars returns the length of the leading run of ID characters.
func scanIDChars(s string) int {
	for i := 0; i < len(s); i++ {
		if !isIDChar(s[i]) {
			return i
		}
	}
	return len(s)
}

func isIDChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
