package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	assert.EqualError(t,
		&InvalidURLError{Reference: "not a url"},
		"Invalid YouTube URL: could not extract video ID from: not a url")
	assert.EqualError(t,
		&TranscriptFetchError{Msg: "transcript is empty"},
		"Failed to fetch transcript: transcript is empty")
	assert.EqualError(t,
		&APIRequestError{Msg: "API error (401 Unauthorized): nope"},
		"API request failed: API error (401 Unauthorized): nope")
	assert.EqualError(t,
		&ConfigError{Msg: "no API key found"},
		"Configuration error: no API key found")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("pipeline: %w", &APIRequestError{Msg: "failed to send request", Err: cause})

	var apiErr *APIRequestError
	assert.True(t, errors.As(err, &apiErr))
	assert.ErrorIs(t, err, cause)
}
