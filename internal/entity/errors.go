package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Upload errors
	ErrNoFiles           = errors.New("no files uploaded")
	ErrMissingAPIKey     = errors.New("upstream API key is not configured")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTotalSizeTooLarge = errors.New("total file size too large")
	ErrTextTooLarge      = errors.New("total text too large")
	ErrUnreadableFile    = errors.New("unreadable file")
	ErrNoReadableContent = errors.New("no readable content")

	// Upstream errors
	ErrModelNotFound    = errors.New("model not found")
	ErrUpstreamStatus   = errors.New("upstream returned error status")
	ErrUpstreamNetwork  = errors.New("upstream request failed")
	ErrEmptyCompletion  = errors.New("upstream returned no text")
	ErrEmptyGeneration  = errors.New("local model returned empty output")
	ErrLocalModel       = errors.New("local model request failed")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrHistoryDisabled  = errors.New("analysis history is not enabled")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// UploadError is returned when an upload is rejected. Message is shown to the
// client verbatim, Err is one of the upload sentinels above.
type UploadError struct {
	Message string
	Err     error
}

func NewUploadError(err error, format string, args ...any) *UploadError {
	return &UploadError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// UpstreamError describes a failed call to the hosted chat-completion API.
type UpstreamError struct {
	Err        error
	StatusCode int
	Model      string
	// Details holds the decoded error body, or a truncated raw body when it
	// was not JSON.
	Details any
	// Raw holds the decoded success body when it carried no text.
	Raw any
	// Cause is the transport error for ErrUpstreamNetwork.
	Cause error
}

func (e *UpstreamError) Error() string {
	switch {
	case errors.Is(e.Err, ErrModelNotFound):
		return "OpenRouter model not found or unavailable."
	case errors.Is(e.Err, ErrUpstreamStatus):
		return fmt.Sprintf("OpenRouter request failed with status %d.", e.StatusCode)
	case errors.Is(e.Err, ErrEmptyCompletion):
		return "OpenRouter returned no text response."
	case e.Cause != nil:
		return fmt.Sprintf("OpenRouter request failed: %v", e.Cause)
	default:
		return fmt.Sprintf("OpenRouter request failed: %v", e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
