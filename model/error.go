package model

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a provider failure so callers can choose a
// user-facing fallback without inspecting vendor SDK error types.
type ErrorCategory string

const (
	// ErrorConnectivity covers transport failures: DNS, TLS, refused
	// connections, timeouts before a response arrived.
	ErrorConnectivity ErrorCategory = "connectivity"

	// ErrorRateLimit covers HTTP 429 responses.
	ErrorRateLimit ErrorCategory = "rate_limit"

	// ErrorStatus covers any other non-2xx API response.
	ErrorStatus ErrorCategory = "status"

	// ErrorUnexpected covers everything else.
	ErrorUnexpected ErrorCategory = "unexpected"
)

// Error wraps a provider failure with its category.
type Error struct {
	Category ErrorCategory
	Message  string
	Err      error
}

// NewError constructs a categorized model error.
func NewError(category ErrorCategory, message string, err error) *Error {
	return &Error{Category: category, Message: message, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("model error (%s): %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the text shown to the user in place of a model
// response when generation fails.
func (e *Error) UserMessage() string {
	switch e.Category {
	case ErrorConnectivity:
		return fmt.Sprintf("I'm having trouble connecting to the AI service. Please check your API key and network connection. Error: %s", e.Message)
	case ErrorRateLimit:
		return "I've hit the API rate limit. Please wait a moment and try again."
	case ErrorStatus:
		return fmt.Sprintf("An API error occurred: %s", e.Message)
	default:
		return fmt.Sprintf("An unexpected error occurred: %s", e.Message)
	}
}

// UserMessageFor maps any generation error to user-facing fallback text.
// Errors that are not *Error are treated as unexpected.
func UserMessageFor(err error) string {
	var me *Error
	if errors.As(err, &me) {
		return me.UserMessage()
	}
	return fmt.Sprintf("An unexpected error occurred: %s", err)
}
