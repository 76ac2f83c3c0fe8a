package services

import (
	"errors"
)

// Error kinds returned by the services. Match them with errors.Is.
var (
	ErrAuthentication     = errors.New("authentication required")
	ErrAuthorization      = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid input")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Error carries a human-readable message for one of the kinds above. The
// underlying cause stays reachable through errors.Is/As for logging but is
// never part of the message.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

const (
	msgSignIn        = "Please sign in to continue."
	msgNotOwner      = "You can only change recipes you created."
	msgNotFound      = "Recipe not found."
	msgTryAgain      = "Something went wrong. Please try again."
	msgGenerateAgain = "Failed to generate recipe. Please try again."
)

// Message returns the text to show a user for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return msgTryAgain
}
