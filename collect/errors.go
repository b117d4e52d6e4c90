package collect

import (
	"errors"
	"fmt"
)

// Kind buckets a failure into the category reported to API callers.
// Handlers surface only the category for credential/provider failures so
// remote error payloads never leak into responses.
type Kind int

const (
	InvalidInput Kind = iota
	CredentialFailure
	ProviderFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case CredentialFailure:
		return "CredentialFailure"
	case ProviderFailure:
		return "ProviderFailure"
	default:
		return "UnknownFailure"
	}
}

// Error carries a user-safe message plus the wrapped internal detail.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInput(msg string, err error) *Error {
	return &Error{Kind: InvalidInput, Msg: msg, Err: err}
}

func credentialErr(msg string, err error) *Error {
	return &Error{Kind: CredentialFailure, Msg: msg, Err: err}
}

func providerErr(msg string, err error) *Error {
	return &Error{Kind: ProviderFailure, Msg: msg, Err: err}
}

// KindOf extracts the failure category from an error chain. Errors that do
// not carry a category are treated as provider failures.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ProviderFailure
}

// UserMessage returns the user-safe message for input validation errors.
func UserMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Msg
	}
	return "request failed"
}
