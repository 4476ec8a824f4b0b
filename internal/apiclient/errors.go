package apiclient

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"lexibot/internal/domain"
)

// Kind classifies a failed call
type Kind string

const (
	KindValidation        Kind = "validation"
	KindTransport         Kind = "transport"
	KindUnauthorized      Kind = "unauthorized"
	KindMalformedResponse Kind = "malformed_response"
	KindAPI               Kind = "api"
)

// Error is returned by every Client method. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrUnauthorized) works
// regardless of status or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrTransport         = &Error{Kind: KindTransport, Message: "Unable to reach the dictionary service. Try again later."}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "Your session has expired. Please sign in again."}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse, Message: "Malformed response from server."}
)

// KindOf returns the Kind of err, or "" when err is not an *Error
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// Message returns the user-facing message carried by err
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Request failed. Try again later."
}

// ValidateText trims text and checks it is non-empty and at most
// domain.MaxInputLength characters long. what names the field in the message.
func ValidateText(text, what string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &Error{Kind: KindValidation, Message: fmt.Sprintf("Please enter %s.", what)}
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxInputLength {
		return "", &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("Input exceeds %d characters.", domain.MaxInputLength),
		}
	}
	return trimmed, nil
}

func malformed(reason string) error {
	return &Error{Kind: KindMalformedResponse, Message: "Malformed response from server.", Err: errors.New(reason)}
}
