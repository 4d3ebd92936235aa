// Package httperr defines the request error taxonomy shared across layers.
// Client errors (4xx) expose their message in the response body; server
// errors (5xx) are logged with their cause and answered without detail.
package httperr

import (
	"fmt"
	"net/http"
)

// Error is the single application error contract.
type Error struct {
	// Status is the HTTP status the error maps to.
	Status int

	// Message is the client-visible message. Only exposed for 4xx statuses.
	Message string

	// Location, when set, is sent as a Content-Location header. Used by
	// conflict responses to point at the colliding resource.
	Location string

	// Err is the wrapped cause, kept server-side only.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Expose reports whether the message may be shown to the client.
func (e *Error) Expose() bool {
	return e.Status < 500
}

// New creates an Error with an explicit status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// BadRequest creates a 400 validation error.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// InvalidCursor creates a 400 error for a lastId that does not resolve to an
// existing document.
func InvalidCursor(lastID string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("last id, %s is not valid.", lastID)}
}

// NotFound creates a 404 error.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Conflict creates a 409 error carrying a location hint to the colliding
// resource.
func Conflict(message, location string) *Error {
	return &Error{Status: http.StatusConflict, Message: message, Location: location}
}

// Persistence creates a 500 error for an acknowledged-nothing write or a
// matched-then-missing inconsistency between a guard and its mutation.
func Persistence(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "persistence failure", Err: cause}
}

// Upstream creates a 500 error for a store connection or transport failure.
func Upstream(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "store unavailable", Err: cause}
}
