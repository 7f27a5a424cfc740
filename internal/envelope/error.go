package envelope

import (
	"fmt"
	"net/http"
)

// Error is a declared HTTP failure raised anywhere in the request pipeline.
// The boundary layer turns it into an Envelope; nothing below the boundary
// writes responses itself.
type Error struct {
	Status  int
	Message string
	Label   string
	Payload any
}

func (e *Error) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func NewBadRequest(label string, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Label: label, Message: message}
}

// PassThroughError carries an envelope that was already built by the boundary
// layer. The error normalizer writes it verbatim, status included.
type PassThroughError struct {
	Env *Envelope
}

func (e *PassThroughError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Env.StatusCode, e.Env.Message)
}
