package services

import (
	"fmt"

	"github.com/dmitrijs2005/penguintracker/internal/common"
)

// Error is a service failure meant to be shown to the API caller. Err is a
// common sentinel used for status mapping; Message is the text the client
// displays.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) *Error {
	return &Error{Err: common.ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) *Error {
	return &Error{Err: common.ErrorNotFound, Message: what + " not found"}
}
