// Package apperr carries the single error shape the whole API speaks:
// a safe human-readable message plus the HTTP status it should be
// serialized with.
package apperr

import "net/http"

type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadInput(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusForbidden, message)
}

// Forbidden is the ownership-mismatch error. The original API used 401
// for "not yours", and clients depend on it.
func Forbidden(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
