// Package service enforces the domain rules for users, chores, and
// assignments on top of the store layer.
package service

// Error codes surfaced through the API error envelope.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
)

// Error is a domain failure with a stable code the HTTP layer maps to a
// status and envelope. Anything else returned from a service is an internal
// error.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}
