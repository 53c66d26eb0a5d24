package apperr

import "fmt"

// Error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeDatastore     = "DATASTORE_ERROR"
	CodeInconsistency = "INTERNAL_INCONSISTENCY"
)

// Error carries an error code, a human-readable message and the HTTP status
// the request boundary should answer with.
type Error struct {
	Code    string
	Message string
	Status  int
	Err     error // wrapped underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Invalid(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message, Status: 400}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message, Status: 403}
}

func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found", Status: 404}
}

func Datastore(err error) *Error {
	return &Error{Code: CodeDatastore, Message: err.Error(), Status: 500, Err: err}
}

// Inconsistency marks a reference lookup that missed right after an
// insert-or-ignore. Answered like a datastore error but kept apart in logs.
func Inconsistency(message string) *Error {
	return &Error{Code: CodeInconsistency, Message: message, Status: 500}
}
