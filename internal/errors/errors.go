package errors

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrQuotaExceeded      = errors.New("rate limit exceeded")
	ErrDatabaseError      = errors.New("database error")
	ErrCacheError         = errors.New("cache error")
)

type Error struct {
	Err     error
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
		Code:    "INTERNAL_ERROR",
	}
}
