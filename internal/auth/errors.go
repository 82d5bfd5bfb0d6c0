package auth

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// Error is a failure that carries the message shown to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func validationError(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func conflictError(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func authError(msg string) *Error { return &Error{Kind: KindAuth, Message: msg} }

func NotFoundError(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func unexpected(err error) *Error { return &Error{Kind: KindUnexpected, Err: err} }

// AsError converts any error into an *Error, treating unknown failures as
// unexpected.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return unexpected(err)
}

const (
	MsgCredentialsRequired = "Email and password are required"
	MsgPasswordTooShort    = "Password must be at least %d characters"
	MsgEmailTaken          = "Email is already registered"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgTokenRequired       = "Session token required"
	MsgUnauthorized        = "Unauthorized"
	MsgInvalidSession      = "Invalid or expired session"
	MsgInvalidBody         = "Invalid request body"
	MsgNotFound            = "Not found"
)

// InvalidBodyError is returned by transports that cannot decode the payload.
func InvalidBodyError() *Error { return validationError(MsgInvalidBody) }

func UnauthorizedError() *Error { return authError(MsgUnauthorized) }
