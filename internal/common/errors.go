package common

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated     = errors.New("no credential supplied")
	ErrInvalidCredential   = errors.New("credential is not valid")
	ErrNotFound            = errors.New("requested resource not found")
	ErrForbidden           = errors.New("operation not permitted for this user")
	ErrConflict            = errors.New("resource conflict") // e.g. post already liked
	ErrValidation          = errors.New("validation failed")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrInternal            = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error carries a client-facing message alongside a sentinel kind.
// errors.Is(e, kind) holds for the wrapped kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message + ": " + e.Kind.Error() }

func (e *Error) Unwrap() error { return e.Kind }

// E builds an *Error of the given kind.
func E(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Message returns the client-facing message for err. Errors that do not carry
// one get a generic text per kind so internals never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	switch HTTPStatusFromError(err) {
	case http.StatusUnauthorized:
		if errors.Is(err, ErrUnauthenticated) {
			return "No token, authorization denied"
		}
		return "Token is not valid"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusForbidden:
		return "User not authorized"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusBadGateway:
		return "Upstream service unavailable"
	}
	return "Server Error"
}
