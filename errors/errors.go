// Package errors provides coded errors for ordergate. Errors carry a gRPC
// status code and an optional public message, so that internal denial reasons
// can be logged and audited without leaking clause-level detail to clients.
//
// It implements the standard error interface and works with errors.Is /
// errors.As from the standard library, which are re-exported here for
// convenience.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error is an error with an associated status code and, optionally, a
// separate message that is safe to return to clients.
type Error struct {
	Err error

	// gRPC status code to associate with an error response.
	code codes.Code

	// HTTP status code to associate with an error response, overriding the
	// mapping from the gRPC code.
	httpStatusCode int

	// Message to return to clients. When empty, the internal message is used.
	publicMessage string

	prefix string
}

// New makes an Error from the given value. If that value is already an error
// then it will be used directly, if not, it will be passed to
// fmt.Errorf("%v").
func New(e interface{}) *Error {
	return NewC(e, codes.Unknown)
}

// NewC makes an Error with a status code defined.
func NewC(e interface{}, code codes.Code) *Error {
	var err error
	switch e := e.(type) {
	case error:
		err = e
	default:
		err = fmt.Errorf("%v", e)
	}
	return &Error{Err: err, code: code}
}

// Codef creates a new Error with a status code and a formatted message.
func Codef(code codes.Code, format string, a ...interface{}) *Error {
	return NewC(fmt.Errorf(format, a...), code)
}

// Errorf creates a new error with the given message. It can be used as a
// drop-in replacement for fmt.Errorf() in return values.
func Errorf(format string, a ...interface{}) *Error {
	return New(fmt.Errorf(format, a...))
}

// Wrap makes an Error from the given value. Existing *Error values are
// returned unchanged.
func Wrap(e interface{}) *Error {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *Error:
		return e
	case error:
		return &Error{Err: e, code: codes.Unknown}
	default:
		return &Error{Err: fmt.Errorf("%v", e), code: codes.Unknown}
	}
}

// WrapPrefix makes an Error from the given value, prefixing the message when
// Error() is called. The code and public message of wrapped *Error values are
// preserved, and the wrapped error stays in the chain for Is and As.
func WrapPrefix(e interface{}, prefix string) *Error {
	if e == nil {
		return nil
	}
	err := Wrap(e)
	return &Error{
		Err:            err,
		code:           err.code,
		httpStatusCode: err.httpStatusCode,
		publicMessage:  err.publicMessage,
		prefix:         prefix,
	}
}

// WithCode takes an error and adds a gRPC status code to it. If the error is
// not already an `Error`, it will be wrapped in one.
func WithCode(err error, code codes.Code) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err).WithCode(code)
}

// WithPublicMessage takes an error and adds a public message to it. If the
// error is not already an `Error`, it will be wrapped in one.
func WithPublicMessage(err error, publicMessage string) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err).WithPublicMessage(publicMessage)
}

// Error returns the underlying error's message.
func (err *Error) Error() string {
	msg := err.Err.Error()
	if err.prefix != "" {
		msg = fmt.Sprintf("%s: %s", err.prefix, msg)
	}
	return msg
}

// Unwrap the error (implements api for As and Is functions).
func (err *Error) Unwrap() error {
	return err.Err
}

// Code returns the gRPC status code associated with the error.
func (err *Error) Code() codes.Code {
	return err.code
}

// WithCode sets the gRPC status code associated with the error.
func (err *Error) WithCode(code codes.Code) *Error {
	err.code = code
	return err
}

// PublicMessage returns the error string that should be returned to clients.
func (err *Error) PublicMessage() string {
	if err.publicMessage != "" {
		return err.publicMessage
	}
	return err.Error()
}

// WithPublicMessage sets the error string that should be returned to clients.
func (err *Error) WithPublicMessage(publicMessage string) *Error {
	err.publicMessage = publicMessage
	return err
}

// HTTPStatusCode returns the HTTP status code that should be returned to the
// client. If one was set explicitly it is used, otherwise a default is
// derived from the gRPC code.
func (err *Error) HTTPStatusCode() int {
	if err.httpStatusCode != 0 {
		return err.httpStatusCode
	}
	switch err.code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// WithHTTPStatusCode sets the HTTP status code that should be returned to the
// client.
func (err *Error) WithHTTPStatusCode(code int) *Error {
	err.httpStatusCode = code
	return err
}

// GRPCStatus returns a gRPC status object for the error.
func (err *Error) GRPCStatus() *status.Status {
	return status.New(err.Code(), err.PublicMessage())
}

// Code returns a gRPC status code for an error. Returns codes.OK for nil and
// codes.Unknown for errors that do not expose a `Code()` method.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var e codedError
	if stderrors.As(err, &e) {
		return e.Code()
	}
	return codes.Unknown
}

// HTTPStatusCode returns an HTTP status code for an error. Returns
// http.StatusOK for nil and http.StatusInternalServerError for errors that do
// not expose a `HTTPStatusCode()` method.
func HTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e httpError
	if stderrors.As(err, &e) {
		return e.HTTPStatusCode()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the client-safe message for an error. For errors
// without an explicit public message, a generic string derived from the code
// is returned rather than the internal message.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.PublicMessage()
	}
	return "an internal error occurred"
}

// Is reports whether any error in err's chain matches target. Re-exported
// from the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target. Re-exported
// from the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

type codedError interface {
	Code() codes.Code
}

type httpError interface {
	HTTPStatusCode() int
}
