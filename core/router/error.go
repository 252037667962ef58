package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/rapina/core/handler"
)

var (
	// Mux errors
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrRouterPrepared   = errors.New("router already prepared")

	// ErrNotFound is returned when no route matches the method and path.
	// It carries a 404 status for error handlers.
	ErrNotFound error = &statusError{msg: "not found", status: http.StatusNotFound}

	// Pattern errors
	ErrInvalidPattern = errors.New("invalid route path pattern")
	ErrDuplicateParam = errors.New("duplicate parameter name")
	ErrEmptyParam     = errors.New("empty parameter name")
)

// statusError is a sentinel error with an attached HTTP status.
type statusError struct {
	msg    string
	status int
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.status }

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler writes err as plain text with the status it carries.
// Errors without a status and recovered panics become a bare 500, and the
// text of any 5xx error is replaced by the standard status text.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var (
		sc statusCode
		pe PanicError
	)
	if !errors.As(err, &pe) && errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	msg := http.StatusText(status)
	if pe == nil && sc != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	if msg == "" {
		msg = http.StatusText(http.StatusInternalServerError)
	}

	http.Error(w, msg, status)
}

// PanicError is passed to the error handler when a middleware or handler panics.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to reach a panicked error value.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
