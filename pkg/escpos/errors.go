// pkg/escpos/errors.go
package escpos

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the category of an encoding or delivery failure
type ErrorCode string

const (
	CodeInvalidParameter      ErrorCode = "INVALID_PARAMETER"
	CodeOutOfRange            ErrorCode = "OUT_OF_RANGE"
	CodeUnsupportedFeature    ErrorCode = "UNSUPPORTED_FEATURE"
	CodeInvalidBarcodeContent ErrorCode = "INVALID_BARCODE_CONTENT"
	CodeIO                    ErrorCode = "IO_ERROR"
)

// Sentinels for errors.Is; matching is by code only.
var (
	ErrInvalidParameter      = &Error{Code: CodeInvalidParameter}
	ErrOutOfRange            = &Error{Code: CodeOutOfRange}
	ErrUnsupportedFeature    = &Error{Code: CodeUnsupportedFeature}
	ErrInvalidBarcodeContent = &Error{Code: CodeInvalidBarcodeContent}
	ErrIO                    = &Error{Code: CodeIO}
)

// Error is the single error type returned by the encoder and the printer
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetail attaches a key/value pair and returns the same error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewError builds a coded error for callers layering their own validation
// on top of the encoder
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return newError(code, format, args...)
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func invalidParameter(format string, args ...interface{}) *Error {
	return newError(CodeInvalidParameter, format, args...)
}

func outOfRange(name string, value, min, max int) *Error {
	return newError(CodeOutOfRange, "%s %d outside [%d,%d]", name, value, min, max).
		WithDetail("parameter", name).
		WithDetail("value", value)
}

func unsupported(model Model, feature string) *Error {
	return newError(CodeUnsupportedFeature, "%s not supported by model %s", feature, model).
		WithDetail("model", model.String()).
		WithDetail("feature", feature)
}

func invalidBarcode(sym Symbology, reason string) *Error {
	return newError(CodeInvalidBarcodeContent, "%s: %s", sym, reason).
		WithDetail("symbology", sym.String()).
		WithDetail("reason", reason)
}

func ioError(op string, err error) *Error {
	return &Error{
		Code:    CodeIO,
		Message: op,
		Wrapped: err,
	}
}

// CodeOf returns the error code carried by err, or "" when err is not an *Error
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
