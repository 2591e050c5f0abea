// Package errors is the closed set of typed errors used across ritcoin. Every error carries
// an ERR code, an owned message, an optional wrapped cause and optional structured data.
package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

type Error struct {
	code       ERR
	message    string
	wrappedErr error
	data       ErrDataI
}

// Error renders "CODE (n): message [data] <- cause".
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	var sb strings.Builder

	_, _ = fmt.Fprintf(&sb, "%s (%d): %s", e.code.Enum(), e.code, e.message)

	if e.data != nil {
		_, _ = fmt.Fprintf(&sb, " [data:%s]", e.data.Error())
	}

	if e.wrappedErr != nil {
		sb.WriteString(" <- ")
		sb.WriteString(e.wrappedErr.Error())
	}

	return sb.String()
}

// Is matches on code for *Error targets anywhere in the chain, and falls back to
// the standard library for everything else.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}

	if tErr, ok := target.(*Error); ok && tErr != nil && e.code == tErr.code {
		return true
	}

	if e.wrappedErr == nil {
		return false
	}

	return errors.Is(e.wrappedErr, target)
}

func (e *Error) As(target interface{}) bool {
	if e == nil {
		return false
	}

	if tErr, ok := target.(**Error); ok {
		*tErr = e
		return true
	}

	if e.data != nil {
		if data, ok := e.data.(error); ok && errors.As(data, target) {
			return true
		}
	}

	if e.wrappedErr == nil {
		return false
	}

	return errors.As(e.wrappedErr, target)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

func (e *Error) Code() ERR {
	if e == nil {
		return ERR_UNKNOWN
	}

	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}

	return e.message
}

func (e *Error) WrappedErr() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

func (e *Error) Data() ErrDataI {
	if e == nil {
		return nil
	}

	return e.data
}

// SetData attaches key to the generic data bag, creating it on first use.
// Errors that already carry typed data keep it unchanged.
func (e *Error) SetData(key string, value interface{}) {
	if e.data == nil {
		e.data = &ErrData{}
	}

	e.data.SetData(key, value)
}

func (e *Error) GetData(key string) interface{} {
	if e.data == nil {
		return nil
	}

	return e.data.GetData(key)
}

// New creates an error with the given code. A trailing error parameter becomes the
// wrapped cause, the remaining parameters format the message.
func New(code ERR, message string, params ...interface{}) *Error {
	var cause error

	if n := len(params); n > 0 {
		if err, ok := params[n-1].(error); ok {
			params = params[:n-1]

			if !isNil(err) {
				cause = err
			}
		}
	}

	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}

	if _, ok := ERR_name[int32(code)]; !ok {
		message = "invalid error code"
	}

	return &Error{
		code:       code,
		message:    message,
		wrappedErr: cause,
	}
}

// isNil catches typed nil pointers passed as the cause.
func isNil(err error) bool {
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// AsData looks for error data of target's type along the chain of *Error causes.
func AsData(err error, target interface{}) bool {
	for err != nil {
		tErr, ok := err.(*Error)
		if !ok {
			return false
		}

		if tErr.data != nil && errors.As(tErr.data, target) {
			return true
		}

		err = tErr.wrappedErr
	}

	return false
}
