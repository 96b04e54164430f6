package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(code, detail string) *Error {
	return New(http.StatusNotFound, code, errors.New(detail))
}

func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func Conflict(code string, err error) *Error {
	return New(http.StatusConflict, code, err)
}

func Unauthorized(code, detail string) *Error {
	return New(http.StatusUnauthorized, code, errors.New(detail))
}

// From unwraps err into an *Error, defaulting to a 500 with the given code.
func From(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		if ae.Status == 0 {
			ae.Status = http.StatusInternalServerError
		}
		return ae
	}
	return New(http.StatusInternalServerError, fallbackCode, err)
}
