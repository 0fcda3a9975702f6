package apierr

import (
	"errors"
	"fmt"
	"net/http"

	bserrors "github.com/yungbote/brandstorm-backend/internal/pkg/errors"
)

const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeForbidden  = "forbidden"
	CodeInternal   = "internal_error"
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

// Validation wraps ErrInvalidArgument so callers can match with errors.Is.
func Validation(msg string) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf("%w: %s", bserrors.ErrInvalidArgument, msg))
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%w: %s", bserrors.ErrNotFound, msg))
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf("%w: %s", bserrors.ErrForbidden, msg))
}

// Code reports the API code carried by err, or CodeInternal.
func Code(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return apiErr.Code
	}
	return CodeInternal
}
