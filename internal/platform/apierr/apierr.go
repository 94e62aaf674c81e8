package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	CodeNotFound      = "not_found"
	CodeDataIntegrity = "data_integrity"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeFormParse     = "bad_request"
	CodeRateLimited   = "rate_limited"
	CodeTransient     = "transient"
	CodeInternal      = "internal"
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

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func DataIntegrity(format string, args ...any) *Error {
	return New(http.StatusInternalServerError, CodeDataIntegrity, fmt.Errorf(format, args...))
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

func FormParse(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeFormParse, fmt.Errorf(format, args...))
}

func RateLimited(format string, args ...any) *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, fmt.Errorf(format, args...))
}

func Transient(err error) *Error {
	return New(http.StatusInternalServerError, CodeTransient, err)
}

// As extracts an *Error from the chain, or nil.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// StatusOf maps any error to the HTTP status it should surface as.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if ae := As(err); ae != nil && ae.Status != 0 {
		return ae.Status
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// IsTransient reports whether a retry of the whole request may succeed:
// serialization failures, deadlocks, and connection timeouts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if HasCode(err, CodeTransient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "57P01":
			return true
		}
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// IsUniqueViolation reports a unique-constraint conflict from either driver.
// Requires gorm.Config.TranslateError for the sqlite path.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
