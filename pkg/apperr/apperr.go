// Package apperr classifies failures so handlers can pick a status code
// without inspecting storage or provider errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindUnprocessable Kind = "unprocessable"
	KindUpstream      Kind = "upstream"
	// KindUnrecoverable marks input that is well-formed but can never
	// succeed as-is, e.g. a webhook for a product this store does not know.
	KindUnrecoverable Kind = "unrecoverable"
	KindInternal      Kind = "internal"
)

type Error struct {
	Kind    Kind
	Entity  string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Public is the text safe to show a caller. The wrapped cause never is.
func (e *Error) Public() string {
	switch e.Kind {
	case KindInternal:
		return "internal server error"
	case KindUnrecoverable:
		return "event could not be processed"
	}
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindNotFound:
		if e.Entity != "" {
			return e.Entity + " not found"
		}
		return "not found"
	case KindConflict:
		if e.Entity != "" {
			return e.Entity + " already exists"
		}
		return "conflict"
	case KindValidation:
		return "validation failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUnprocessable:
		return "request could not be processed"
	case KindUpstream:
		return "upstream service unavailable"
	default:
		return "internal server error"
	}
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func NotFound(entity string) *Error { return &Error{Kind: KindNotFound, Entity: entity} }

func Conflict(entity string, err error) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Err: err}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

func Invalid(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: map[string]string{field: msg}}
}

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Unprocessable(msg string, err error) *Error {
	return &Error{Kind: KindUnprocessable, Message: msg, Err: err}
}

func Upstream(err error) *Error { return &Error{Kind: KindUpstream, Err: err} }

func Unrecoverable(entity, msg string, err error) *Error {
	return &Error{Kind: KindUnrecoverable, Entity: entity, Message: msg, Err: err}
}

// KindOf returns the classification of err, KindInternal for anything
// unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnprocessable:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromStore translates storage errors: record-not-found becomes NotFound and
// unique violations become Conflict. Anything else is wrapped as internal.
func FromStore(entity string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Entity: entity, Err: err}
	}
	if IsUniqueViolation(err) {
		return Conflict(entity, err)
	}
	return &Error{Kind: KindInternal, Err: fmt.Errorf("%s: %w", entity, err)}
}

// IsUniqueViolation recognises duplicate-key failures from every supported
// driver, whether or not gorm translated them.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || // sqlite
		strings.Contains(msg, "duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key") // postgres, sqlserver
}
