// Package apperr defines the error taxonomy shared by the import and
// posting pipelines and its mapping onto HTTP status codes.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindCategorization Kind = "categorization"
	KindPersistence    Kind = "persistence"
	KindPostingRule    Kind = "posting_rule"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type Error struct {
	Kind       Kind
	Message    string
	Cause      error
	StackTrace errors.StackTrace
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Details is the cause text reported to API clients next to Message.
func (e *Error) Details() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace()[1:],
	}
}

func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	e := New(kind, message)
	e.Cause = err
	return e
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func PostingRule(format string, args ...interface{}) *Error {
	return New(KindPostingRule, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Persistence(err error, message string) *Error {
	return Wrap(err, KindPersistence, message)
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
