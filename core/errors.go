package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// errorKind classifies operation failures so callers can decide on
// presentation without parsing messages.
type errorKind int

const (
	kindDuplicateKey errorKind = iota + 1
	kindNotFound
	kindConflict
)

type kindedError struct {
	kind errorKind
	msg  string
}

func (err *kindedError) Error() string { return err.msg }

// NewDuplicateKeyError reports a unique-constraint violation
// (grade number, class name, username).
func NewDuplicateKeyError(msg string) error {
	return &kindedError{kind: kindDuplicateKey, msg: msg}
}

// NewNotFoundError reports a missing entity or file.
func NewNotFoundError(msg string) error {
	return &kindedError{kind: kindNotFound, msg: msg}
}

// NewConflictError reports an operation blocked by a structural invariant
// (non-empty class/grade, last admin deletion).
func NewConflictError(msg string) error {
	return &kindedError{kind: kindConflict, msg: msg}
}

func isKind(err error, kind errorKind) bool {
	ke, ok := errors.Cause(err).(*kindedError)
	return ok && ke.kind == kind
}

func IsDuplicateKey(err error) bool { return isKind(err, kindDuplicateKey) }
func IsNotFound(err error) bool     { return isKind(err, kindNotFound) }
func IsConflict(err error) bool     { return isKind(err, kindConflict) }

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}
