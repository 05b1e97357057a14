package models

import (
	"errors"
	"fmt"
)

// Базовые виды ошибок, проверяются через errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrIntegrity  = errors.New("integrity violation")
)

// Error carries the entity and operation that failed alongside one of the base kinds.
type Error struct {
	Entity  Kind
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Entity, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func Validation(entity Kind, op, msg string) *Error {
	return &Error{Entity: entity, Op: op, Kind: ErrValidation, Message: msg}
}

func NotFound(entity Kind, op string, id int64) *Error {
	return &Error{Entity: entity, Op: op, Kind: ErrNotFound, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

func NotFoundf(entity Kind, op, format string, args ...any) *Error {
	return &Error{Entity: entity, Op: op, Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Integrity(entity Kind, op, msg string) *Error {
	return &Error{Entity: entity, Op: op, Kind: ErrIntegrity, Message: msg}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsIntegrity(err error) bool  { return errors.Is(err, ErrIntegrity) }
