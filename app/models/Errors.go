package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures for the call boundary.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindConcurrency ErrorKind = "concurrency"
	KindState       ErrorKind = "state"
	KindInternal    ErrorKind = "internal"
)

// GameError is the structured failure every engine operation returns.
type GameError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, ErrValidation).
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation  = &GameError{Kind: KindValidation}
	ErrNotFound    = &GameError{Kind: KindNotFound}
	ErrConcurrency = &GameError{Kind: KindConcurrency}
	ErrState       = &GameError{Kind: KindState}
)

func Validation(format string, args ...interface{}) error {
	return &GameError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &GameError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Concurrency(format string, args ...interface{}) error {
	return &GameError{Kind: KindConcurrency, Message: fmt.Sprintf(format, args...)}
}

func StateErr(format string, args ...interface{}) error {
	return &GameError{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, KindInternal for anything that is not a
// GameError.
func KindOf(err error) ErrorKind {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}
