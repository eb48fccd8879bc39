package shiftz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel causes carried inside an *Error. They play the role of failure
// subtypes: combinators treat every *Error alike, while callers can tell the
// cause apart with errors.Is.
var (
	ErrExtract   = errors.New("extraction failed")
	ErrMatch     = errors.New("value did not match")
	ErrBreak     = errors.New("pipeline broken")
	ErrExhausted = errors.New("all alternatives failed")
	ErrFailed    = errors.New("transformation failed")
)

// Error is the recoverable transformation failure. It records where the
// failure happened, what input caused it and the underlying cause.
//
// Path starts at the outermost composition node and ends at the leaf that
// failed, e.g. ["checkout", "chain", "alternation", "parse-price"].
type Error struct {
	Timestamp time.Time
	InputData any
	Err       error
	Path      []Name
}

// Fail builds the recoverable failure a leaf returns when it cannot produce a
// result for input. A nil err records ErrFailed.
func Fail(name Name, input any, err error) *Error {
	if err == nil {
		err = ErrFailed
	}
	return &Error{
		Timestamp: time.Now(),
		InputData: input,
		Err:       err,
		Path:      []Name{name},
	}
}

// Failf is Fail with a formatted cause. Use %w to keep a sentinel visible to
// errors.Is.
func Failf(name Name, input any, format string, args ...any) *Error {
	return Fail(name, input, fmt.Errorf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s failed for input %v: %v", strings.Join(e.Path, " -> "), e.InputData, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsFailure reports whether err is a recoverable transformation failure,
// the only kind Alternation and Fallback absorb.
func IsFailure(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

// prefix returns a copy of the transformation failure in err with name
// prepended to its path. The failure a transformer returned is never
// modified, so a shared *Error stays valid across runs and goroutines.
// Any other error is returned unchanged so it keeps propagating unfiltered.
func prefix(name Name, err error) error {
	var te *Error
	if !errors.As(err, &te) {
		return err
	}
	path := make([]Name, 0, len(te.Path)+1)
	path = append(path, name)
	path = append(path, te.Path...)
	clone := *te
	clone.Path = path
	return &clone
}

// Within returns err with name prepended to the path of its transformation
// failure. err itself is left untouched. Composition nodes outside this package use it the way the built-in
// nodes do; other errors come back unchanged.
func Within(name Name, err error) error {
	return prefix(name, err)
}

// ChainError reports an invalid composition. It is returned when the
// pipeline is built, never when it runs.
type ChainError struct {
	Operand any
	Op      string
	Reason  string
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	return fmt.Sprintf("%s: cannot compose %T: %s", e.Op, e.Operand, e.Reason)
}

// PanicError is a panic recovered inside a transformer. It is a programming
// error, so no combinator absorbs it.
type PanicError struct {
	Value any
	Name  Name
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Name, e.Value)
}

// TypeError reports a typed adapter receiving an input of the wrong dynamic
// type. It signals misuse of the pipeline, so no combinator absorbs it.
type TypeError struct {
	Value    any
	Name     Name
	Expected string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s expects %s, got %T", e.Name, e.Expected, e.Value)
}

// recoverFromPanic converts a panic in a transformer into a *PanicError.
func recoverFromPanic(result *any, err *error, name Name) {
	if r := recover(); r != nil {
		*result = nil
		*err = &PanicError{Name: name, Value: r}
	}
}

// isContextErr reports cancellation and deadline errors, which are not
// transformation failures.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
