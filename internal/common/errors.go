package common

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage matches every StorageError.
	ErrStorage = errors.New("storage error")

	// ErrFetch matches every FetchError.
	ErrFetch = errors.New("fetch error")

	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrRepositoryClosed is returned by operations issued after Close.
	ErrRepositoryClosed = errors.New("repository closed")
)

// StorageError reports a local read or write failure. It is never retried
// internally.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// FetchKind classifies a remote failure.
type FetchKind int

const (
	FetchUnknown FetchKind = iota
	FetchNetwork
	FetchServer
)

func (k FetchKind) String() string {
	switch k {
	case FetchNetwork:
		return "network"
	case FetchServer:
		return "server"
	default:
		return "unknown"
	}
}

// FetchError reports a failed remote fetch together with its classification.
type FetchError struct {
	Kind FetchKind
	Err  error
}

func NewFetchError(kind FetchKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch failed (%s)", e.Kind)
	}
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// AsFetchError wraps err into a FetchError unless it already is one. A nil
// error stays nil.
func AsFetchError(err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return NewFetchError(ClassifyTransport(err), err)
}

// FetchKindOf returns the classification of err, or FetchUnknown when err
// carries none.
func FetchKindOf(err error) FetchKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FetchUnknown
}

// ValidationError rejects an invalid filter before it reaches the filter
// engine.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
