package utils

import (
	"errors"
	"fmt"
)

// ErrCancelled marks a transfer that was stopped by a user or admin
// request, as opposed to a network or disk failure.
var ErrCancelled = errors.New("transfer cancelled")

type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("network error for %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error for %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type SplitError struct {
	Path string
	Err  error
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("split error for %s: %v", e.Path, e.Err)
}

func (e *SplitError) Unwrap() error {
	return e.Err
}

func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
