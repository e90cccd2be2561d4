package model

import "errors"

// Status describes the outcome of a provider lookup.
type Status int

const (
	StatusNotAttempted Status = iota
	StatusAvailable
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "not_attempted"
	}
}

// ErrNoData marks an empty but otherwise successful provider response.
var ErrNoData = errors.New("no data")

// Result carries a provider value together with its outcome. The zero value is
// a result that was never attempted.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Available wraps a successfully fetched value.
func Available[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusAvailable}
}

// Unavailable records a failed or empty lookup. A nil err is replaced by ErrNoData.
func Unavailable[T any](err error) Result[T] {
	if err == nil {
		err = ErrNoData
	}
	return Result[T]{Status: StatusUnavailable, Err: err}
}

// OK reports whether the value can be used.
func (r Result[T]) OK() bool { return r.Status == StatusAvailable }

// Or returns the value when available, otherwise fallback.
func (r Result[T]) Or(fallback T) T {
	if r.OK() {
		return r.Value
	}
	return fallback
}
