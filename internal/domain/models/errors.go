package models

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why a provider fetch failed.
type FetchErrorKind string

const (
	// KindFetch covers network, timeout and HTTP status failures.
	KindFetch FetchErrorKind = "fetch"
	// KindParse covers unexpected response shapes and missing fields.
	KindParse FetchErrorKind = "parse"
	// KindPlausibility covers values parsed fine but outside the valid
	// domain band; these must never propagate as live data.
	KindPlausibility FetchErrorKind = "plausibility"
)

// FetchError is a typed provider failure. Providers return it instead of a
// value; the cache wrapper decides what the caller sees.
type FetchError struct {
	Provider string
	Kind     FetchErrorKind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps a transport-level failure.
func NewFetchError(provider string, err error) *FetchError {
	return &FetchError{Provider: provider, Kind: KindFetch, Err: err}
}

// NewFetchErrorf formats a transport-level failure.
func NewFetchErrorf(provider, format string, a ...interface{}) *FetchError {
	return NewFetchError(provider, fmt.Errorf(format, a...))
}

// NewParseError wraps a response-shape failure.
func NewParseError(provider string, err error) *FetchError {
	return &FetchError{Provider: provider, Kind: KindParse, Err: err}
}

// NewParseErrorf formats a response-shape failure.
func NewParseErrorf(provider, format string, a ...interface{}) *FetchError {
	return NewParseError(provider, fmt.Errorf(format, a...))
}

// NewPlausibilityError reports a value outside its domain band.
func NewPlausibilityError(provider, field string, value, lo, hi float64) *FetchError {
	return &FetchError{
		Provider: provider,
		Kind:     KindPlausibility,
		Err:      fmt.Errorf("%s=%v outside [%v, %v]", field, value, lo, hi),
	}
}

// ExhaustionError means the ladder ran out: no live data, no usable stale
// cache, and synthetic fallback is disallowed for this metric.
type ExhaustionError struct {
	Metric string
	Err    error
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("%s: no live data and no usable cache: %v", e.Metric, e.Err)
}

func (e *ExhaustionError) Unwrap() error { return e.Err }

// IsExhausted reports whether err is an ExhaustionError.
func IsExhausted(err error) bool {
	var ee *ExhaustionError
	return errors.As(err, &ee)
}
