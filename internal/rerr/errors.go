// Package rerr carries the categorized error type shared by providers and
// the pipeline. Categories drive retry decisions in adapters and failure
// annotations in risk check results.
package rerr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Category groups errors by origin.
type Category string

const (
	CategoryValidation Category = "VALIDATION"
	CategoryProvider   Category = "PROVIDER"
	CategoryExchange   Category = "EXCHANGE"
	CategoryAnalysis   Category = "ANALYSIS"
	CategoryTimeout    Category = "TIMEOUT"
	CategoryRateLimit  Category = "RATE_LIMIT"
	CategoryInternal   Category = "INTERNAL"
)

// Sentinel errors for conditions callers branch on.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrNotConnected     = errors.New("provider not connected")
	ErrNotConfigured    = errors.New("provider not configured")
	ErrRateLimited      = errors.New("rate limited")
)

// Error is a categorized error with component context.
type Error struct {
	Category  Category
	Component string
	Message   string
	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s", e.Category, e.Component, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a categorized error without a cause.
func New(category Category, component, message string) *Error {
	return &Error{
		Category:  category,
		Component: component,
		Message:   message,
		Retryable: retryableCategory(category),
	}
}

// Wrap attaches category and component context to an existing error.
// Returns nil for a nil cause.
func Wrap(err error, category Category, component, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Category:  category,
		Component: component,
		Message:   message,
		Cause:     err,
		Retryable: retryableCategory(category),
	}
}

// Validation tags an input problem; never retryable.
func Validation(component, format string, args ...interface{}) *Error {
	e := New(CategoryValidation, component, fmt.Sprintf(format, args...))
	e.Retryable = false
	return e
}

// Provider tags a collaborator failure.
func Provider(component string, err error) *Error {
	return Wrap(err, CategoryProvider, component, "call failed")
}

// Exchange tags a broker API failure.
func Exchange(component string, err error) *Error {
	return Wrap(err, CategoryExchange, component, "exchange call failed")
}

// Analysis tags a failure while deriving a market snapshot.
func Analysis(component, format string, args ...interface{}) *Error {
	return New(CategoryAnalysis, component, fmt.Sprintf(format, args...))
}

// WithRetryable overrides the category default.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// IsRetryable reports whether err may be retried: categorized errors carry
// their own flag, context errors never retry, everything else defaults to
// retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// CategoryOf extracts the category, defaulting to INTERNAL for foreign
// errors.
func CategoryOf(err error) Category {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	return CategoryInternal
}

func retryableCategory(category Category) bool {
	switch category {
	case CategoryValidation, CategoryAnalysis, CategoryInternal:
		return false
	default:
		return true
	}
}
