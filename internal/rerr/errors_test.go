package rerr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CategoryExchange, "bybit", "wallet fetch")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}
	if CategoryOf(err) != CategoryExchange {
		t.Errorf("category = %v, want EXCHANGE", CategoryOf(err))
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, CategoryProvider, "x", "y"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("fetching candles: %w", ErrInsufficientData)
	wrapped := Wrap(err, CategoryAnalysis, "local", "analyze")

	if !errors.Is(wrapped, ErrInsufficientData) {
		t.Error("sentinel lost through wrapping")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"validation", Validation("pipeline", "bad input"), false},
		{"exchange", Exchange("bybit", errors.New("502")), true},
		{"analysis", Analysis("local", "no candles"), false},
		{"context canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"foreign", errors.New("unknown"), true},
		{"override", New(CategoryExchange, "bybit", "auth").WithRetryable(false), false},
	}

	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCategoryOfForeign(t *testing.T) {
	if got := CategoryOf(errors.New("plain")); got != CategoryInternal {
		t.Errorf("foreign category = %v, want INTERNAL", got)
	}
	if got := CategoryOf(context.DeadlineExceeded); got != CategoryTimeout {
		t.Errorf("deadline category = %v, want TIMEOUT", got)
	}
}
