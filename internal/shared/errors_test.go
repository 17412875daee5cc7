package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrConnect,
		ErrConnectionClosed,
		ErrTimeout,
		ErrUpstream,
		ErrMalformedResponse,
		ErrEmptyOutput,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d and %d should be distinct: %v vs %v", i, j, a, b)
			}
		}
	}
}

func TestSentinelErrors_WrapUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("%w: status was cancelled", ErrUpstream)
	if !errors.Is(wrapped, ErrUpstream) {
		t.Errorf("wrapped error should match ErrUpstream: %v", wrapped)
	}
	if errors.Is(wrapped, ErrTimeout) {
		t.Errorf("wrapped error should not match ErrTimeout: %v", wrapped)
	}
}
