package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrMissingCredentials,
		ErrPasswordTooLong,
		ErrUserAlreadyExists,
		ErrInvalidCredentials,
		ErrUserNotFound,
	}
	for i, a := range all {
		if a == nil {
			t.Fatalf("sentinel %d is nil", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", ErrUserAlreadyExists)
	if !errors.Is(wrapped, ErrUserAlreadyExists) {
		t.Fatal("errors.Is must match wrapped ErrUserAlreadyExists")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidCredentials, errors.New("mismatch"))
	if !errors.Is(wrapped2, ErrInvalidCredentials) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidCredentials")
	}
}
