package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("breakpoint", "unknown value")

	if got := err.Error(); got != "validation: breakpoint: unknown value" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "width", Message: "must be positive"},
		{Field: "source", Message: "unknown value"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestCheckPageNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page    int
		wantErr bool
	}{
		{0, true},
		{-1, true},
		{1, false},
		{302, false},
		{604, false},
		{605, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.page), func(t *testing.T) {
			t.Parallel()
			err := CheckPageNumber(tt.page)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckPageNumber(%d) = %v, wantErr %v", tt.page, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrOutOfRange) {
				t.Errorf("error does not wrap ErrOutOfRange: %v", err)
			}
		})
	}
}

func TestRangeError_Message(t *testing.T) {
	t.Parallel()

	err := CheckPageNumber(605)
	if got, want := err.Error(), "page 605 out of range [1, 604]"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatal("errors.As(*RangeError) = false")
	}
	if re.Value != 605 {
		t.Errorf("Value = %d, want 605", re.Value)
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrValidation, ErrOutOfRange, ErrStoreNotFound,
		ErrPageNotFound, ErrInvalidHandle, ErrRemoteUnavailable, ErrLayoutAnomaly,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}
