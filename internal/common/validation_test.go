package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestValidatorCollectsFailures(t *testing.T) {
	v := NewValidator().
		Field("scope_text", "  ", Required).
		Field("limit", 500, IntRange(1, 100)).
		Field("run_id", "not-a-uuid", UUID).
		Field("name", "kitchen", MaxLength(3))

	if got := len(v.Errors()); got != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", got, v.Errors())
	}
	err := v.Error()
	if !IsValidation(err) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "scope_text") {
		t.Fatalf("message should name the field: %v", err)
	}

	st, _ := status.FromError(ValidateAndReturnError(v))
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("unexpected code: %v", st.Code())
	}
}

func TestValidatorPasses(t *testing.T) {
	v := NewValidator().
		Field("scope_text", "Kitchen - paint", Required, MaxLength(100)).
		Field("limit", 10, IntRange(1, 100)).
		Field("run_id", "7f1f8b44-7f0e-4a4e-9d53-9d1f5a0c3c11", UUID)
	if v.Error() != nil || ValidateAndReturnError(v) != nil {
		t.Fatalf("unexpected errors: %v", v.Errors())
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("run 1: %w", ErrNotFound), codes.NotFound},
		{NewAppError("BAD", "bad json", ErrInvalidInput), codes.InvalidArgument},
		{NewValidator().Field("x", "", Required).Error(), codes.InvalidArgument},
		{errors.New("boom"), codes.Internal},
		{NotFoundError("gone"), codes.NotFound},
	}
	for _, tt := range tests {
		st, _ := status.FromError(ToStatus(tt.err))
		if st.Code() != tt.code {
			t.Errorf("ToStatus(%v) = %v, want %v", tt.err, st.Code(), tt.code)
		}
	}
	if ToStatus(nil) != nil {
		t.Fatal("nil should stay nil")
	}
}
