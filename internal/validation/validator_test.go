package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Username string   `json:"username" validate:"required,min=3"`
	Action   string   `json:"action" validate:"required,oneof=rate like"`
	Rating   *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	bad := 11.0
	err := ValidateStruct(&sample{Username: "ab", Action: "share", Rating: &bad})

	var verr *RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(verr.Fields), verr)
	}

	msg := verr.Error()
	for _, want := range []string{"username must be at least 3 characters", "action must be one of [rate like]", "rating must be less than or equal to 10"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestValidateStructAcceptsValid(t *testing.T) {
	if err := ValidateStruct(&sample{Username: "alice", Action: "like"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewError(t *testing.T) {
	err := NewError("minYear", "must be an integer")
	if err.Error() != "minYear must be an integer" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
