package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad %s", "input"), 400},
		{NotFound("missing"), 404},
		{Conflict("dup"), 409},
		{Forbidden("nope"), 403},
		{Overloaded("busy"), 503},
		{Transient(errors.New("timeout")), 503},
		{Internal(errors.New("boom")), 500},
	}
	for _, c := range cases {
		if got := c.err.HTTPStatus(); got != c.want {
			t.Errorf("%s: got %d, want %d", c.err.Code, got, c.want)
		}
	}
}

func TestValidationFormatsMessage(t *testing.T) {
	err := Validation("invalid %s %q", "user_id", "abc")
	want := `invalid user_id "abc"`
	if err.Message != want {
		t.Errorf("got %q, want %q", err.Message, want)
	}
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	base := NotFound("news item %d not found", 42)
	wrapped := fmt.Errorf("resolve feed: %w", base)

	if !Is(wrapped, CodeNotFound) {
		t.Error("expected Is to find the wrapped not_found code")
	}
	if Is(wrapped, CodeConflict) {
		t.Error("expected Is to not match a different code")
	}
}

func TestIsOnPlainError(t *testing.T) {
	if Is(errors.New("plain"), CodeInternal) {
		t.Error("expected Is to return false for a non-apperr error")
	}
}
