package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIs_MatchesCode(t *testing.T) {
	t.Parallel()

	err := ErrUserNotFound()
	if !Is(err, "user_not_found") {
		t.Fatalf("expected code match")
	}
	if Is(err, "invalid_credentials") {
		t.Fatalf("unexpected code match")
	}
	if Is(errors.New("plain"), "user_not_found") {
		t.Fatalf("plain errors carry no code")
	}

	// wrapped domain errors still match
	wrapped := fmt.Errorf("context: %w", err)
	if !Is(wrapped, "user_not_found") {
		t.Fatalf("expected match through wrapping")
	}
}

func TestErrLockedOut_MetaCarriesRFC3339(t *testing.T) {
	t.Parallel()

	until := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	err := ErrLockedOut(until)

	got := err.Meta["locked_until"]
	parsed, perr := time.Parse(time.RFC3339, got)
	if perr != nil {
		t.Fatalf("locked_until not RFC3339: %q", got)
	}
	if !parsed.Equal(until) {
		t.Fatalf("expected %v, got %v", until, parsed)
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("socket closed")
	err := ErrDBUnavailable(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if err.Kind != KindInfrastructure {
		t.Fatalf("expected infrastructure kind, got %v", err.Kind)
	}
}
