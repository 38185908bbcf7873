package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestPublicMessageUsesSafeMessage(t *testing.T) {
	err := New(KindUnavailable, "Gemini temporary error", errors.New("sensitive payload"))
	if got := PublicMessage(err); got != "Gemini temporary error" {
		t.Fatalf("unexpected public message: %q", got)
	}
}

func TestRemotePassesMessageThrough(t *testing.T) {
	err := Remote("quota exceeded", errors.New("status 429"))
	if err.Error() != "quota exceeded" {
		t.Fatalf("expected verbatim message, got %q", err.Error())
	}
	if !IsRemote(err) {
		t.Fatalf("expected remote kind")
	}
}

func TestDefaultMessages(t *testing.T) {
	for _, kind := range []Kind{KindMissingCredential, KindRemote, KindMalformedResponse, KindUnavailable} {
		err := New(kind, "", nil)
		if err.Error() == "" || err.Error() == "unknown error" {
			t.Fatalf("kind %s has no default message", kind)
		}
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	wrapped := fmt.Errorf("correct: %w", Malformed(errors.New("missing corrected")))
	if !errors.Is(wrapped, ErrMalformedResponse) {
		t.Fatalf("expected errors.Is to match malformed kind")
	}
	if errors.Is(wrapped, ErrRemote) {
		t.Fatalf("did not expect remote kind to match")
	}
	if !IsMalformed(wrapped) {
		t.Fatalf("expected IsMalformed through wrapping")
	}
}

func TestKindOfAndTransient(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("plain error must not carry a kind")
	}
	if !IsTransient(Unavailable(errors.New("dial tcp"))) {
		t.Fatalf("unavailable should be transient")
	}
	if IsTransient(MissingCredential()) {
		t.Fatalf("missing credential is not transient")
	}
	if !IsMissingCredential(MissingCredential()) {
		t.Fatalf("expected missing credential kind")
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("root")
	err := Unavailable(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
}
