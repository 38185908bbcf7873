// Package storetest checks store.Store implementations.
package storetest

import (
	"context"
	"testing"

	"github.com/oukeidos/kozh/internal/store"
)

// Conformance runs the behaviour every Store must share. Backend packages
// call it from their own tests with a fresh, empty store.
func Conformance(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, store.KeyHistory); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, store.KeyHistory, `[{"original":"나 프리랜서다"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get(ctx, store.KeyHistory)
	if err != nil || !ok || got != `[{"original":"나 프리랜서다"}]` {
		t.Fatalf("get after set: %q ok=%v err=%v", got, ok, err)
	}

	if err := s.Set(ctx, store.KeyHistory, "[]"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _, _ := s.Get(ctx, store.KeyHistory); got != "[]" {
		t.Fatalf("overwrite not visible: %q", got)
	}

	if err := s.Set(ctx, store.KeyCorrectionInstruction, ""); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if got, ok, err := s.Get(ctx, store.KeyCorrectionInstruction); err != nil || !ok || got != "" {
		t.Fatalf("empty value should be stored: %q ok=%v err=%v", got, ok, err)
	}

	if err := s.Delete(ctx, store.KeyHistory); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := s.Get(ctx, store.KeyHistory); err != nil || ok {
		t.Fatalf("deleted key still present: ok=%v err=%v", ok, err)
	}
	if err := s.Delete(ctx, store.KeyHistory); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}
