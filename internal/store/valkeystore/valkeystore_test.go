package valkeystore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/oukeidos/kozh/internal/store"
	"github.com/oukeidos/kozh/internal/store/storetest"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	s, err := Open(Options{Addr: mini.Addr(), Prefix: prefix, DisableCache: true})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
		mini.Close()
	})
	return s, mini
}

func TestConformance(t *testing.T) {
	s, _ := newTestStore(t, "")
	storetest.Conformance(t, s)
}

func TestKeysArePrefixed(t *testing.T) {
	s, mini := newTestStore(t, "user42:")
	if err := s.Set(context.Background(), store.KeyHistory, "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := mini.Get("user42:" + store.KeyHistory)
	if err != nil || got != "[]" {
		t.Fatalf("expected prefixed key on server, got %q err=%v", got, err)
	}
	if mini.Exists(store.KeyHistory) {
		t.Fatalf("unprefixed key should not exist")
	}
}

func TestDefaultPrefix(t *testing.T) {
	s, mini := newTestStore(t, "")
	if err := s.Set(context.Background(), store.KeyAPIKey, "k"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mini.Exists(DefaultPrefix + store.KeyAPIKey) {
		t.Fatalf("expected default prefix %q", DefaultPrefix)
	}
}

func TestClientOption(t *testing.T) {
	co, err := clientOption(Options{Addr: "redis://:pw@127.0.0.1:6380/2"})
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if co.InitAddress[0] != "127.0.0.1:6380" || co.Password != "pw" || co.SelectDB != 2 {
		t.Fatalf("unexpected option: %+v", co)
	}

	co, err = clientOption(Options{Addr: "localhost:6379", Password: "secret", DB: 1})
	if err != nil {
		t.Fatalf("plain addr: %v", err)
	}
	if co.InitAddress[0] != "localhost:6379" || co.Password != "secret" || co.SelectDB != 1 {
		t.Fatalf("unexpected option: %+v", co)
	}

	if _, err := clientOption(Options{}); err == nil {
		t.Fatalf("expected error for empty address")
	}
}
