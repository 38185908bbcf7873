package auth

import (
	"context"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/oukeidos/kozh/internal/store"
)

func TestKeyring(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	var k Keyring

	if key, _, err := k.Get(ctx, ServiceGemini); err != nil || key != "" {
		t.Fatalf("expected no key, got %q err=%v", key, err)
	}
	if err := k.Save(ctx, ServiceGemini, "  AIzaKey  "); err != nil {
		t.Fatalf("save: %v", err)
	}
	key, source, err := k.Get(ctx, ServiceGemini)
	if err != nil || key != "AIzaKey" || source != SourceKeyring {
		t.Fatalf("unexpected key %q source %q err=%v", key, source, err)
	}
	if key, _, _ := k.Get(ctx, ServiceOpenAI); key != "" {
		t.Fatalf("openai account should be separate, got %q", key)
	}
	if err := k.Delete(ctx, ServiceGemini); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := k.Delete(ctx, ServiceGemini); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestStoreBackedUsesGeminiKey(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	creds := StoreBacked{Store: mem}

	if err := creds.Save(ctx, ServiceGemini, "AIzaKey"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if v, ok, _ := mem.Get(ctx, store.KeyAPIKey); !ok || v != "AIzaKey" {
		t.Fatalf("expected key under %s, got %q", store.KeyAPIKey, v)
	}
	if !GetStatus(ctx, creds, ServiceGemini) {
		t.Fatalf("expected status true")
	}
	if GetStatus(ctx, creds, ServiceOpenAI) {
		t.Fatalf("expected no openai key")
	}
	if err := creds.Delete(ctx, ServiceGemini); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := mem.Get(ctx, store.KeyAPIKey); ok {
		t.Fatalf("key should be gone")
	}
}

func TestEnvFallback(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	creds := EnvFallback{Credentials: StoreBacked{Store: mem}}

	t.Setenv(geminiEnvVar, " env-key ")
	key, source, err := creds.Get(ctx, ServiceGemini)
	if err != nil || key != "env-key" || source != SourceEnv {
		t.Fatalf("expected env key, got %q %q %v", key, source, err)
	}

	if err := creds.Save(ctx, ServiceGemini, "stored"); err != nil {
		t.Fatalf("save: %v", err)
	}
	key, source, _ = creds.Get(ctx, ServiceGemini)
	if key != "stored" || source != SourceStore {
		t.Fatalf("stored key should win, got %q from %q", key, source)
	}
}

func TestGetEnvKey(t *testing.T) {
	t.Setenv(openaiEnvVar, "")
	if _, ok := GetEnvKey(ServiceOpenAI); ok {
		t.Fatalf("empty env var should not count")
	}
	t.Setenv(openaiEnvVar, "sk-test")
	if key, ok := GetEnvKey(ServiceOpenAI); !ok || key != "sk-test" {
		t.Fatalf("unexpected env key %q", key)
	}
}
