package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/oukeidos/kozh/internal/store"
)

const (
	ServiceGemini = "gemini"
	ServiceOpenAI = "openai"

	serviceName   = "kozh"
	geminiAccount = "gemini-api-key"
	openaiAccount = "openai-api-key"
	geminiEnvVar  = "GEMINI_API_KEY"
	openaiEnvVar  = "OPENAI_API_KEY"
)

// Source labels where a key was found.
const (
	SourceStore   = "Local storage"
	SourceKeyring = "Keychain"
	SourceEnv     = "Environment Variable"
)

// Credentials reads and writes API keys. Get returns "" with a nil error
// when no key is saved.
type Credentials interface {
	Get(ctx context.Context, service string) (key, source string, err error)
	Save(ctx context.Context, service, key string) error
	Delete(ctx context.Context, service string) error
}

func account(service string) string {
	if service == ServiceOpenAI {
		return openaiAccount
	}
	return geminiAccount
}

func envVar(service string) string {
	if service == ServiceOpenAI {
		return openaiEnvVar
	}
	return geminiEnvVar
}

func storeKey(service string) string {
	if service == ServiceOpenAI {
		return store.KeyOpenAIAPIKey
	}
	return store.KeyAPIKey
}

// Keyring keeps keys in the OS keychain.
type Keyring struct{}

func (Keyring) Get(_ context.Context, service string) (string, string, error) {
	key, err := keyring.Get(serviceName, account(service))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("read keychain: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", nil
	}
	return key, SourceKeyring, nil
}

func (Keyring) Save(_ context.Context, service, key string) error {
	return keyring.Set(serviceName, account(service), strings.TrimSpace(key))
}

func (Keyring) Delete(_ context.Context, service string) error {
	err := keyring.Delete(serviceName, account(service))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// StoreBacked keeps keys in the same durable store as history, under the
// gemini_api_key entry earlier clients used.
type StoreBacked struct {
	Store store.Store
}

func (s StoreBacked) Get(ctx context.Context, service string) (string, string, error) {
	key, ok, err := s.Store.Get(ctx, storeKey(service))
	if err != nil {
		return "", "", err
	}
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", nil
	}
	return key, SourceStore, nil
}

func (s StoreBacked) Save(ctx context.Context, service, key string) error {
	return s.Store.Set(ctx, storeKey(service), strings.TrimSpace(key))
}

func (s StoreBacked) Delete(ctx context.Context, service string) error {
	return s.Store.Delete(ctx, storeKey(service))
}

// EnvFallback answers from the environment when the wrapped credentials
// have no key. Writes go to the wrapped credentials only.
type EnvFallback struct {
	Credentials
}

func (e EnvFallback) Get(ctx context.Context, service string) (string, string, error) {
	key, source, err := e.Credentials.Get(ctx, service)
	if err != nil || key != "" {
		return key, source, err
	}
	if key, ok := GetEnvKey(service); ok {
		return key, SourceEnv, nil
	}
	return "", "", nil
}

// GetStatus reports whether creds hold a key for service.
func GetStatus(ctx context.Context, creds Credentials, service string) bool {
	key, _, err := creds.Get(ctx, service)
	return err == nil && key != ""
}

// PromptForAPIKey securely prompts the user for their API key.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// GetEnvKey retrieves the key from environment variables only.
func GetEnvKey(service string) (string, bool) {
	key := strings.TrimSpace(os.Getenv(envVar(service)))
	if key == "" {
		return "", false
	}
	return key, true
}
