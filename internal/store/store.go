// Package store defines the durable string key/value storage the session
// persists to, plus an in-memory implementation.
package store

import (
	"context"
	"sync"
)

// Keys written by the assistant session. The values are kept compatible
// with what earlier clients stored.
const (
	KeyAPIKey                 = "gemini_api_key"
	KeyHistory                = "correction_history"
	KeyCorrectionInstruction  = "user_custom_instruction"
	KeyTranslationInstruction = "user_trans_instruction"
	// KeyOpenAIAPIKey holds the key for the optional OpenAI backend.
	KeyOpenAIAPIKey           = "openai_api_key"
)

// Store is a durable string to string map. Get reports whether the key was
// present. Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len is mostly useful in tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
