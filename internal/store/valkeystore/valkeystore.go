// Package valkeystore keeps the key/value map in Valkey (or Redis), so
// several hosts signed in as the same user share history and settings.
package valkeystore

import (
	"context"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/oukeidos/kozh/internal/store"
)

const DefaultPrefix = "kozh:"

type Options struct {
	// Addr is host:port, or a redis:// / rediss:// / valkey:// URL.
	Addr     string
	Username string
	Password string
	DB       int
	// Prefix namespaces every key. Empty means DefaultPrefix.
	Prefix string
	// DisableCache turns off client-side caching, which some servers
	// (and miniredis) do not support.
	DisableCache bool
}

type Store struct {
	client valkey.Client
	prefix string
}

var _ store.Store = (*Store)(nil)

func clientOption(opts Options) (valkey.ClientOption, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return valkey.ClientOption{}, fmt.Errorf("valkey address is empty")
	}
	var co valkey.ClientOption
	if strings.Contains(addr, "://") {
		parsed, err := valkey.ParseURL(addr)
		if err != nil {
			return valkey.ClientOption{}, fmt.Errorf("parse valkey url: %w", err)
		}
		co = parsed
	} else {
		co = valkey.ClientOption{InitAddress: []string{addr}}
	}
	if opts.Username != "" {
		co.Username = opts.Username
	}
	if opts.Password != "" {
		co.Password = opts.Password
	}
	if opts.DB != 0 {
		co.SelectDB = opts.DB
	}
	co.DisableCache = opts.DisableCache
	co.ForceSingleClient = true
	return co, nil
}

// Open connects to the server described by opts.
func Open(opts Options) (*Store, error) {
	co, err := clientOption(opts)
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(co)
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}
	return New(client, opts.Prefix), nil
}

// New wraps an existing client. The store takes ownership of it.
func New(client valkey.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.key(key)).Build()
	value, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(s.key(key)).Value(value).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	cmd := s.client.B().Del().Key(s.key(key)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil && !valkey.IsValkeyNil(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	s.client.Close()
	return nil
}
