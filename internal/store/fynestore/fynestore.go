// Package fynestore adapts fyne application preferences to store.Store,
// for hosts that embed the assistant in a fyne window.
package fynestore

import (
	"context"

	"fyne.io/fyne/v2"

	"github.com/oukeidos/kozh/internal/store"
)

// missing cannot be typed by a user, so it marks an absent preference.
const missing = "\x00kozh:missing\x00"

type Store struct {
	prefs  fyne.Preferences
	prefix string
}

var _ store.Store = (*Store)(nil)

// New stores values in prefs under prefix+key.
func New(prefs fyne.Preferences, prefix string) *Store {
	return &Store{prefs: prefs, prefix: prefix}
}

// FromApp uses the preferences of the running fyne app. It returns nil
// when no app has been created.
func FromApp(prefix string) *Store {
	app := fyne.CurrentApp()
	if app == nil {
		return nil
	}
	return New(app.Preferences(), prefix)
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	v := s.prefs.StringWithFallback(s.prefix+key, missing)
	if v == missing {
		return "", false, nil
	}
	return v, true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.prefs.SetString(s.prefix+key, value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.prefs.RemoveValue(s.prefix + key)
	return nil
}
