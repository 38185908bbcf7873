package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oukeidos/kozh/internal/language"
	"github.com/oukeidos/kozh/internal/preset"
	"github.com/oukeidos/kozh/internal/store"
)

func instructionKey(kind preset.Kind) (string, error) {
	switch kind {
	case preset.KindCorrection:
		return store.KeyCorrectionInstruction, nil
	case preset.KindTranslation:
		return store.KeyTranslationInstruction, nil
	default:
		return "", fmt.Errorf("unknown instruction kind %q", kind)
	}
}

// SetInstruction saves the free-text preference for the corrector or the
// translator.
func (s *Session) SetInstruction(ctx context.Context, kind preset.Kind, text string) error {
	key, err := instructionKey(kind)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, key, text); err != nil {
		return fmt.Errorf("save instruction: %w", err)
	}
	if kind == preset.KindTranslation {
		s.translateInstr = text
	} else {
		s.correctionInstr = text
	}
	return nil
}

// ApplyPreset replaces the instruction of kind with a catalog entry.
func (s *Session) ApplyPreset(ctx context.Context, kind preset.Kind, id string) error {
	p, ok := s.presets.Find(kind, id)
	if !ok {
		return fmt.Errorf("%s preset %q: %w", kind, id, ErrUnknownPreset)
	}
	return s.SetInstruction(ctx, kind, p.Text)
}

// LoadHistoryItem shows rec as the current result. History order is
// unchanged.
func (s *Session) LoadHistoryItem(rec CorrectionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &rec
	s.resultPair = nil
	s.editing = false
	s.editBuffer = rec.Corrected
}

// ClearHistory forgets every saved correction. Clearing an empty history
// is not an error.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, store.KeyHistory); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.history = nil
	return nil
}

// SetAPIKey saves key and rebuilds the model client. An empty key deletes
// the saved credential.
func (s *Session) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		if err := s.creds.Delete(ctx, s.service); err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
		if err := closeModel(s.model); err != nil {
			slog.Debug("Closing model client failed", "error", err)
		}
		s.apiKey, s.model = "", nil
		return nil
	}

	model, err := s.newModel(ctx, key)
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}
	if err := s.creds.Save(ctx, s.service, key); err != nil {
		_ = closeModel(model)
		return fmt.Errorf("save credential: %w", err)
	}
	if err := closeModel(s.model); err != nil {
		slog.Debug("Closing model client failed", "error", err)
	}
	s.apiKey, s.model = key, model
	return nil
}

func (s *Session) SetTone(t Tone) error {
	if !t.Valid() {
		return fmt.Errorf("unknown tone %q", t)
	}
	s.mu.Lock()
	s.tone = t
	s.mu.Unlock()
	return nil
}

func (s *Session) SetDirection(d language.Direction) error {
	if !d.Valid() {
		return fmt.Errorf("unknown direction %q", d)
	}
	s.mu.Lock()
	s.direction = d
	s.mu.Unlock()
	return nil
}

// SwapDirection flips the quick translator and returns the new direction.
func (s *Session) SwapDirection() language.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direction = s.direction.Swap()
	return s.direction
}

// Reset drops the current result, both translations and the history.
// Instructions and the credential are kept.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, store.KeyHistory); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.history = nil
	s.current = nil
	s.editing = false
	s.editBuffer = ""
	s.resultPair = nil
	s.quickPair = nil
	return nil
}
