// Package session is the assistant's state and the operations a host
// calls on it: correcting Korean text, translating between Korean and
// Simplified Chinese, reading results aloud, and the preferences and
// history that persist between runs.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/oukeidos/kozh/internal/auth"
	"github.com/oukeidos/kozh/internal/language"
	"github.com/oukeidos/kozh/internal/llm"
	"github.com/oukeidos/kozh/internal/preset"
	"github.com/oukeidos/kozh/internal/prompts"
	"github.com/oukeidos/kozh/internal/speech"
	"github.com/oukeidos/kozh/internal/store"
)

// ModelFactory builds a model client for an API key.
type ModelFactory func(ctx context.Context, apiKey string) (llm.Model, error)

type Options struct {
	Store store.Store
	// Credentials defaults to the API key entry in Store.
	Credentials auth.Credentials
	// Service selects which credential is read. Defaults to Gemini.
	Service string
	NewModel ModelFactory

	// Speech may be nil, in which case SynthesizeSpeech fails with ErrNoSpeech.
	Speech     speech.Service
	SpeechLang string

	Prompts *prompts.Prompts
	Presets *preset.Catalog

	Now   func() time.Time
	NewID func() string
}

type Session struct {
	store    store.Store
	creds    auth.Credentials
	service  string
	newModel ModelFactory
	speech   speech.Service
	lang     string
	prompts  *prompts.Prompts
	presets  *preset.Catalog
	now      func() time.Time
	newID    func() string

	busy [opCount]atomic.Bool

	mu              sync.Mutex
	apiKey          string
	model           llm.Model
	history         []CorrectionRecord
	current         *CorrectionRecord
	editing         bool
	editBuffer      string
	resultPair      *TranslationPair
	quickPair       *TranslationPair
	correctionInstr string
	translateInstr  string
	tone            Tone
	direction       language.Direction
}

// New reads the credential, history and both instructions from storage.
// A history entry that cannot be parsed is logged and ignored.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session: store is required")
	}
	if opts.NewModel == nil {
		return nil, fmt.Errorf("session: model factory is required")
	}
	s := &Session{
		store:     opts.Store,
		creds:     opts.Credentials,
		service:   opts.Service,
		newModel:  opts.NewModel,
		speech:    opts.Speech,
		lang:      opts.SpeechLang,
		prompts:   opts.Prompts,
		presets:   opts.Presets,
		now:       opts.Now,
		newID:     opts.NewID,
		tone:      TonePolite,
		direction: language.KoToZh,
	}
	if s.creds == nil {
		s.creds = auth.StoreBacked{Store: opts.Store}
	}
	if s.service == "" {
		s.service = auth.ServiceGemini
	}
	if strings.TrimSpace(s.lang) == "" {
		s.lang = speech.DefaultLang
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	var err error
	if s.prompts == nil {
		if s.prompts, err = prompts.Default(); err != nil {
			return nil, err
		}
	}
	if s.presets == nil {
		if s.presets, err = preset.Builtin(); err != nil {
			return nil, err
		}
	}

	key, source, err := s.creds.Get(ctx, s.service)
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if key != "" {
		model, err := s.newModel(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("create model client: %w", err)
		}
		s.apiKey, s.model = key, model
		slog.Debug("Credential loaded", "source", source)
	}

	if raw, ok, err := s.store.Get(ctx, store.KeyHistory); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	} else if ok && raw != "" {
		var history []CorrectionRecord
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			slog.Warn("Stored history is unreadable; starting empty", "error", err)
		} else {
			if len(history) > MaxHistory {
				history = history[:MaxHistory]
			}
			s.history = history
		}
	}

	if s.correctionInstr, _, err = s.store.Get(ctx, store.KeyCorrectionInstruction); err != nil {
		return nil, fmt.Errorf("read instruction: %w", err)
	}
	if s.translateInstr, _, err = s.store.Get(ctx, store.KeyTranslationInstruction); err != nil {
		return nil, fmt.Errorf("read instruction: %w", err)
	}
	slog.Debug("Session ready", "history_size", len(s.history), "credential", s.apiKey != "")
	return s, nil
}

// Close releases the model client.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := closeModel(s.model)
	s.model = nil
	return err
}

func closeModel(m llm.Model) error {
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// acquire sets the busy flag for op. The returned func clears it.
func (s *Session) acquire(op Op) (func(), error) {
	if !s.busy[op].CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	return func() { s.busy[op].Store(false) }, nil
}

// Busy reports whether op is running.
func (s *Session) Busy(op Op) bool {
	if op < 0 || op >= opCount {
		return false
	}
	return s.busy[op].Load()
}

func (s *Session) HasCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey != ""
}

// Current returns a copy of the result being shown, or nil.
func (s *Session) Current() *CorrectionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	rec := *s.current
	return &rec
}

// History returns the saved corrections, newest first.
func (s *Session) History() []CorrectionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CorrectionRecord, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) ResultTranslation() *TranslationPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPair(s.resultPair)
}

func (s *Session) QuickTranslation() *TranslationPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPair(s.quickPair)
}

func copyPair(p *TranslationPair) *TranslationPair {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func (s *Session) Instruction(kind preset.Kind) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == preset.KindTranslation {
		return s.translateInstr
	}
	return s.correctionInstr
}

func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

func (s *Session) EditBuffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editBuffer
}

// ResultText is the text the result actions work on: the edit buffer
// while editing, otherwise the corrected text. Empty without a result.
func (s *Session) ResultText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultTextLocked()
}

func (s *Session) resultTextLocked() string {
	if s.current == nil {
		return ""
	}
	if s.editing {
		return s.editBuffer
	}
	return s.current.Corrected
}

func (s *Session) Tone() Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tone
}

func (s *Session) Direction() language.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.direction
}

func (s *Session) Presets(kind preset.Kind) []preset.Preset {
	return s.presets.List(kind)
}
