package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/unicode/norm"

	"github.com/oukeidos/kozh/internal/apperrors"
	"github.com/oukeidos/kozh/internal/language"
	"github.com/oukeidos/kozh/internal/llm"
	"github.com/oukeidos/kozh/internal/prompts"
	"github.com/oukeidos/kozh/internal/store"
)

const (
	// DemoSentinel unlocks a canned correction when no API key is saved.
	DemoSentinel = "나 프리랜서다"

	demoPolite      = "저는 프리랜서입니다. 축구와 주짓수를 하고 있고, 운동을 좋아합니다."
	demoCasual      = "나는 프리랜서야. 축구랑 주짓수 하고 있고, 운동 좋아해."
	demoExplanation = "테스트 모드입니다. API 키를 입력하면 실제 AI가 동작합니다."
)

// Correct asks the model to correct input in the given tone. Blank input
// does nothing. Without a credential only the demo sentence is answered.
// On failure the session is left as it was.
func (s *Session) Correct(ctx context.Context, input, instruction string, tone Tone) (*CorrectionRecord, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	if !tone.Valid() {
		return nil, fmt.Errorf("unknown tone %q", tone)
	}
	release, err := s.acquire(OpCorrect)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	model := s.model
	s.mu.Unlock()

	normalized := norm.NFC.String(input)
	var reply correctionReply
	if model == nil {
		if !strings.Contains(normalized, DemoSentinel) {
			return nil, apperrors.MissingCredential()
		}
		reply = demoReply(tone)
		slog.Info("Answering demo correction", "tone", tone)
	} else {
		p, err := s.prompts.Correction(normalized, instruction, string(tone))
		if err != nil {
			return nil, err
		}
		slog.Info("Correction started", "tone", tone, "chars", len([]rune(normalized)))
		if err := s.generate(ctx, model, p, prompts.CorrectionSchema(), &reply); err != nil {
			slog.Warn("Correction failed", "error", err)
			return nil, err
		}
	}

	now := s.now()
	rec := CorrectionRecord{
		Original:    input,
		Corrected:   reply.Corrected,
		Explanation: reply.Explanation,
		ID:          s.newID(),
		CreatedAt:   &now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]CorrectionRecord, 0, MaxHistory)
	history = append(history, rec)
	history = append(history, s.history...)
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}
	if err := s.saveHistoryLocked(ctx, history); err != nil {
		return nil, err
	}
	s.history = history
	current := rec
	s.current = &current
	s.editing = false
	s.editBuffer = rec.Corrected
	s.resultPair = nil
	slog.Info("Correction finished", "history_size", len(history))
	out := rec
	return &out, nil
}

func demoReply(tone Tone) correctionReply {
	corrected := demoPolite
	if tone == ToneCasual {
		corrected = demoCasual
	}
	return correctionReply{Corrected: corrected, Explanation: demoExplanation}
}

func (s *Session) saveHistoryLocked(ctx context.Context, history []CorrectionRecord) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyHistory, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// TranslateResult translates the current result into Simplified Chinese.
// It does nothing without a result or a credential. The previous pair is
// dropped before the call and stays dropped if the call fails. A reply
// that arrives after the current result changed is dropped with
// ErrResultChanged.
func (s *Session) TranslateResult(ctx context.Context) (*TranslationPair, error) {
	s.mu.Lock()
	if s.current == nil || s.model == nil {
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	release, err := s.acquire(OpTranslateResult)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	if s.current == nil || s.model == nil {
		s.mu.Unlock()
		return nil, nil
	}
	s.resultPair = nil
	subject := s.current
	text := s.resultTextLocked()
	model := s.model
	s.mu.Unlock()

	p, err := s.prompts.ResultTranslation(norm.NFC.String(text))
	if err != nil {
		return nil, err
	}
	var reply translationReply
	if err := s.generate(ctx, model, p, prompts.TranslationSchema(), &reply); err != nil {
		slog.Warn("Result translation failed", "error", err)
		return nil, err
	}
	pair := TranslationPair(reply)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != subject {
		slog.Debug("Result changed during translation; discarding")
		return nil, ErrResultChanged
	}
	s.resultPair = &pair
	out := pair
	return &out, nil
}

// QuickTranslate translates free text in either direction. History is not
// touched.
func (s *Session) QuickTranslate(ctx context.Context, text string, direction language.Direction, instruction string) (*TranslationPair, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("unknown direction %q", direction)
	}
	s.mu.Lock()
	model := s.model
	s.mu.Unlock()
	if model == nil {
		return nil, apperrors.MissingCredential()
	}

	release, err := s.acquire(OpQuickTranslate)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	s.quickPair = nil
	s.mu.Unlock()

	src, tgt := direction.Source(), direction.Target()
	p, err := s.prompts.QuickTranslation(norm.NFC.String(text), src.Name, tgt.Name, instruction)
	if err != nil {
		return nil, err
	}
	slog.Info("Quick translation started", "direction", direction, "chars", len([]rune(text)))
	var reply translationReply
	if err := s.generate(ctx, model, p, prompts.TranslationSchema(), &reply); err != nil {
		slog.Warn("Quick translation failed", "error", err)
		return nil, err
	}
	pair := TranslationPair(reply)

	s.mu.Lock()
	s.quickPair = &pair
	s.mu.Unlock()
	out := pair
	return &out, nil
}

func (s *Session) generate(ctx context.Context, model llm.Model, p string, schema *llm.Schema, v any) error {
	resp, err := model.Generate(ctx, llm.Request{Prompt: p, Structured: true, Schema: schema})
	if err != nil {
		return err
	}
	if resp == nil {
		return apperrors.Malformed(fmt.Errorf("empty reply"))
	}
	slog.Debug("Model usage", "usage_in", resp.Usage.PromptTokens, "usage_all", resp.Usage.TotalTokens)
	return decodeReply(resp.Text, v)
}
