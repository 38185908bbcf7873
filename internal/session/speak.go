package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oukeidos/kozh/internal/speech"
)

// SynthesizeSpeech reads text aloud in the session's speech language and
// returns when playback ends. If the engine never reports the end, the
// call gives up after speech.SafetyTimeout and returns nil. Cancelling
// ctx stops playback.
func (s *Session) SynthesizeSpeech(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.speech == nil {
		return ErrNoSpeech
	}
	prepared := speech.PrepareText(text)
	if prepared == "" {
		return nil
	}
	release, err := s.acquire(OpSpeech)
	if err != nil {
		return err
	}
	defer release()

	pb, err := s.speech.Speak(ctx, speech.Utterance{
		Text:  prepared,
		Lang:  s.lang,
		Rate:  speech.DefaultRate,
		Pitch: speech.DefaultPitch,
	})
	if err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	err = speech.Wait(ctx, pb, speech.SafetyTimeout(prepared))
	if errors.Is(err, speech.ErrNoCompletion) {
		slog.Debug("Speech engine sent no completion; releasing", "lang", s.lang)
		return nil
	}
	if err != nil {
		return fmt.Errorf("speech playback: %w", err)
	}
	return nil
}
