// Package remote synthesizes speech with a hosted Gemini TTS model and
// plays the returned audio through a local player program.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/oukeidos/kozh/internal/apperrors"
	"github.com/oukeidos/kozh/internal/metadata"
	"github.com/oukeidos/kozh/internal/speech"
	"github.com/oukeidos/kozh/internal/wav"
)

// generator is the part of *genai.Models the synthesizer needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Synthesizer struct {
	models generator
	model  string
	voice  string
	player Player
	tmpDir string

	mu      sync.Mutex
	current speech.Playback
}

var _ speech.Service = (*Synthesizer)(nil)

type Options struct {
	Model  string
	Voice  string
	Player Player
	// TempDir holds the WAV files while they play. Empty means os.TempDir.
	TempDir string
}

func NewSynthesizer(ctx context.Context, apiKey string, opts Options) (*Synthesizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.MissingCredential()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return newSynthesizer(client.Models, opts), nil
}

func newSynthesizer(models generator, opts Options) *Synthesizer {
	s := &Synthesizer{
		models: models,
		model:  opts.Model,
		voice:  opts.Voice,
		player: opts.Player,
		tmpDir: opts.TempDir,
	}
	if s.model == "" {
		s.model = metadata.DefaultSpeechModel
	}
	if s.voice == "" {
		s.voice = metadata.DefaultSpeechVoice
	}
	if s.player == nil {
		s.player = NewProcessPlayer(speech.ExecCommander{})
	}
	return s
}

func (s *Synthesizer) Speak(ctx context.Context, u speech.Utterance) (speech.Playback, error) {
	u = u.Normalize()

	s.mu.Lock()
	if s.current != nil {
		s.current.Stop()
		s.current = nil
	}
	s.mu.Unlock()

	pcm, format, err := s.synthesize(ctx, u)
	if err != nil {
		return nil, err
	}
	data, err := wav.Encode(pcm, format)
	if err != nil {
		return nil, apperrors.Malformed(err)
	}
	path, err := s.writeTemp(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("Playing synthesized speech", "lang", u.Lang, "duration_ms", wav.Duration(len(pcm), format))

	pb, err := s.player.Play(ctx, path)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	pb = speech.OnDone(pb, func() { _ = os.Remove(path) })

	s.mu.Lock()
	s.current = pb
	s.mu.Unlock()
	return pb, nil
}

func (s *Synthesizer) synthesize(ctx context.Context, u speech.Utterance) ([]byte, wav.Format, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: u.Lang,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}
	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(u.Text), cfg)
	if err != nil {
		return nil, wav.Format{}, classifyError(err)
	}
	return extractAudio(resp)
}

func (s *Synthesizer) writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp(s.tmpDir, "kozh-speech-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return path, nil
}

// extractAudio returns the PCM of the first candidate. Inline data is
// used as-is; a text part is accepted as base64 PCM.
func extractAudio(resp *genai.GenerateContentResponse) ([]byte, wav.Format, error) {
	format := wav.DefaultFormat
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, format, apperrors.Malformed(errors.New("no audio candidate"))
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			if rate, ok := sampleRate(part.InlineData.MIMEType); ok {
				format.SampleRate = rate
			}
			return part.InlineData.Data, format, nil
		}
		if strings.TrimSpace(part.Text) != "" {
			pcm, err := wav.DecodeBase64PCM(part.Text)
			if err != nil {
				return nil, format, apperrors.Malformed(err)
			}
			return pcm, format, nil
		}
	}
	return nil, format, apperrors.Malformed(errors.New("candidate carried no audio"))
}

// sampleRate reads the rate parameter of a MIME type such as
// "audio/L16;codec=pcm;rate=24000".
func sampleRate(mimeType string) (int, bool) {
	for _, param := range strings.Split(mimeType, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(name, "rate") {
			continue
		}
		rate, err := strconv.Atoi(value)
		if err != nil || rate <= 0 {
			return 0, false
		}
		return rate, true
	}
	return 0, false
}

func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = fmt.Sprintf("Speech API error (%d).", apiErr.Code)
		}
		return apperrors.Remote(msg, err)
	}
	return apperrors.Unavailable(err)
}
