// Package local speaks through the voice engine installed on the machine:
// say on macOS, espeak-ng (or espeak) elsewhere.
package local

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/oukeidos/kozh/internal/speech"
)

const (
	// Both engines default to roughly 175 words per minute.
	baseWordsPerMinute = 175
	basePitch          = 50
)

// Voice is an installed voice and the language it speaks.
type Voice struct {
	Name string
	Lang string
}

type Engine struct {
	cmd  speech.Commander
	goos string

	mu      sync.Mutex
	binary  string
	voices  map[string][]Voice
	current speech.Playback
}

var _ speech.Service = (*Engine)(nil)

type Option func(*Engine)

// WithCommander replaces the process runner.
func WithCommander(c speech.Commander) Option {
	return func(e *Engine) { e.cmd = c }
}

// WithGOOS pretends to run on another platform.
func WithGOOS(goos string) Option {
	return func(e *Engine) { e.goos = goos }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		cmd:    speech.ExecCommander{},
		goos:   runtime.GOOS,
		voices: make(map[string][]Voice),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) candidates() []string {
	switch e.goos {
	case "darwin":
		return []string{"say"}
	case "windows":
		return nil
	default:
		return []string{"espeak-ng", "espeak"}
	}
}

func (e *Engine) resolveBinaryLocked() (string, error) {
	if e.binary != "" {
		return e.binary, nil
	}
	for _, name := range e.candidates() {
		if path, err := e.cmd.LookPath(name); err == nil {
			e.binary = path
			return path, nil
		}
	}
	return "", fmt.Errorf("no speech engine found on %s (install espeak-ng)", e.goos)
}

// Speak cancels whatever this engine is still saying, then starts u.
func (e *Engine) Speak(ctx context.Context, u speech.Utterance) (speech.Playback, error) {
	u = u.Normalize()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		e.current.Stop()
		e.current = nil
	}

	bin, err := e.resolveBinaryLocked()
	if err != nil {
		return nil, err
	}
	voice, ok := e.pickVoiceLocked(ctx, bin, u.Lang)
	if !ok {
		slog.Debug("No installed voice matches language; using engine default", "lang", u.Lang)
	}

	pb, err := e.cmd.Start(ctx, bin, e.args(u, voice, ok)...)
	if err != nil {
		return nil, fmt.Errorf("start speech engine: %w", err)
	}
	e.current = pb
	return pb, nil
}

func (e *Engine) isSay() bool { return e.goos == "darwin" }

func (e *Engine) args(u speech.Utterance, voice Voice, haveVoice bool) []string {
	rate := strconv.Itoa(int(baseWordsPerMinute * u.Rate))
	if e.isSay() {
		args := []string{"-r", rate}
		if haveVoice {
			args = append(args, "-v", voice.Name)
		}
		return append(args, "--", u.Text)
	}
	args := []string{"-s", rate, "-p", strconv.Itoa(clampPitch(int(basePitch * u.Pitch)))}
	if haveVoice {
		args = append(args, "-v", voice.Name)
	}
	return append(args, "--", u.Text)
}

func clampPitch(p int) int {
	return max(0, min(99, p))
}

// pickVoiceLocked prefers a voice whose language equals lang, then one
// with the same primary subtag (ko for ko-KR).
func (e *Engine) pickVoiceLocked(ctx context.Context, bin, lang string) (Voice, bool) {
	voices, err := e.voicesLocked(ctx, bin)
	if err != nil {
		slog.Debug("Listing voices failed", "error", err)
		return Voice{}, false
	}
	return MatchVoice(voices, lang)
}

func MatchVoice(voices []Voice, lang string) (Voice, bool) {
	want := normalizeTag(lang)
	primary, _, _ := strings.Cut(want, "-")
	for _, v := range voices {
		if normalizeTag(v.Lang) == want {
			return v, true
		}
	}
	for _, v := range voices {
		if p, _, _ := strings.Cut(normalizeTag(v.Lang), "-"); p == primary {
			return v, true
		}
	}
	return Voice{}, false
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
}

func (e *Engine) voicesLocked(ctx context.Context, bin string) ([]Voice, error) {
	if v, ok := e.voices[bin]; ok {
		return v, nil
	}
	var (
		out []byte
		err error
	)
	if e.isSay() {
		out, err = e.cmd.Output(ctx, bin, "-v", "?")
	} else {
		out, err = e.cmd.Output(ctx, bin, "--voices")
	}
	if err != nil {
		return nil, err
	}
	var voices []Voice
	if e.isSay() {
		voices = ParseSayVoices(out)
	} else {
		voices = ParseEspeakVoices(out)
	}
	e.voices[bin] = voices
	return voices, nil
}

var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9]+)\s+#`)

// ParseSayVoices reads the output of `say -v ?`.
func ParseSayVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		m := sayVoiceLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		voices = append(voices, Voice{Name: strings.TrimSpace(m[1]), Lang: m[2]})
	}
	return voices
}

// ParseEspeakVoices reads the table printed by `espeak-ng --voices`. The
// language column doubles as the voice name passed to -v.
func ParseEspeakVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		voices = append(voices, Voice{Name: fields[1], Lang: fields[1]})
	}
	return voices
}
