package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxHistory is the number of corrections kept, newest first.
const MaxHistory = 10

var (
	// ErrBusy rejects an operation while another of the same kind is running.
	ErrBusy          = errors.New("operation already in progress")
	ErrNoResult      = errors.New("no current result")
	ErrNotEditing    = errors.New("result is not being edited")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrNoSpeech      = errors.New("speech is not configured")
	// ErrResultChanged means the current result was replaced or edited
	// while its translation was in flight; the reply was dropped.
	ErrResultChanged = errors.New("result changed during translation")
)

type Tone string

const (
	TonePolite Tone = "polite"
	ToneCasual Tone = "casual"
)

func ParseTone(s string) (Tone, error) {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case TonePolite:
		return TonePolite, nil
	case ToneCasual:
		return ToneCasual, nil
	default:
		return "", fmt.Errorf("unknown tone %q (want polite or casual)", s)
	}
}

func (t Tone) Valid() bool {
	return t == TonePolite || t == ToneCasual
}

// CorrectionRecord is one corrected text. ID and CreatedAt are absent in
// records written by older clients and stay absent when re-saved.
type CorrectionRecord struct {
	Original    string     `json:"original"`
	Corrected   string     `json:"corrected"`
	Explanation string     `json:"explanation"`
	ID          string     `json:"id,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// TranslationPair holds the two renderings the translator returns.
type TranslationPair struct {
	Precise  string `json:"precise"`
	Creative string `json:"creative"`
}

// Op names the four operations that wait on an external service.
type Op int

const (
	OpCorrect Op = iota
	OpTranslateResult
	OpSpeech
	OpQuickTranslate
	opCount
)

func (o Op) String() string {
	switch o {
	case OpCorrect:
		return "correct"
	case OpTranslateResult:
		return "translate_result"
	case OpSpeech:
		return "speech"
	case OpQuickTranslate:
		return "quick_translate"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}
