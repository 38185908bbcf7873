// Package speech defines the text-to-speech seam used by the assistant
// session and helpers shared by the engines in its subpackages.
package speech

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

const (
	DefaultLang  = "ko-KR"
	DefaultRate  = 1.0
	DefaultPitch = 1.0

	safetyBase    = time.Second
	safetyPerChar = 200 * time.Millisecond
)

// ErrNoCompletion is returned by Wait when the engine never reported the
// end of playback within the safety timeout.
var ErrNoCompletion = errors.New("speech engine did not report completion")

type Utterance struct {
	Text string
	// Lang is a BCP 47 tag such as ko-KR.
	Lang string
	// Rate and Pitch are relative, 1.0 being the engine default.
	Rate  float64
	Pitch float64
}

// Playback is one utterance being spoken.
type Playback interface {
	// Done yields exactly one value when playback ends: nil on success.
	Done() <-chan error
	// Stop interrupts playback. It is safe to call more than once.
	Stop()
}

type Service interface {
	Speak(ctx context.Context, u Utterance) (Playback, error)
}

var (
	hashtagPattern    = regexp.MustCompile(`(^|\s)#[^\s#]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// PrepareText removes what a voice should not read aloud: emoji and
// hashtags, as produced by the social-media translation styles.
func PrepareText(text string) string {
	text = gomoji.RemoveEmojis(text)
	text = hashtagPattern.ReplaceAllString(text, "$1")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SafetyTimeout is how long to wait for a completion notification before
// giving up on it: one second plus 200ms per user-perceived character.
func SafetyTimeout(text string) time.Duration {
	return safetyBase + time.Duration(uniseg.GraphemeClusterCount(text))*safetyPerChar
}

// Wait blocks until pb finishes, ctx ends or timeout passes. Context
// cancellation stops playback; a timeout leaves it alone and returns
// ErrNoCompletion.
func Wait(ctx context.Context, pb Playback, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-pb.Done():
		return err
	case <-ctx.Done():
		pb.Stop()
		return ctx.Err()
	case <-timer.C:
		return ErrNoCompletion
	}
}

// Normalize fills zero fields with the defaults.
func (u Utterance) Normalize() Utterance {
	if strings.TrimSpace(u.Lang) == "" {
		u.Lang = DefaultLang
	}
	if u.Rate <= 0 {
		u.Rate = DefaultRate
	}
	if u.Pitch <= 0 {
		u.Pitch = DefaultPitch
	}
	return u
}
