package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	// KindMissingCredential: no API key is configured for a feature that needs one.
	KindMissingCredential Kind = "missing_credential"
	// KindRemote: the model service itself reported a failure.
	KindRemote Kind = "remote"
	// KindMalformedResponse: a success response failed shape validation.
	KindMalformedResponse Kind = "malformed_response"
	// KindUnavailable: network-level failure, the service was never reached or did not answer.
	KindUnavailable Kind = "unavailable"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches any *Error of the same kind, so callers can test with
// errors.Is(err, apperrors.ErrMissingCredential) and friends.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return t.SafeMessage == "" && t.Cause == nil && t.Kind == e.Kind
}

// Kind-only sentinels for errors.Is.
var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrRemote            = &Error{Kind: KindRemote}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrUnavailable       = &Error{Kind: KindUnavailable}
)

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindMissingCredential:
		return "API key is not configured. Save a Gemini API key first (kozh env setup)."
	case KindRemote:
		return "The language service rejected the request."
	case KindMalformedResponse:
		return "The language service returned an unexpected response."
	case KindUnavailable:
		return "The language service could not be reached. Please try again."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func MissingCredential() error {
	return New(KindMissingCredential, "", nil)
}

// Remote passes the service-reported message through verbatim.
func Remote(message string, cause error) error {
	return New(KindRemote, message, cause)
}

func Malformed(cause error) error {
	return New(KindMalformedResponse, "", cause)
}

func Unavailable(cause error) error {
	return New(KindUnavailable, "", cause)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

func IsMissingCredential(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindMissingCredential
}

func IsRemote(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindRemote
}

func IsMalformed(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindMalformedResponse
}

// IsTransient reports whether trying again later might help. Nothing in
// kozh retries automatically; hosts use this to word their notification.
func IsTransient(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindUnavailable
}
