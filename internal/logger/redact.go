package logger

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// Attributes whose key names user writing. Corrections, translations and
// instructions are personal text, not diagnostics.
var userTextKeys = map[string]bool{
	"original":    true,
	"corrected":   true,
	"explanation": true,
	"precise":     true,
	"creative":    true,
}

// Any key containing one of these fragments is treated as secret or user text.
var sensitiveFragments = []string{
	"key", "token", "secret", "password", "authorization", "bearer", "api",
	"prompt", "content", "body", "input", "output", "text", "instruction",
}

// Credential shapes that can leak through error strings under harmless keys.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsk-[A-Za-z0-9_-]{10,}\b`),
	regexp.MustCompile(`\bAIza[0-9A-Za-z\-_]{10,}\b`),
	regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]+=*\b`),
	regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|secret)\b\s*[:=]\s*\S+`),
}

// RedactAttr is the slog.HandlerOptions.ReplaceAttr used by every handler
// kozh installs.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKey(a.Key) || sensitiveValue(a.Value) {
		return slog.String(a.Key, redacted)
	}
	return a
}

func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if userTextKeys[key] {
		return true
	}
	for _, frag := range sensitiveFragments {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

func sensitiveValue(v slog.Value) bool {
	var s string
	if v.Kind() == slog.KindString {
		s = v.String()
	} else {
		s = fmt.Sprint(v.Any())
	}
	if s == "" {
		return false
	}
	for _, re := range credentialPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
