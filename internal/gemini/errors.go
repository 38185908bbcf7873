package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/kozh/internal/apperrors"
	"google.golang.org/api/googleapi"
)

// classifyGeminiError maps SDK failures onto the application error kinds.
// The service's own message is shown to the user unchanged.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	wrapped := fmt.Errorf("gemini generate content failed: %w", err)

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := strings.TrimSpace(gerr.Message)
		if msg == "" {
			msg = fmt.Sprintf("Gemini API error (%d).", gerr.Code)
		}
		return apperrors.Remote(msg, wrapped)
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return apperrors.Remote("Gemini blocked the request or its response.", wrapped)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.New(apperrors.KindUnavailable, "The request was cancelled or timed out.", wrapped)
	}

	// DNS, socket and other transport failures: the service was never reached.
	return apperrors.Unavailable(wrapped)
}

func malformed(err error) error {
	return apperrors.Malformed(fmt.Errorf("gemini response: %w", err))
}
