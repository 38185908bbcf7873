package session

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/oukeidos/kozh/internal/apperrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type correctionReply struct {
	Corrected   string `json:"corrected" validate:"required"`
	Explanation string `json:"explanation" validate:"required"`
}

type translationReply struct {
	Precise  string `json:"precise" validate:"required"`
	Creative string `json:"creative" validate:"required"`
}

// decodeReply parses a model reply into v and checks its required fields.
// Any failure is a malformed response.
func decodeReply(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return apperrors.Malformed(fmt.Errorf("decode reply: %w", err))
	}
	if err := validate.Struct(v); err != nil {
		return apperrors.Malformed(fmt.Errorf("validate reply: %w", err))
	}
	return nil
}
