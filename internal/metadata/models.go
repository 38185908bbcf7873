package metadata

import "strings"

type GeminiModel struct {
	ID    string
	Label string
}

type OpenAIModel struct {
	ID    string
	Label string
}

// SpeechModel is a Gemini model that can answer with audio.
type SpeechModel struct {
	ID           string
	Label        string
	DefaultVoice string
}

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-5-mini"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultSpeechVoice = "Kore"
)

var GeminiModels = []GeminiModel{
	{ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash"},
	{ID: "gemini-2.5-flash-lite", Label: "Gemini 2.5 Flash-Lite"},
	{ID: "gemini-3-flash-preview", Label: "Gemini 3 Flash (preview)"},
	{ID: "gemini-3-pro-preview", Label: "Gemini 3 Pro (preview)"},
}

var OpenAIModels = []OpenAIModel{
	{ID: "gpt-5-mini", Label: "GPT-5 mini"},
	{ID: "gpt-5.2", Label: "GPT-5.2"},
}

var SpeechModels = []SpeechModel{
	{ID: "gemini-2.5-flash-preview-tts", Label: "Gemini 2.5 Flash TTS (preview)", DefaultVoice: "Kore"},
	{ID: "gemini-2.5-pro-preview-tts", Label: "Gemini 2.5 Pro TTS (preview)", DefaultVoice: "Kore"},
}

// retiredModels maps model IDs the service no longer serves to their replacement.
var retiredModels = map[string]string{
	"gemini-1.5-flash":     DefaultGeminiModel,
	"gemini-1.5-flash-001": DefaultGeminiModel,
	"gemini-1.5-pro":       DefaultGeminiModel,
}

func GeminiModelIDs() []string {
	ids := make([]string, 0, len(GeminiModels))
	for _, m := range GeminiModels {
		ids = append(ids, m.ID)
	}
	return ids
}

func OpenAIModelIDs() []string {
	ids := make([]string, 0, len(OpenAIModels))
	for _, m := range OpenAIModels {
		ids = append(ids, m.ID)
	}
	return ids
}

// NormalizeGeminiModel trims the ID, strips a "models/" prefix and swaps
// retired models for the default. It reports whether the ID changed.
func NormalizeGeminiModel(id string) (string, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(id), "models/")
	if trimmed == "" {
		return DefaultGeminiModel, true
	}
	if repl, ok := retiredModels[trimmed]; ok {
		return repl, true
	}
	return trimmed, trimmed != id
}

func LookupGemini(id string) (GeminiModel, bool) {
	for _, m := range GeminiModels {
		if m.ID == id {
			return m, true
		}
	}
	return GeminiModel{ID: id, Label: id}, false
}

func LookupSpeech(id string) (SpeechModel, bool) {
	for _, m := range SpeechModels {
		if m.ID == id {
			return m, true
		}
	}
	return SpeechModel{ID: id, Label: id, DefaultVoice: DefaultSpeechVoice}, false
}
