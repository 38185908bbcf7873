package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/kozh/internal/llm"
	"google.golang.org/api/option"
)

// Client handles communication with the Gemini API.
type Client struct {
	client    *genai.Client
	modelName string
}

var _ llm.Model = (*Client)(nil)

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	// Note: We avoid using option.WithHTTPClient because it interferes with the genai library's
	// internal header injection for API keys, causing 403 errors.
	// Instead, we enforce timeouts via context in the Generate method.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{
		client:    client,
		modelName: modelName,
	}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.modelName
}

// Generate sends one prompt to Gemini and returns the text of the first
// candidate that has any.
func (c *Client) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	model := c.client.GenerativeModel(c.modelName)
	configureModel(model, req)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return nil, malformed(err)
	}

	out := &llm.Response{Text: text}
	if resp.UsageMetadata != nil {
		out.Usage = llm.Usage{
			PromptTokens: int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

func configureModel(model *genai.GenerativeModel, req llm.Request) {
	if !req.Structured {
		return
	}
	model.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}
}

func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case llm.TypeObject:
		out.Type = genai.TypeObject
	case llm.TypeString:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined strings.Builder
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined.WriteString(string(text))
		}
		if combined.Len() > 0 {
			return combined.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
