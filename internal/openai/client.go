package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/oukeidos/kozh/internal/apperrors"
	"github.com/oukeidos/kozh/internal/httpclient"
	"github.com/oukeidos/kozh/internal/llm"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// RequestData represents the request body for OpenAI API
type RequestData struct {
	Model           string            `json:"model"`
	Input           []InputItem       `json:"input"`
	Reasoning       *ReasoningOptions `json:"reasoning,omitempty"`
	Text            *TextOptions      `json:"text,omitempty"`
	MaxOutputTokens int               `json:"max_output_tokens,omitempty"`
}

type ReasoningOptions struct {
	Effort string `json:"effort,omitempty"`
}

type TextOptions struct {
	Format *ResponseFormat `json:"format,omitempty"`
}

type InputItem struct {
	Type    string `json:"type"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ResponseData represents the simplified response body from OpenAI Responses API
type ResponseData struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"`
	IncompleteDetails *IncompleteDetails `json:"incomplete_details,omitempty"`
	Output            []OutputItem       `json:"output"`
	Usage             Usage              `json:"usage"`
}

type IncompleteDetails struct {
	Reason string `json:"reason"`
}

type OutputItem struct {
	Type    string            `json:"type"`
	Status  string            `json:"status,omitempty"`
	Role    string            `json:"role,omitempty"`
	Content []ResponseContent `json:"content,omitempty"`
}

type ResponseContent struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Refusal string `json:"refusal,omitempty"`
}

type ResponseFormat struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`   // Required for Responses API structured outputs
	Strict bool   `json:"strict,omitempty"` // Required for Responses API structured outputs
	Schema any    `json:"schema,omitempty"` // Required for Responses API structured outputs
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type errorEnvelope struct {
	Error *errorDetails `json:"error"`
}

type errorDetails struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (e errorDetails) codeString() string {
	if e.Code == nil {
		return ""
	}
	return fmt.Sprint(e.Code)
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
}

var _ llm.Model = (*Client)(nil)

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}

func (c *Client) Close() error { return nil }

// Generate sends the prompt as a single user message. Structured requests
// use json_schema output when a schema is supplied and json_object
// otherwise.
func (c *Client) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	result, err := c.send(ctx, buildRequest(c.model, req))
	if err != nil {
		return nil, err
	}
	text, err := outputText(result)
	if err != nil {
		return nil, apperrors.Malformed(err)
	}
	return &llm.Response{
		Text: text,
		Usage: llm.Usage{
			PromptTokens: result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
			TotalTokens:  result.Usage.TotalTokens,
		},
	}, nil
}

func buildRequest(model string, req llm.Request) RequestData {
	data := RequestData{
		Model: model,
		Input: []InputItem{{Type: "message", Role: "user", Content: req.Prompt}},
	}
	if req.Structured {
		format := &ResponseFormat{Type: "json_object"}
		if req.Schema != nil {
			format = &ResponseFormat{
				Type:   "json_schema",
				Name:   "kozh_response",
				Strict: true,
				Schema: req.Schema.JSONSchema(),
			}
		}
		data.Text = &TextOptions{Format: format}
	}
	return data
}

func (c *Client) send(ctx context.Context, req RequestData) (*ResponseData, error) {
	httpReq, err := httpclient.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/responses", req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	body, resp, err := httpclient.DoAndRead(httpclient.Default(), httpReq)
	if err != nil {
		return nil, apperrors.Unavailable(fmt.Errorf("openai request failed: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyOpenAIError(resp.StatusCode, resp.Status, parseErrorDetails(body))
	}

	// Some compatible gateways report errors with a 200 status.
	if details := parseErrorDetails(body); details != nil && details.Message != "" {
		return nil, classifyOpenAIError(resp.StatusCode, resp.Status, details)
	}

	var result ResponseData
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Malformed(fmt.Errorf("failed to decode openai response: %w", err))
	}

	slog.Debug("OpenAI API Response", "status", resp.Status, "usage_total", result.Usage.TotalTokens, "response_id", result.ID)
	return &result, nil
}

func outputText(result *ResponseData) (string, error) {
	if result.Status == "incomplete" {
		reason := "unknown"
		if result.IncompleteDetails != nil && result.IncompleteDetails.Reason != "" {
			reason = result.IncompleteDetails.Reason
		}
		return "", fmt.Errorf("openai response incomplete: %s", reason)
	}
	var text strings.Builder
	for _, item := range result.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			switch content.Type {
			case "output_text":
				text.WriteString(content.Text)
			case "refusal":
				return "", fmt.Errorf("openai refused the request")
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no output text in openai response")
	}
	return text.String(), nil
}

func parseErrorDetails(body []byte) *errorDetails {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Error
}

// classifyOpenAIError reports the service's own message when it sent one.
func classifyOpenAIError(statusCode int, status string, details *errorDetails) error {
	if details == nil {
		details = &errorDetails{}
	}
	cause := fmt.Errorf("openai status=%s type=%s code=%s", status, details.Type, details.codeString())

	if msg := strings.TrimSpace(details.Message); msg != "" {
		return apperrors.Remote(msg, cause)
	}
	if statusCode >= 500 {
		return apperrors.Remote(fmt.Sprintf("OpenAI server error (%d): please try again later.", statusCode), cause)
	}
	return apperrors.Remote(fmt.Sprintf("OpenAI API error (%d): %s", statusCode, status), cause)
}
