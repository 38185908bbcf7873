package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/kozh/internal/llm"
)

func TestConfigureModel(t *testing.T) {
	t.Run("PlainText", func(t *testing.T) {
		model := &genai.GenerativeModel{}
		configureModel(model, llm.Request{Prompt: "hi"})
		if model.ResponseMIMEType != "" || model.ResponseSchema != nil {
			t.Fatalf("plain request should leave the model untouched")
		}
	})

	t.Run("StructuredWithSchema", func(t *testing.T) {
		model := &genai.GenerativeModel{}
		schema := llm.StringObject(llm.Field{Name: "precise"}, llm.Field{Name: "creative", Description: "styled"})
		configureModel(model, llm.Request{Structured: true, Schema: schema})
		if model.ResponseMIMEType != "application/json" {
			t.Fatalf("expected JSON mime type, got %q", model.ResponseMIMEType)
		}
		got := model.ResponseSchema
		if got == nil || got.Type != genai.TypeObject {
			t.Fatalf("expected object schema, got %+v", got)
		}
		if len(got.Required) != 2 || got.Required[0] != "precise" {
			t.Fatalf("unexpected required list: %v", got.Required)
		}
		creative := got.Properties["creative"]
		if creative == nil || creative.Type != genai.TypeString || creative.Description != "styled" {
			t.Fatalf("unexpected property: %+v", creative)
		}
	})
}

func textCandidate(parts ...genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Parts: parts}}
}

func TestExtractResponseText(t *testing.T) {
	cases := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr string
	}{
		{name: "nil response", wantErr: "no response received from Gemini"},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: "no candidates returned from Gemini"},
		{
			name:    "no parts",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{textCandidate()}},
			wantErr: "no text parts found in Gemini response",
		},
		{
			name:    "blob only",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{textCandidate(genai.Blob{MIMEType: "audio/L16", Data: []byte{0x01}})}},
			wantErr: "no text parts found in Gemini response",
		},
		{
			name: "skips empty candidate",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: nil},
				textCandidate(genai.Text(`{"corrected":"안녕하세요"}`)),
			}},
			want: `{"corrected":"안녕하세요"}`,
		},
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				textCandidate(genai.Text(`{"precise":`), genai.Text(`"你好"}`)),
			}},
			want: `{"precise":"你好"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractResponseText(tc.resp)
			if tc.wantErr != "" {
				if err == nil || err.Error() != tc.wantErr {
					t.Fatalf("error = %v, want %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("text = %q, want %q", got, tc.want)
			}
		})
	}
}
