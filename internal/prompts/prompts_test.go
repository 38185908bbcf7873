package prompts

import (
	"strings"
	"testing"
	"testing/fstest"
)

func mustDefault(t *testing.T) *Prompts {
	t.Helper()
	p, err := Default()
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	return p
}

func TestCorrectionPrompt(t *testing.T) {
	p := mustDefault(t)

	t.Run("PoliteWithInstruction", func(t *testing.T) {
		out, err := p.Correction("나 프리랜서다", "비즈니스 문체", "polite")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			`Input Text: "나 프리랜서다"`,
			`"비즈니스 문체"`,
			"TONE REQUIREMENT: Formal/Polite (존댓말",
			`"corrected":`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("prompt missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("CasualWithoutInstruction", func(t *testing.T) {
		out, err := p.Correction("밥 먹었어", "  ", "casual")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `"No specific preference provided."`) {
			t.Errorf("expected default preference, got:\n%s", out)
		}
		if !strings.Contains(out, "Casual/Friendly (반말") {
			t.Errorf("expected casual directive, got:\n%s", out)
		}
	})

	t.Run("UnknownTone", func(t *testing.T) {
		if _, err := p.Correction("x", "", "rude"); err == nil {
			t.Fatalf("expected error for unknown tone")
		}
	})
}

func TestResultTranslationPrompt(t *testing.T) {
	out, err := mustDefault(t).ResultTranslation("저는 프리랜서입니다.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Simplified Chinese (Zh-CN)") || !strings.Contains(out, `Input Text: "저는 프리랜서입니다."`) {
		t.Fatalf("unexpected prompt:\n%s", out)
	}
	if !strings.Contains(out, "Xiaohongshu") {
		t.Fatalf("creative style missing:\n%s", out)
	}
}

func TestQuickTranslationPrompt(t *testing.T) {
	p := mustDefault(t)
	out, err := p.QuickTranslation("你好", "Chinese (Simplified)", "Korean", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"from Chinese (Simplified) to Korean",
		`USER INSTRUCTION: "None"`,
		`Text: "你好"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q:\n%s", want, out)
		}
	}
}

func TestLoadCustomTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"t/correction.yml": {Data: []byte("tone_polite: P\ntemplate: \"{tone}|{instruction}|{input}\"\n")},
	}
	p, err := Load(fsys, "t")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out, err := p.Correction("in", "", "polite")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "P|No specific preference provided.|in" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := p.ResultTranslation("x"); err == nil {
		t.Fatalf("expected missing template error")
	}
}

func TestSchemas(t *testing.T) {
	if got := CorrectionSchema().Required; len(got) != 2 || got[0] != "corrected" || got[1] != "explanation" {
		t.Fatalf("unexpected correction schema: %v", got)
	}
	if got := TranslationSchema().Required; len(got) != 2 || got[0] != "precise" || got[1] != "creative" {
		t.Fatalf("unexpected translation schema: %v", got)
	}
}
