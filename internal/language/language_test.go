package language

import "testing"

func TestDirectionLanguages(t *testing.T) {
	tests := []struct {
		dir    Direction
		source string
		target string
	}{
		{KoToZh, "Korean", "Chinese (Simplified)"},
		{ZhToKo, "Chinese (Simplified)", "Korean"},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			if got := tt.dir.Source().Name; got != tt.source {
				t.Errorf("source: expected %q, got %q", tt.source, got)
			}
			if got := tt.dir.Target().Name; got != tt.target {
				t.Errorf("target: expected %q, got %q", tt.target, got)
			}
		})
	}
}

func TestDirectionSwap(t *testing.T) {
	if KoToZh.Swap() != ZhToKo || ZhToKo.Swap() != KoToZh {
		t.Fatalf("swap should toggle between the two directions")
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"kr2cn": KoToZh, " CN2KR ": ZhToKo, "zh2ko": ZhToKo, "ko-zh": KoToZh} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("en2fr"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
	if Direction("x").Valid() {
		t.Fatalf("unexpected valid direction")
	}
}

func TestGetLanguage(t *testing.T) {
	lang, ok := GetLanguage("zh")
	if !ok || lang.SpeechTag != "zh-CN" {
		t.Fatalf("expected simplified Chinese, got %+v", lang)
	}
	if _, ok := GetLanguage("fr"); ok {
		t.Fatalf("french is not supported")
	}
}
