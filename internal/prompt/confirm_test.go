package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirmNonInteractive(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmClearHistory(3, false)
	if !errors.Is(err, ErrNotInteractive) || ok {
		t.Fatalf("expected ErrNotInteractive, got ok=%v err=%v", ok, err)
	}
}

func TestConfirmForce(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("n\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmClearHistory(3, true)
	if err != nil || !ok {
		t.Fatalf("forced confirm must succeed, got ok=%v err=%v", ok, err)
	}
}

func TestConfirmInteractive(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		c := Confirmer{
			In:            bytes.NewBufferString(tt.answer),
			Out:           &out,
			IsInteractive: func() bool { return true },
		}
		ok, err := c.ConfirmOverwrite("history.json", false)
		if err != nil {
			t.Fatalf("answer %q: unexpected error: %v", tt.answer, err)
		}
		if ok != tt.want {
			t.Fatalf("answer %q: got %v, want %v", tt.answer, ok, tt.want)
		}
		if !strings.Contains(out.String(), "history.json already exists") {
			t.Fatalf("question not printed: %q", out.String())
		}
	}
}

func TestConfirmClearHistoryQuestion(t *testing.T) {
	var out bytes.Buffer
	c := Confirmer{In: bytes.NewBufferString("y\n"), Out: &out, IsInteractive: func() bool { return true }}
	if ok, _ := c.ConfirmClearHistory(4, false); !ok {
		t.Fatalf("expected yes")
	}
	if !strings.Contains(out.String(), "Delete 4 saved corrections? [y/N]") {
		t.Fatalf("unexpected question %q", out.String())
	}

	out.Reset()
	c.In = bytes.NewBufferString("y\n")
	if _, err := c.ConfirmClearHistory(1, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Delete 1 saved correction?") {
		t.Fatalf("unexpected singular question %q", out.String())
	}
}
