package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/oukeidos/kozh/internal/apperrors"
	"github.com/oukeidos/kozh/internal/session"
	"github.com/oukeidos/kozh/internal/store"
)

const (
	correctionReply  = `{"corrected":"저는 프리랜서입니다.","explanation":"조사를 고쳤습니다."}`
	translationReply = `{"precise":"我是自由职业者。","creative":"自由职业者日常✨ #打工人"}`
)

func TestCorrectCommand(t *testing.T) {
	env := withTestEnv(t, correctionReply, translationReply)
	env.setKey(t)

	out, err := executeCommand(t, "correct", "--translate", "--speak", "저", "프리랜서다")
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	for _, want := range []string{"Corrected: 저는 프리랜서입니다.", "Explanation: 조사를 고쳤습니다.", "Precise:  我是自由职业者。"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if got := env.speech.Utterances(); len(got) != 1 || got[0].Text != "저는 프리랜서입니다." {
		t.Fatalf("unexpected utterances: %+v", got)
	}
	if !strings.Contains(env.model.Requests()[0].Prompt, `"저 프리랜서다"`) {
		t.Fatalf("arguments should be joined into the input")
	}
}

func TestCorrectCommandDemoWithoutKey(t *testing.T) {
	withTestEnv(t)
	out, err := executeCommand(t, "correct", "--tone", "casual", "나 프리랜서다")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, "나는 프리랜서야.") {
		t.Fatalf("expected casual demo answer:\n%s", out)
	}
}

func TestCorrectCommandMissingKey(t *testing.T) {
	env := withTestEnv(t)
	_, err := executeCommand(t, "correct", "안녕하세요 반갑습니다")
	if err == nil || err.Error() != apperrors.PublicMessage(apperrors.MissingCredential()) {
		t.Fatalf("expected missing credential message, got %v", err)
	}
	if env.model.Calls() != 0 {
		t.Fatalf("model must not be called")
	}
}

func TestCorrectCommandReadsStdin(t *testing.T) {
	env := withTestEnv(t, correctionReply)
	env.setKey(t)
	cmd := newRootCmd()
	var buf strings.Builder
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader("표준 입력 문장\n"))
	cmd.SetArgs([]string{"correct", "--instruction", "짧게"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("correct: %v", err)
	}
	p := env.model.Requests()[0].Prompt
	if !strings.Contains(p, `"표준 입력 문장"`) || !strings.Contains(p, `"짧게"`) {
		t.Fatalf("unexpected prompt:\n%s", p)
	}
}

func TestCorrectCommandRemoteError(t *testing.T) {
	env := withTestEnv(t)
	env.setKey(t)
	env.model.Err = apperrors.Remote("quota exceeded", nil)
	_, err := executeCommand(t, "correct", "문장")
	if err == nil || err.Error() != "quota exceeded" {
		t.Fatalf("expected service message, got %v", err)
	}
	if _, ok, _ := env.store.Get(context.Background(), store.KeyHistory); ok {
		t.Fatalf("history must not be written on failure")
	}
}

func TestTranslateCommand(t *testing.T) {
	env := withTestEnv(t, `{"precise":"안녕하세요","creative":"안뇽 👋"}`)
	env.setKey(t)
	out, err := executeCommand(t, "translate", "-d", "cn2kr", "你好")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !strings.Contains(out, "Chinese (Simplified) → Korean") || !strings.Contains(out, "Precise:  안녕하세요") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := executeCommand(t, "translate", "--swap", "你好"); err != nil {
		t.Fatalf("translate swap: %v", err)
	}
	if p := env.model.Requests()[1].Prompt; !strings.Contains(p, "from Chinese (Simplified) to Korean") {
		t.Fatalf("--swap should reverse kr2cn:\n%s", p)
	}
}

func TestTranslateCommandNoKey(t *testing.T) {
	withTestEnv(t)
	if _, err := executeCommand(t, "translate", "안녕"); err == nil {
		t.Fatalf("expected missing credential")
	}
	if _, err := executeCommand(t, "translate", "-d", "up", "안녕"); err == nil {
		t.Fatalf("expected direction error")
	}
}

func seedHistory(t *testing.T, env *testEnv, records ...session.CorrectionRecord) {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := env.store.Set(context.Background(), store.KeyHistory, string(data)); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestHistoryListAndShow(t *testing.T) {
	env := withTestEnv(t, translationReply)
	env.setKey(t)
	seedHistory(t, env,
		session.CorrectionRecord{Original: "둘째", Corrected: "둘째입니다", Explanation: "b"},
		session.CorrectionRecord{Original: "첫째", Corrected: "첫째입니다", Explanation: "a"},
	)

	out, err := executeCommand(t, "history")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, " 1. 둘째 → 둘째입니다") || !strings.Contains(out, " 2. 첫째 → 첫째입니다") {
		t.Fatalf("unexpected list:\n%s", out)
	}

	out, err = executeCommand(t, "history", "show", "2", "--translate", "--speak")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Corrected: 첫째입니다") || !strings.Contains(out, "Creative: 自由职业者日常") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
	if p := env.model.Requests()[0].Prompt; !strings.Contains(p, `"첫째입니다"`) {
		t.Fatalf("translation should use the shown record:\n%s", p)
	}
	if got := env.speech.Utterances(); len(got) != 1 || got[0].Text != "첫째입니다" {
		t.Fatalf("unexpected utterances %+v", got)
	}

	if _, err := executeCommand(t, "history", "show", "3"); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestHistoryEmpty(t *testing.T) {
	withTestEnv(t)
	out, err := executeCommand(t, "history", "list")
	if err != nil || !strings.Contains(out, "No saved corrections.") {
		t.Fatalf("unexpected output %q err=%v", out, err)
	}
}

func TestHistoryClear(t *testing.T) {
	env := withTestEnv(t)
	seedHistory(t, env, session.CorrectionRecord{Original: "a", Corrected: "b", Explanation: "c"})

	if _, err := executeCommand(t, "history", "clear"); err == nil {
		t.Fatalf("non-interactive clear without --yes must fail")
	}
	env.answer = "n\n"
	out, err := executeCommand(t, "history", "clear")
	if err != nil || !strings.Contains(out, "Canceled.") {
		t.Fatalf("expected cancel, got %q err=%v", out, err)
	}
	if _, ok, _ := env.store.Get(context.Background(), store.KeyHistory); !ok {
		t.Fatalf("declined clear must keep history")
	}

	out, err = executeCommand(t, "history", "clear", "--yes")
	if err != nil || !strings.Contains(out, "Deleted 1 saved correction(s).") {
		t.Fatalf("unexpected output %q err=%v", out, err)
	}
	if _, ok, _ := env.store.Get(context.Background(), store.KeyHistory); ok {
		t.Fatalf("history key must be removed")
	}
}

func TestHistoryExport(t *testing.T) {
	env := withTestEnv(t)
	seedHistory(t, env, session.CorrectionRecord{Original: "a", Corrected: "b", Explanation: "c"})
	path := filepath.Join(t.TempDir(), "history.json")

	if _, err := executeCommand(t, "history", "export", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []session.CorrectionRecord
	if err := json.Unmarshal(data, &got); err != nil || len(got) != 1 || got[0].Corrected != "b" {
		t.Fatalf("unexpected export %s (err=%v)", data, err)
	}

	env.answer = "n\n"
	out, err := executeCommand(t, "history", "export", path)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if !strings.Contains(out, "history_1.json") {
		t.Fatalf("declined overwrite should pick a free name:\n%s", out)
	}
}

func TestInstructionCommands(t *testing.T) {
	env := withTestEnv(t)

	out, err := executeCommand(t, "instruction")
	if err != nil || !strings.Contains(out, "No correction instruction saved.") {
		t.Fatalf("unexpected output %q err=%v", out, err)
	}
	if _, err := executeCommand(t, "instruction", "set", "짧고 정중하게"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _, _ := env.store.Get(context.Background(), store.KeyCorrectionInstruction); v != "짧고 정중하게" {
		t.Fatalf("instruction not saved: %q", v)
	}
	if _, err := executeCommand(t, "instruction", "preset", "--kind", "translation", "precise"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	if v, _, _ := env.store.Get(context.Background(), store.KeyTranslationInstruction); v == "" {
		t.Fatalf("translation preset not saved")
	}
	if _, err := executeCommand(t, "instruction", "preset", "nope"); err == nil {
		t.Fatalf("expected unknown preset error")
	}
	out, err = executeCommand(t, "instruction", "presets")
	if err != nil || !strings.Contains(out, "recommend") || !strings.Contains(out, "business") || !strings.Contains(out, "sns") {
		t.Fatalf("unexpected presets output %q err=%v", out, err)
	}
	if _, err := executeCommand(t, "instruction", "--kind", "poetry"); err == nil {
		t.Fatalf("expected kind error")
	}
}

func TestSpeakCommand(t *testing.T) {
	env := withTestEnv(t)
	if _, err := executeCommand(t, "speak"); err == nil {
		t.Fatalf("expected error with empty history")
	}
	seedHistory(t, env, session.CorrectionRecord{Original: "a", Corrected: "최근 문장 😀", Explanation: "c"})
	if _, err := executeCommand(t, "speak"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if _, err := executeCommand(t, "speak", "직접", "입력"); err != nil {
		t.Fatalf("speak args: %v", err)
	}
	got := env.speech.Utterances()
	if len(got) != 2 || got[0].Text != "최근 문장" || got[1].Text != "직접 입력" {
		t.Fatalf("unexpected utterances %+v", got)
	}
}
