package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWrite_ReplacesContent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "store.json")

	if err := AtomicWrite(path, []byte(`{"a":"1"}`), 0600); err != nil {
		t.Fatalf("initial write failed: %v", err)
	}
	if err := AtomicWrite(path, []byte(`{"a":"2"}`), 0600); err != nil {
		t.Fatalf("replacement write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != `{"a":"2"}` {
		t.Errorf("unexpected content: %s", content)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "kozh-") && strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("leaked temp file: %s", entry.Name())
		}
	}
}

func TestAtomicWrite_DirectoryError(t *testing.T) {
	if err := AtomicWrite(filepath.Join(t.TempDir(), "missing", "store.json"), []byte("x"), 0600); err == nil {
		t.Errorf("expected error for missing directory")
	}
}

func TestAtomicWriteExclusive_NumbersCollisions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "store.corrupt.json")

	want := []string{path, filepath.Join(tmpDir, "store.corrupt_1.json")}
	for i, expected := range want {
		got, err := AtomicWriteExclusive(path, []byte("broken"), 0600)
		if err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
		if got != expected {
			t.Fatalf("write %d landed at %q, want %q", i, got, expected)
		}
	}
}

func TestAtomicWriteExclusive_GivesUp(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "store.corrupt.json")
	for n := 0; n <= maxNumbered; n++ {
		if err := os.WriteFile(numbered(path, n), []byte("x"), 0600); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := AtomicWriteExclusive(path, []byte("broken"), 0600); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
}
