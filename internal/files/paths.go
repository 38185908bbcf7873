package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxNumbered bounds the name_1..name_N candidates tried before giving up
// (AtomicWriteExclusive) or falling back to a UUID suffix (SafePath).
const maxNumbered = 9

// numbered returns path with "_n" inserted before the extension.
// numbered(p, 0) is p itself.
func numbered(path string, n int) string {
	if n == 0 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), n, ext)
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// SafePath picks a name that is not taken yet, so an export never
// clobbers an earlier one. The bool reports whether path itself was taken.
func SafePath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		return "", false, errors.New("path is empty")
	}
	for n := 0; n <= maxNumbered; n++ {
		candidate := numbered(path, n)
		taken, err := exists(candidate)
		if err != nil {
			return "", false, err
		}
		if !taken {
			return candidate, n > 0, nil
		}
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + uuid.NewString()[:8] + ext, true, nil
}

// RejectSymlinkPath fails when path, or any existing directory above it,
// is a symlink or reparse point. Store files and logs hold history and
// possibly credentials, so writes must not be redirected elsewhere.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for current := abs; ; {
		info, err := os.Lstat(current)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return fmt.Errorf("failed to access path: %w", err)
		case info.Mode()&os.ModeSymlink != 0:
			return fmt.Errorf("refusing to write through symlink %s (for %s)", current, path)
		default:
			reparse, err := isReparsePoint(current)
			if err != nil {
				return fmt.Errorf("failed to check reparse point: %w", err)
			}
			if reparse {
				return fmt.Errorf("refusing to write through reparse point %s (for %s)", current, path)
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil
		}
		current = parent
	}
}
