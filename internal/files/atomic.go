// Package files holds the write helpers every on-disk artifact of kozh
// goes through: the JSON store, its corrupt-file backups, log files and
// history exports.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oukeidos/kozh/internal/logger"
)

// writeSynced writes data to an already-open temp file, flushes it and
// closes it. The file is removed on any failure.
func writeSynced(f *os.File, data []byte) error {
	name := f.Name()
	_, err := f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
	}
	return err
}

// publish moves a finished temp file into place and flushes the directory.
func publish(tmp, dest string) error {
	if err := replaceFile(tmp, dest); err != nil {
		os.Remove(tmp)
		return err
	}
	dir := filepath.Dir(dest)
	if err := syncDir(dir); err != nil {
		logger.Warn("Directory fsync failed", "path", dir, "error", err)
	}
	return nil
}

// AtomicWrite replaces path with data. Readers see either the old file or
// the new one, never a partial write.
func AtomicWrite(path string, data []byte, perms os.FileMode) error {
	if err := RejectSymlinkPath(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "kozh-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := tmp.Chmod(perms); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if err := writeSynced(tmp, data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := publish(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move temp file into place: %w", err)
	}
	return nil
}

// AtomicWriteExclusive writes data without replacing anything: when path
// is taken it tries name_1 through name_9 and reports the name it used.
func AtomicWriteExclusive(path string, data []byte, perms os.FileMode) (string, error) {
	if err := RejectSymlinkPath(path); err != nil {
		return "", err
	}
	for n := 0; n <= maxNumbered; n++ {
		candidate := numbered(path, n)
		if taken, err := exists(candidate); err != nil {
			return "", err
		} else if taken {
			continue
		}
		tmp, err := os.OpenFile(candidate+".tmp", os.O_WRONLY|os.O_CREATE|os.O_EXCL, perms)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := writeSynced(tmp, data); err != nil {
			return "", err
		}
		if err := publish(tmp.Name(), candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", fmt.Errorf("no free name for %s: %w", path, os.ErrExist)
}
