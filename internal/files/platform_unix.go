//go:build !windows

package files

import "os"

func replaceFile(from, to string) error {
	return os.Rename(from, to)
}

// Symlinks are caught by Lstat; reparse points only exist on NTFS.
func isReparsePoint(string) (bool, error) {
	return false, nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
