package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AppendFile appends data to path, creating it with perm if missing.
// The write is a single call on an O_APPEND descriptor followed by fsync,
// so concurrent appenders never interleave within one record.
func AppendFile(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}

	_, statErr := os.Stat(path)
	created := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, perm) //nolint:gosec // G304: path is built by caller
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := syncClose(f); err != nil {
		return err
	}

	if created {
		syncDir(filepath.Dir(path))
	}
	return nil
}
