// Package fileutil provides the durable writes evmscan relies on: atomic
// replacement for configuration and fsynced appends for result logs.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyPath indicates an empty file path was provided.
var ErrEmptyPath = errors.New("path is empty")

// WriteAtomic replaces path with data. Readers see either the old content or
// the new one, never a partial file. perm applies to the new file.
func WriteAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	// The temp file is removed on every failure path; after a successful
	// rename the Remove is a no-op.
	defer func() {
		if err != nil {
			_ = tmp.Close()
		}
		_ = os.Remove(tmpPath)
	}()

	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err = syncClose(tmp); err != nil {
		return err
	}
	if err = os.Rename(tmpPath, path); err != nil { //nolint:gosec // G703: caller builds path
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	syncDir(dir)
	return nil
}

// syncClose flushes f to stable storage and closes it.
func syncClose(f *os.File) error {
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", f.Name(), err)
	}
	return nil
}

// syncDir makes a rename or file creation in dir durable. Errors are
// ignored; some platforms cannot fsync a directory.
func syncDir(dir string) {
	d, err := os.Open(dir) //nolint:gosec // G304: dir of a caller-built path
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
