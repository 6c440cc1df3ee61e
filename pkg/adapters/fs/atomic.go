package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TempFilePrefix marks in-flight snapshot writes. The watcher never reports
// them and Initialize sweeps the ones a crashed process left behind.
const TempFilePrefix = ".codenotes-tmp-"

// FileMode is the permission of snapshot files.
const FileMode os.FileMode = 0644

// staleTempAge is how old a temp file must be before the sweep removes it.
const staleTempAge = time.Minute

func isTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), TempFilePrefix)
}

// replaceFile writes data next to name and renames it into place, so a
// reader (or the watcher) sees either the old snapshot or the new one.
func replaceFile(name string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), TempFilePrefix+filepath.Base(name)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err = os.Chmod(tmp.Name(), FileMode); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// sweepTempFiles removes temp files in dir older than staleTempAge and
// returns how many were removed.
func sweepTempFiles(dir string, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	var removed int
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !isTempFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || now.Sub(info.ModTime()) < staleTempAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
