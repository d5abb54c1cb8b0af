// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsutil provides filesystem helpers shared by the conversion
// stages: retrying removal, workspace cleanup and atomic output writes.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"
)

// RetryBaseDelay controls the base duration for backoff when a removal is
// refused with a permission error (typically a file still held open by a
// scanner or indexer). Tests override this to avoid real sleeps.
var RetryBaseDelay = 100 * time.Millisecond

const defaultMaxRetries = 1

// remove is the removal primitive. Tests replace it to inject failures.
var remove = os.Remove

// RemoveWithRetry removes path, retrying on permission errors with
// exponential backoff starting at RetryBaseDelay. When maxRetries is 0 the
// default (1) is used. A path that no longer exists is not an error.
func RemoveWithRetry(path string, maxRetries int) error {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		err := remove(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if !errors.Is(err, fs.ErrPermission) || attempt >= maxRetries {
			return err
		}
		time.Sleep(time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay)
	}
}

// CleanDir removes every entry inside dir and then dir itself. It keeps
// going after a failed removal and returns one error per path it could not
// remove; a nil slice means the directory is gone.
func CleanDir(dir string) []error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return []error{fmt.Errorf("listing %s: %w", dir, err)}
	}

	var errs []error
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.IsDir() {
			errs = append(errs, CleanDir(p)...)
			continue
		}
		if err := RemoveWithRetry(p, 0); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", p, err))
		}
	}
	if err := RemoveWithRetry(dir, 0); err != nil {
		errs = append(errs, fmt.Errorf("removing %s: %w", dir, err))
	}
	return errs
}

// WriteAtomic produces path by calling write with a temporary path in the
// same directory and renaming it into place on success. On any failure the
// temporary file is removed and path is left untouched.
func WriteAtomic(path string, write func(tmpPath string) error) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}

// CopyFile copies src to dst, truncating dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
