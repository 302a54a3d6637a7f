package deploy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// removeAttempts bounds forced removal: one try plus two retries.
	removeAttempts = 3

	// removeBackoff is the pause between removal attempts.
	removeBackoff = 500 * time.Millisecond
)

// removeAll deletes path recursively, retrying transient lock and
// permission errors up to removeAttempts times. The last error is
// returned once retries are exhausted.
func removeAll(path string, remove func(string) error, sleep func(time.Duration)) error {
	for attempt := 1; ; attempt++ {
		err := remove(path)
		if err == nil {
			return nil
		}
		if attempt >= removeAttempts || !isTransient(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		log.Warn("remove failed, retrying", "path", path, "attempt", attempt, "err", err)
		sleep(removeBackoff)
	}
}

// forceRemove is os.RemoveAll that first clears read-only bits, which
// otherwise block deletion of files copied from read-only sources on
// Windows.
func forceRemove(path string) error {
	err := os.RemoveAll(path)
	if err == nil || !errors.Is(err, fs.ErrPermission) {
		return err
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if info, err := d.Info(); err == nil {
			_ = os.Chmod(p, info.Mode().Perm()|0o200)
		}
		return nil
	})
	return os.RemoveAll(path)
}

func isTransient(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EBUSY)
}

// isPopulated reports whether dir exists and has at least one entry.
func isPopulated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
