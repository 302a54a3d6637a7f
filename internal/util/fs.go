package util

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DirPermissions is the mode used for every directory the CLI creates.
const DirPermissions fs.FileMode = 0o755

// CopyFile copies src to dst, overwriting dst and keeping src's mode.
// Parent directories of dst are created.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), DirPermissions); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// O_CREATE only applies the mode to new files.
	return os.Chmod(dst, info.Mode().Perm())
}

// CopyTree copies the directory src to dst, merging into dst when it
// exists. Symlinks to files are followed; symlinks to directories and
// special files are skipped.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, DirPermissions)
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				log.Debug("skipping symlink", "path", path)
				return nil
			}
			return CopyFile(path, target)
		case d.Type().IsRegular():
			return CopyFile(path, target)
		default:
			log.Debug("skipping special file", "path", path)
			return nil
		}
	})
}

// SamePath reports whether a and b resolve to the same location,
// following symlinks when both exist.
func SamePath(a, b string) bool {
	if ra, err := filepath.EvalSymlinks(a); err == nil {
		a = ra
	}
	if rb, err := filepath.EvalSymlinks(b); err == nil {
		b = rb
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
