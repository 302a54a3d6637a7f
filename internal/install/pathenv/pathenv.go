// Package pathenv adds a directory to the user's persistent PATH.
//
// On Unix the directory is exported from ~/.profile (and ~/.zshrc for zsh
// users). On Windows the user-scoped PATH environment variable is edited
// through PowerShell.
package pathenv

import (
	"context"
	"runtime"
	"strings"
)

// Result describes what Ensure changed.
type Result struct {
	// AlreadyPresent is set when dir was already on PATH and nothing
	// was written.
	AlreadyPresent bool

	// Updated lists the files or scopes that were modified.
	Updated []string

	// Normalized is set when duplicate user PATH entries were removed
	// (Windows only).
	Normalized bool
}

// Editor persists a PATH entry.
type Editor interface {
	Ensure(ctx context.Context, dir string) (*Result, error)
}

// ForPlatform returns the Editor for goos using the process environment.
func ForPlatform(goos, home string, fixUserPath bool) Editor {
	if goos == "windows" {
		return &Windows{FixUserPath: fixUserPath}
	}
	return NewUnix(home)
}

// Ensure adds dir to PATH for the running platform.
func Ensure(ctx context.Context, home, dir string, fixUserPath bool) (*Result, error) {
	return ForPlatform(runtime.GOOS, home, fixUserPath).Ensure(ctx, dir)
}

// Normalize trims entries, drops empty ones and removes later duplicates,
// comparing case-insensitively. Order is preserved.
func Normalize(parts []string) []string {
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := strings.ToLower(part)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, part)
	}
	return out
}

// Split breaks a PATH value on sep and normalizes it.
func Split(value string, sep string) []string {
	if value == "" {
		return nil
	}
	return Normalize(strings.Split(value, sep))
}
