// Package binary finds and verifies the dbcli companion executable.
package binary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Name is the executable name without platform suffix.
const Name = "dbcli"

// ErrNotFound is returned when no dbcli executable can be located.
var ErrNotFound = errors.New("dbcli executable not found")

// verifyTimeout bounds a single `dbcli --version` run.
const verifyTimeout = 10 * time.Second

// DistDirs returns the release directory names to search, in priority
// order, for the given platform. Windows only considers its own
// architecture; other systems fall back to every published layout.
func DistDirs(goos, goarch string) []string {
	switch goos {
	case "windows":
		if strings.HasPrefix(goarch, "arm") {
			return []string{"dist-win-arm64"}
		}
		return []string{"dist-win-x64"}
	case "darwin":
		return []string{
			"dist-macos-x64", "dist-macos-arm64",
			"dist-linux-x64", "dist-linux-arm64",
			"dist-win-x64", "dist-win-arm64",
		}
	default:
		return []string{
			"dist-linux-x64", "dist-linux-arm64",
			"dist-macos-x64", "dist-macos-arm64",
			"dist-win-x64", "dist-win-arm64",
		}
	}
}

// ExeNames returns the file names the executable may have on goos,
// native name first.
func ExeNames(goos string) []string {
	if goos == "windows" {
		return []string{Name + ".exe", Name}
	}
	return []string{Name, Name + ".exe"}
}

// buildOutputs are relative paths of local build products.
var buildOutputs = []string{
	filepath.Join("bin", "Release", "net10.0", "win-x64", Name+".exe"),
	filepath.Join("bin", "Debug", "net10.0", "win-x64", Name+".exe"),
}

// Locator searches for the executable below a base directory.
type Locator struct {
	// Dir is the directory searched (normally the checkout or the
	// directory holding this tool).
	Dir string

	// GOOS and GOARCH select the search order. Empty means the running
	// platform.
	GOOS   string
	GOARCH string

	// LookPath is the PATH fallback. Nil disables it.
	LookPath func(string) (string, error)
}

// NewLocator returns a Locator for dir on the running platform with the
// PATH fallback enabled.
func NewLocator(dir string) *Locator {
	return &Locator{Dir: dir, GOOS: runtime.GOOS, GOARCH: runtime.GOARCH, LookPath: exec.LookPath}
}

// Locate returns the first executable found, checking dist-<os>-<arch>
// directories, then Dir itself, then build outputs, then PATH.
//
// Returns:
//   - string: Absolute path of the executable
//   - error: ErrNotFound when every location misses
func (l *Locator) Locate() (string, error) {
	goos, goarch := l.GOOS, l.GOARCH
	if goos == "" {
		goos, goarch = runtime.GOOS, runtime.GOARCH
	}
	names := ExeNames(goos)

	var candidates []string
	for _, dist := range DistDirs(goos, goarch) {
		for _, name := range names {
			candidates = append(candidates, filepath.Join(l.Dir, dist, name))
		}
	}
	for _, name := range names {
		candidates = append(candidates, filepath.Join(l.Dir, name))
	}
	for _, rel := range buildOutputs {
		candidates = append(candidates, filepath.Join(l.Dir, rel))
	}

	for _, path := range candidates {
		if isFile(path) {
			log.Debug("dbcli executable found", "path", path)
			return filepath.Abs(path)
		}
	}

	if l.LookPath != nil {
		for _, name := range names {
			if path, err := l.LookPath(name); err == nil {
				log.Debug("dbcli executable found on PATH", "path", path)
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s or PATH", ErrNotFound, l.Dir)
}

// Verify runs `<exe> --version` and returns the trimmed output.
//
// Parameters:
//   - ctx: Cancels the version check
//   - exe: Executable name or path; bare names are resolved on PATH
//
// Returns:
//   - string: Reported version
//   - error: ErrNotFound when exe cannot be resolved, or the exit failure
func Verify(ctx context.Context, exe string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exe, "--version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, exe)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s --version: %w: %s", exe, err, msg)
		}
		return "", fmt.Errorf("%s --version: %w", exe, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
