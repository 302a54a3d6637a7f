package pathenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Unix appends an export line to shell startup files.
type Unix struct {
	// Home is the user's home directory.
	Home string

	// Shell is the login shell ($SHELL).
	Shell string

	// Path is the current PATH value.
	Path string
}

// NewUnix returns a Unix editor reading SHELL and PATH from the
// environment.
func NewUnix(home string) *Unix {
	return &Unix{Home: home, Shell: os.Getenv("SHELL"), Path: os.Getenv("PATH")}
}

// ExportLine is the line appended for dir.
func ExportLine(dir string) string {
	return fmt.Sprintf("export PATH=\"%s:$PATH\"", dir)
}

// Ensure appends the export to ~/.profile, and to ~/.zshrc when it exists
// or the login shell is zsh. Files already mentioning dir are left alone.
func (u *Unix) Ensure(_ context.Context, dir string) (*Result, error) {
	for _, part := range strings.Split(u.Path, string(os.PathListSeparator)) {
		if part == dir {
			return &Result{AlreadyPresent: true}, nil
		}
	}

	files := []string{filepath.Join(u.Home, ".profile")}
	zshrc := filepath.Join(u.Home, ".zshrc")
	if _, err := os.Stat(zshrc); err == nil || strings.HasSuffix(u.Shell, "zsh") {
		files = append(files, zshrc)
	}

	res := &Result{}
	for _, file := range files {
		changed, err := appendExport(file, dir)
		if err != nil {
			return res, err
		}
		if changed {
			res.Updated = append(res.Updated, file)
		}
	}
	if len(res.Updated) == 0 {
		res.AlreadyPresent = true
	}
	return res, nil
}

func appendExport(rc, dir string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(rc), 0o755); err != nil {
		return false, err
	}
	if data, err := os.ReadFile(rc); err == nil && strings.Contains(string(data), dir) {
		log.Debug("PATH entry already in startup file", "file", rc)
		return false, nil
	} else if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", rc, err)
	}

	f, err := os.OpenFile(rc, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", rc, err)
	}
	if _, err := fmt.Fprintf(f, "\n# DbCli\n%s\n", ExportLine(dir)); err != nil {
		f.Close()
		return false, fmt.Errorf("writing %s: %w", rc, err)
	}
	return true, f.Close()
}
