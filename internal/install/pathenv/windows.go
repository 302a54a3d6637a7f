package pathenv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// UserScope is the label reported in Result.Updated for the Windows user
// environment.
const UserScope = "User PATH"

// Windows edits the user-scoped PATH via PowerShell.
type Windows struct {
	// FixUserPath normalizes the existing user PATH (dedupe, trailing ';')
	// before adding the entry.
	FixUserPath bool

	// Run executes a PowerShell command and returns its stdout. Nil uses
	// powershell.exe.
	Run func(ctx context.Context, command string) (string, error)
}

// PSEscape escapes value for a single-quoted PowerShell string.
func PSEscape(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

func (w *Windows) run(ctx context.Context, command string) (string, error) {
	if w.Run != nil {
		return w.Run(ctx, command)
	}
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("powershell: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func (w *Windows) set(ctx context.Context, value string) error {
	_, err := w.run(ctx, fmt.Sprintf("[Environment]::SetEnvironmentVariable('PATH', '%s', 'User')", PSEscape(value)))
	return err
}

// Ensure appends dir to the user PATH unless an entry already matches.
func (w *Windows) Ensure(ctx context.Context, dir string) (*Result, error) {
	out, err := w.run(ctx, `[Environment]::GetEnvironmentVariable("PATH", "User")`)
	if err != nil {
		return nil, fmt.Errorf("reading user PATH: %w", err)
	}
	current := strings.TrimSpace(out)
	parts := Split(current, ";")
	res := &Result{}

	if w.FixUserPath {
		fixed := strings.Join(parts, ";")
		if fixed != "" {
			fixed += ";"
		}
		if fixed != current {
			if err := w.set(ctx, fixed); err != nil {
				return nil, fmt.Errorf("normalizing user PATH: %w", err)
			}
			res.Normalized = true
		}
	}

	for _, part := range parts {
		if strings.EqualFold(part, dir) {
			res.AlreadyPresent = true
			return res, nil
		}
	}

	value := strings.Join(append(parts, dir), ";")
	if w.FixUserPath {
		value += ";"
	}
	if err := w.set(ctx, value); err != nil {
		return nil, fmt.Errorf("updating user PATH: %w", err)
	}
	res.Updated = append(res.Updated, UserScope)
	return res, nil
}
