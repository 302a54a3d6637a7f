// Package rules extracts the DbCli rule fragment from INTEGRATION.md and
// appends it, once, to the instruction files read by AI assistants
// (CLAUDE.md, AGENTS.md, .cursorrules, ...).
//
// A host file that already contains the start marker is never touched
// again, even when the fragment text has changed since. Anything a user
// appended after the block survives every later deployment.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// StartMarker opens the fragment region. Its presence anywhere in a
	// host file blocks re-injection.
	StartMarker = "DBCLI_RULES_START"

	// EndMarker closes the fragment region.
	EndMarker = "DBCLI_RULES_END"

	dirPermissions  fs.FileMode = 0o755
	filePermissions fs.FileMode = 0o644
)

var fragmentPattern = regexp.MustCompile(`<!-- ` + StartMarker + ` -->\s*([\s\S]*?)\s*<!-- ` + EndMarker + ` -->`)

// DefaultHostFiles are the instruction files, relative to the working
// directory, that receive the fragment on every deployment.
var DefaultHostFiles = []string{
	"CLAUDE.md",
	"Claude.md",
	"AGENTS.md",
	"Agents.md",
	".cursorrules",
	filepath.Join(".vscode", "context.md"),
	filepath.Join(".gemini", "skills.yaml"),
	filepath.Join(".gemini", "skills.yml"),
}

// CopilotHostFile is added to the host list only by the Copilot target.
var CopilotHostFile = filepath.Join(".github", "copilot-instructions.md")

// HostFiles returns base (or DefaultHostFiles when base is empty) plus
// the Copilot instructions file when includeCopilot is set.
func HostFiles(base []string, includeCopilot bool) []string {
	if len(base) == 0 {
		base = DefaultHostFiles
	}
	files := make([]string, 0, len(base)+1)
	files = append(files, base...)
	if includeCopilot {
		files = append(files, CopilotHostFile)
	}
	return files
}

// Outcome is what happened to one host file.
type Outcome int

const (
	// OutcomeWritten means the fragment block was appended.
	OutcomeWritten Outcome = iota
	// OutcomeSkipped means the file already carried the start marker.
	OutcomeSkipped
	// OutcomeFailed means reading or writing the file failed.
	OutcomeFailed
)

// String returns a human-readable label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ExtractFragment returns the trimmed text between the HTML comment
// markers, or "" when the document has no fragment region.
func ExtractFragment(doc string) string {
	m := fragmentPattern.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Block renders the fragment wrapped in markers in the comment syntax
// of the host file: "#" line comments for YAML, HTML comments otherwise.
func Block(hostPath, fragment string) string {
	switch strings.ToLower(filepath.Ext(hostPath)) {
	case ".yml", ".yaml":
		lines := strings.Split(strings.ReplaceAll(fragment, "\r\n", "\n"), "\n")
		for i, line := range lines {
			lines[i] = "# " + line
		}
		return "\n\n# " + StartMarker + "\n" + strings.Join(lines, "\n") + "\n# " + EndMarker + "\n"
	default:
		return "\n\n<!-- " + StartMarker + " -->\n" + fragment + "\n<!-- " + EndMarker + " -->\n"
	}
}

// InjectFragment appends the fragment block to hostPath unless the file
// already contains StartMarker. A missing file (and its parent
// directories) is created.
//
// Parameters:
//   - hostPath: Instruction file to update
//   - fragment: Rule text, as returned by ExtractFragment
//
// Returns:
//   - Outcome: OutcomeWritten or OutcomeSkipped on success, OutcomeFailed otherwise
//   - error: Any read/write error
func InjectFragment(hostPath, fragment string) (Outcome, error) {
	if fragment == "" {
		return OutcomeSkipped, nil
	}

	existing, err := os.ReadFile(hostPath)
	switch {
	case err == nil:
		if strings.Contains(string(existing), StartMarker) {
			return OutcomeSkipped, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return OutcomeFailed, fmt.Errorf("reading %s: %w", hostPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(hostPath), dirPermissions); err != nil {
		return OutcomeFailed, fmt.Errorf("creating directory for %s: %w", hostPath, err)
	}

	f, err := os.OpenFile(hostPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePermissions)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("opening %s: %w", hostPath, err)
	}
	if _, err := f.WriteString(Block(hostPath, fragment)); err != nil {
		f.Close()
		return OutcomeFailed, fmt.Errorf("writing %s: %w", hostPath, err)
	}
	if err := f.Close(); err != nil {
		return OutcomeFailed, fmt.Errorf("closing %s: %w", hostPath, err)
	}
	return OutcomeWritten, nil
}

// FileResult is the outcome for a single host file.
type FileResult struct {
	// Path is the host file path (dir joined with the configured entry).
	Path string
	// Outcome is what happened.
	Outcome Outcome
	// Err is non-nil when Outcome is OutcomeFailed.
	Err error
}

// Report summarizes an InjectAll run.
type Report struct {
	// Missing is set when the source had no fragment and nothing was attempted.
	Missing bool

	Results []FileResult
	Written int
	Skipped int
	Failed  int
}

// Err joins the errors of every failed host file, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// InjectAll injects fragment into every host file under dir. Each file is
// handled independently: a failure is recorded and logged, and the
// remaining files are still processed.
func InjectAll(dir string, files []string, fragment string) *Report {
	report := &Report{}
	if fragment == "" {
		report.Missing = true
		return report
	}

	for _, rel := range files {
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, rel)
		}

		outcome, err := InjectFragment(path, fragment)
		report.Results = append(report.Results, FileResult{Path: path, Outcome: outcome, Err: err})

		switch outcome {
		case OutcomeWritten:
			report.Written++
			log.Debug("rules appended", "file", path)
		case OutcomeSkipped:
			report.Skipped++
			log.Debug("rules already present", "file", path)
		default:
			report.Failed++
			log.Error("rules append failed", "file", path, "err", err)
		}
	}

	return report
}

// HasMarker reports whether hostPath exists and already carries the
// start marker. A missing file reports false without error.
func HasMarker(hostPath string) (bool, error) {
	data, err := os.ReadFile(hostPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.Contains(string(data), StartMarker), nil
}
