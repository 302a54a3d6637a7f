package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dbcli/deploy-skills/internal/config"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
)

// environment is the process context every command starts from.
type environment struct {
	// cwd is the working directory.
	cwd string

	// home is the user's home directory.
	home string

	// exeDir is the directory holding this executable, with symlinks
	// resolved. Empty when it cannot be determined.
	exeDir string

	// cfg is the discovered deploy configuration (zero when absent).
	cfg *config.DeployConfig
}

// loadEnvironment gathers the working directory, home directory,
// executable location and deploy configuration.
func loadEnvironment() (*environment, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	env := &environment{cwd: cwd, home: homeDir()}

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		env.exeDir = filepath.Dir(exe)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if cfg.Path() != "" {
		log.Debug("loaded deploy config", "path", cfg.Path())
	}
	env.cfg = cfg
	return env, nil
}

// homeDir returns the user's home directory, falling back to the
// platform environment variable.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err == nil {
		return home
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}

// expandHome expands a leading ~ to home.
func expandHome(path, home string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	return filepath.Join(home, path[1:])
}

// candidates returns the skills source search order: built-in locations
// first, then directories from the config file.
func (e *environment) candidates() []string {
	out := source.DefaultCandidates(e.exeDir, e.home, e.cwd)
	for _, c := range e.cfg.Candidates {
		out = append(out, expandHome(c, e.home))
	}
	return out
}

// resolveSource resolves the skills source, printing the install hint
// when none is found.
func (e *environment) resolveSource() (*source.Source, error) {
	src, err := source.Resolve(e.candidates())
	if errors.Is(err, source.ErrNotFound) {
		printSourceHint()
	}
	return src, err
}

func printSourceHint() {
	ui.PrintError("skills/ directory not found")
	ui.PrintInfo("Install scripts with skills into tools (dbcli-deploy install) or run from the dbcli repository root")
}

// claudeDir picks the Claude directory: the flag, then the config file,
// then <repo>/.claude for the enclosing repository, then ~/.claude.
func (e *environment) claudeDir(flag string) string {
	if flag != "" {
		return expandHome(flag, e.home)
	}
	if e.cfg.ClaudeDir != "" {
		return expandHome(e.cfg.ClaudeDir, e.home)
	}
	if root, ok := source.FindRepoRoot(e.exeDir, e.cwd); ok {
		return filepath.Join(root, ".claude")
	}
	return filepath.Join(e.home, ".claude")
}

// ruleFiles returns the configured host file list (nil for defaults).
func (e *environment) ruleFiles() []string {
	return e.cfg.RuleFiles
}

// confirmer returns the prompt implementation for --yes.
func confirmer(yes bool) ui.Confirmer {
	if yes {
		return ui.AutoConfirmer(true)
	}
	return ui.NewStdinConfirmer()
}

// jsonOutput reports whether the global --json flag is set.
func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Root().PersistentFlags().GetBool("json")
	return v
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
