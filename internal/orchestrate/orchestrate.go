// Package orchestrate runs a full deployment: resolve the skills source,
// deploy the requested targets in a fixed order, then verify the dbcli
// binary.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/rules"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
)

// ErrGlobalOnlyNeedsCodex is returned when GlobalOnly is set for a run
// that is not exactly the codex target.
var ErrGlobalOnlyNeedsCodex = errors.New("--codex-global-only is only supported with --target codex")

// ErrUnknownTarget is returned by ParseTarget for unsupported names.
var ErrUnknownTarget = errors.New("unknown target")

// ParseTarget expands a --target value into target names in deployment
// order. "all" yields every target.
func ParseTarget(name string) ([]string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == deploy.TargetAll {
		return slices.Clone(deploy.Order), nil
	}
	if slices.Contains(deploy.Order, name) {
		return []string{name}, nil
	}
	return nil, fmt.Errorf("%w %q (valid: %s, %s)", ErrUnknownTarget, name,
		strings.Join(deploy.Order, ", "), deploy.TargetAll)
}

// Options configures a deployment run.
type Options struct {
	// Targets are the target names to deploy. They always run in
	// deploy.Order regardless of the order given here.
	Targets []string

	// Candidates are the skills source directories, highest priority first.
	Candidates []string

	// Source skips resolution when set.
	Source *source.Source

	// Force overwrites existing installations without prompting.
	Force bool

	// GlobalOnly restricts the codex target to the user profile.
	GlobalOnly bool

	// ClaudeDir is the Claude configuration directory.
	ClaudeDir string

	// Cwd is the working directory (workspace, copilot, codex repo and
	// rule files are relative to it).
	Cwd string

	// Home is the user's home directory.
	Home string

	// Confirm answers overwrite prompts.
	Confirm ui.Confirmer

	// Exe, when set, is copied next to the Claude and Codex layouts.
	Exe string

	// RuleFiles overrides the default host file list.
	RuleFiles []string

	// Verify checks the dbcli binary after deployment. Nil skips it.
	Verify func(ctx context.Context) (string, error)
}

// Validate checks option combinations that are rejected before any work.
func (o *Options) Validate() error {
	if len(o.Targets) == 0 {
		return errors.New("no targets requested")
	}
	for _, t := range o.Targets {
		if !slices.Contains(deploy.Order, t) {
			return fmt.Errorf("%w %q", ErrUnknownTarget, t)
		}
	}
	if o.GlobalOnly && !(len(o.Targets) == 1 && o.Targets[0] == deploy.TargetCodex) {
		return ErrGlobalOnlyNeedsCodex
	}
	return nil
}

// Run executes a deployment.
//
// Target failures are isolated: every requested target runs and reports
// its outcome in the Summary. Run only returns an error for conditions
// that stop the whole run (invalid options, unresolved source, context
// cancellation before a target starts).
//
// Parameters:
//   - ctx: Checked between targets
//   - opts: Run configuration
//
// Returns:
//   - *Summary: Per-target outcomes; non-nil whenever the source resolved
//   - error: source.ErrNotFound, ErrGlobalOnlyNeedsCodex, or ctx.Err()
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	src := opts.Source
	if src == nil {
		var err error
		src, err = source.Resolve(opts.Candidates)
		if err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	logger := log.With("run", runID)
	logger.Debug("deployment started", "source", src.Root, "targets", opts.Targets, "force", opts.Force)
	ui.PrintInfo("Skills source: %s", src.Root)

	d := deploy.New(src, opts.Confirm, rules.Injector{Dir: opts.Cwd, Files: opts.RuleFiles})
	d.Force = opts.Force
	d.Exe = opts.Exe

	summary := &Summary{RunID: runID, Source: src.Root}
	for _, target := range buildTargets(opts) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if len(summary.Targets) > 0 {
			ui.Println()
		}
		res := target.Deploy(ctx, d)
		summary.add(res)
		logger.Debug("target finished", "target", target.Name(), "failed", res.Failed())
	}

	if opts.Verify != nil {
		verifyBinary(ctx, opts.Verify, summary)
	}
	return summary, nil
}

// buildTargets returns the requested targets in deploy.Order.
func buildTargets(opts Options) []deploy.Target {
	var targets []deploy.Target
	for _, name := range deploy.Order {
		if !slices.Contains(opts.Targets, name) {
			continue
		}
		switch name {
		case deploy.TargetClaude:
			targets = append(targets, deploy.ClaudeTarget(opts.ClaudeDir))
		case deploy.TargetCopilot:
			targets = append(targets, deploy.NewCopilotTarget(opts.Cwd))
		case deploy.TargetCodex:
			if opts.GlobalOnly {
				ui.PrintInfo("Codex global-only mode: skipping repo deployment")
			}
			targets = append(targets, deploy.CodexTarget(opts.Home, opts.Cwd, opts.GlobalOnly))
		case deploy.TargetWorkspace:
			targets = append(targets, deploy.WorkspaceTarget(opts.Cwd))
		}
	}
	return targets
}

func verifyBinary(ctx context.Context, verify func(context.Context) (string, error), s *Summary) {
	ui.Println()
	ui.PrintInfo("Verifying DbCli installation...")
	version, err := verify(ctx)
	if err != nil {
		s.VerifyError = err.Error()
		ui.PrintWarning("DbCli not found in PATH")
		ui.PrintInfo("Install DbCli: dbcli-deploy install --add-to-path")
		return
	}
	s.Version = version
	ui.PrintSuccess("DbCli is installed: %s", version)
}
