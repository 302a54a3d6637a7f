package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbcli/deploy-skills/internal/rules"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
	"github.com/dbcli/deploy-skills/internal/util"
)

// Target names accepted by --target.
const (
	TargetClaude    = "claude"
	TargetCopilot   = "copilot"
	TargetCodex     = "codex"
	TargetWorkspace = "workspace"
	TargetAll       = "all"
)

// Order is the sequence used when every target is requested.
var Order = []string{TargetClaude, TargetCopilot, TargetCodex, TargetWorkspace}

// ToolDir is the directory name dbcli occupies inside an assistant's
// skills directory.
const ToolDir = "dbcli"

// NestedItems is the allow-list for the Claude and Codex layouts.
var NestedItems = []string{
	source.ReadmeDoc,
	source.IntegrationDoc,
	source.ConnectionStringsDoc,
	"dbcli-query",
	"dbcli-exec",
	"dbcli-db-ddl",
	"dbcli-tables",
	"dbcli-export",
	"dbcli-view",
	"dbcli-index",
	"dbcli-procedure",
	"dbcli-interactive",
}

// Result is the outcome of one target: its shapes plus rule injection.
type Result struct {
	// Target is the target name.
	Target string

	// Outcomes has one entry per shape, in deployment order.
	Outcomes []Outcome

	// Rules is nil when injection did not run.
	Rules *rules.Report
}

// Failed reports whether any shape failed.
func (r Result) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Err joins the errors of failed shapes and failed rule files.
func (r Result) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Shape, o.Err))
		}
	}
	if r.Rules != nil {
		if err := r.Rules.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Target is a deployable destination.
type Target interface {
	// Name is the --target value.
	Name() string

	// Title is the display name, e.g. "Claude Code".
	Title() string

	// Deploy runs the target. Failures are reported in the Result and
	// never returned as panics or errors.
	Deploy(ctx context.Context, d *Deployer) Result
}

// TreeTarget deploys one or more shapes in order, then injects rules.
type TreeTarget struct {
	name   string
	title  string
	Shapes []Shape
}

// Name implements Target.
func (t *TreeTarget) Name() string { return t.name }

// Title implements Target.
func (t *TreeTarget) Title() string { return t.title }

// Deploy implements Target. Rule injection is skipped when the operator
// declined a shape or a shape was refused as a self-deployment.
func (t *TreeTarget) Deploy(ctx context.Context, d *Deployer) Result {
	ui.PrintInfo("Deploying to %s...", t.title)
	res := Result{Target: t.name}

	halted := false
	for _, shape := range t.Shapes {
		outcome := d.DeployShape(ctx, shape)
		res.Outcomes = append(res.Outcomes, outcome)

		switch outcome.Status {
		case StatusDeployed:
			ui.PrintSuccess("%s deployed to %s", shape.Name, outcome.Dir)
			if len(shape.Nest) > 0 {
				ui.PrintInfo("Skills location: %s", shape.ItemsDir())
			}
		case StatusFailed:
			ui.PrintError("%s: %v", shape.Name, outcome.Err)
		case StatusDeclined:
			halted = true
		case StatusSkipped:
			if outcome.Reason == ErrSelfDeploy.Error() {
				halted = true
			}
		}
	}

	if !halted && d.Rules != nil {
		res.Rules = d.Rules.Inject(d.Source, false)
	}
	return res
}

// ClaudeTarget deploys to <claudeDir>/skills/dbcli/skills, asking before
// overwriting an existing installation.
func ClaudeTarget(claudeDir string) *TreeTarget {
	return &TreeTarget{
		name:  TargetClaude,
		title: "Claude Code",
		Shapes: []Shape{{
			Name:    "Claude Code",
			Root:    claudeDir,
			Home:    []string{"skills", ToolDir},
			Nest:    []string{"skills"},
			Items:   NestedItems,
			Mode:    ModePrompt,
			CopyExe: true,
		}},
	}
}

// CodexTarget deploys to the user-global ~/.codex/skills/dbcli and, unless
// globalOnly, to <cwd>/.codex/skills/dbcli when cwd is a git repository.
// Existing installations are left alone without Force.
func CodexTarget(home, cwd string, globalOnly bool) *TreeTarget {
	shape := func(name, root string) Shape {
		return Shape{
			Name:    name,
			Root:    filepath.Join(root, ".codex"),
			Home:    []string{"skills", ToolDir},
			Nest:    []string{"skills"},
			Items:   NestedItems,
			Mode:    ModeSkipExisting,
			CopyExe: true,
		}
	}

	t := &TreeTarget{name: TargetCodex, title: "OpenAI Codex"}
	t.Shapes = append(t.Shapes, shape("Codex USER", home))
	if globalOnly {
		return t
	}
	local := shape("Codex REPO", cwd)
	local.Requires = filepath.Join(cwd, ".git")
	t.Shapes = append(t.Shapes, local)
	return t
}

// WorkspaceTarget deploys the whole source flat into <cwd>/skills/dbcli
// for workspace-based assistants (Cursor, Cline, Roo, Kilo).
func WorkspaceTarget(cwd string) *TreeTarget {
	return &TreeTarget{
		name:  TargetWorkspace,
		title: "workspace skills directory",
		Shapes: []Shape{{
			Name:      "workspace",
			Root:      cwd,
			Home:      []string{source.DirName, ToolDir},
			Mode:      ModePrompt,
			GuardSelf: true,
		}},
	}
}

// CopilotTarget writes .github/copilot-instructions.md from the template
// in INTEGRATION.md, then injects rules including the Copilot file.
type CopilotTarget struct {
	// Dir is the repository directory holding .github/.
	Dir string
}

// NewCopilotTarget returns the Copilot instructions target for dir.
func NewCopilotTarget(dir string) *CopilotTarget {
	return &CopilotTarget{Dir: dir}
}

// Name implements Target.
func (t *CopilotTarget) Name() string { return TargetCopilot }

// Title implements Target.
func (t *CopilotTarget) Title() string { return "GitHub Copilot" }

// Path is the instructions file written by the target.
func (t *CopilotTarget) Path() string {
	return filepath.Join(t.Dir, rules.CopilotHostFile)
}

// Deploy implements Target.
func (t *CopilotTarget) Deploy(ctx context.Context, d *Deployer) Result {
	ui.PrintInfo("Deploying GitHub Copilot instructions...")
	path := t.Path()
	res := Result{Target: TargetCopilot}
	outcome := Outcome{Shape: "GitHub Copilot", Dir: filepath.Dir(path)}

	if err := ctx.Err(); err != nil {
		res.Outcomes = append(res.Outcomes, failed(outcome, err))
		return res
	}

	if _, err := os.Stat(path); err == nil && !d.Force {
		ui.PrintWarning("%s already exists", filepath.Base(path))
		if d.Confirm == nil || !d.Confirm.Confirm("Overwrite?") {
			ui.PrintInfo("Skipping Copilot deployment")
			outcome.Status = StatusDeclined
			outcome.Reason = "skipped by user"
			res.Outcomes = append(res.Outcomes, outcome)
			return res
		}
	}

	doc, err := d.Source.ReadIntegration()
	if err != nil {
		res.Outcomes = append(res.Outcomes, failed(outcome, err))
		ui.PrintError("%s not found", source.IntegrationDoc)
		return res
	}
	template, err := rules.ExtractCopilotTemplate(doc)
	if err != nil {
		res.Outcomes = append(res.Outcomes, failed(outcome, err))
		ui.PrintError("%v", err)
		return res
	}

	if err := os.MkdirAll(filepath.Dir(path), util.DirPermissions); err != nil {
		res.Outcomes = append(res.Outcomes, failed(outcome, err))
		return res
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		res.Outcomes = append(res.Outcomes, failed(outcome, fmt.Errorf("writing %s: %w", path, err)))
		return res
	}

	outcome.Status = StatusDeployed
	outcome.Copied = []string{rules.CopilotHostFile}
	res.Outcomes = append(res.Outcomes, outcome)
	ui.PrintSuccess("GitHub Copilot instructions created at %s", path)
	ui.PrintInfo("Copilot will use these instructions automatically")

	if d.Rules != nil {
		res.Rules = d.Rules.Inject(d.Source, true)
	}
	return res
}
