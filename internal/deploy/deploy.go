// Package deploy replicates the dbcli skills tree into the directory
// layouts expected by AI assistants.
//
// Every layout is described by a Shape and deployed by the same
// algorithm (Deployer.DeployShape): check for an existing installation,
// confirm or clean it, recreate the directory, copy the allow-listed
// items, optionally drop the dbcli executable next to them. Targets
// group one or more shapes and finish by appending the rule fragment to
// the working directory's instruction files.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dbcli/deploy-skills/internal/rules"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
	"github.com/dbcli/deploy-skills/internal/util"
)

// ErrSelfDeploy is the skip reason when a shape would be deployed into
// the skills source itself.
var ErrSelfDeploy = errors.New("destination is inside the skills source")

// Mode selects what happens when a non-forced run finds the destination
// already populated.
type Mode int

const (
	// ModePrompt asks the operator before merging into the destination.
	ModePrompt Mode = iota

	// ModeSkipExisting leaves the destination untouched and reports a
	// skip. Newer source content is only picked up with Force.
	ModeSkipExisting
)

// Shape describes one destination layout.
type Shape struct {
	// Name labels the shape in output, e.g. "codex (user)".
	Name string

	// Root is the base directory, e.g. ~/.codex or <repo>/.claude.
	Root string

	// Home are the path segments from Root to the tool's top-level
	// directory, e.g. ["skills", "dbcli"].
	Home []string

	// Nest are the segments from the top-level directory to where items
	// are copied, e.g. ["skills"]. Empty means items go in the top-level
	// directory itself.
	Nest []string

	// Items is the allow-list of bundle and document names. Nil copies
	// every entry of the source.
	Items []string

	// Mode decides how a populated destination is handled without Force.
	Mode Mode

	// Requires, when set, must exist or the shape is skipped (for
	// example the .git marker of repository-local layouts).
	Requires string

	// CopyExe places the dbcli executable in the top-level directory
	// when the deployer has one.
	CopyExe bool

	// GuardSelf refuses to deploy when the destination lies inside the
	// source or Root already holds a skills source.
	GuardSelf bool
}

// TopDir is the tool's top-level directory (Root joined with Home).
func (s Shape) TopDir() string {
	return filepath.Join(append([]string{s.Root}, s.Home...)...)
}

// ItemsDir is where bundles and documents are copied.
func (s Shape) ItemsDir() string {
	return filepath.Join(append([]string{s.TopDir()}, s.Nest...)...)
}

// Status is the result of deploying one shape.
type Status int

const (
	StatusDeployed Status = iota
	StatusSkipped
	StatusDeclined
	StatusFailed
)

// String returns a human-readable label for the status.
func (s Status) String() string {
	switch s {
	case StatusDeployed:
		return "deployed"
	case StatusSkipped:
		return "skipped"
	case StatusDeclined:
		return "declined"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome records what happened to one shape.
type Outcome struct {
	// Shape is the shape name.
	Shape string `json:"shape"`

	// Status is the result.
	Status Status `json:"status"`

	// Dir is the top-level destination directory.
	Dir string `json:"dir"`

	// Copied lists the items copied, in allow-list order.
	Copied []string `json:"copied,omitempty"`

	// Reason explains a skip or decline.
	Reason string `json:"reason,omitempty"`

	// Err is set when Status is StatusFailed.
	Err error `json:"-"`
}

// RuleInjector appends the rule fragment after a deployment.
type RuleInjector interface {
	Inject(src *source.Source, includeCopilot bool) *rules.Report
}

// Deployer runs shapes and targets against one resolved source.
type Deployer struct {
	// Source is the resolved skills tree. Required.
	Source *source.Source

	// Confirm answers overwrite prompts. Required for ModePrompt shapes.
	Confirm ui.Confirmer

	// Rules is invoked at the end of each target. Nil disables injection.
	Rules RuleInjector

	// Exe is the dbcli executable copied into CopyExe shapes. Empty
	// disables the copy.
	Exe string

	// Force cleans destinations instead of prompting or skipping.
	Force bool

	remove func(string) error
	sleep  func(time.Duration)
}

// New returns a Deployer with production file-system behavior.
func New(src *source.Source, confirm ui.Confirmer, injector RuleInjector) *Deployer {
	if src == nil {
		panic("deploy.New: source must not be nil")
	}
	return &Deployer{Source: src, Confirm: confirm, Rules: injector}
}

func (d *Deployer) removeFunc() func(string) error {
	if d.remove != nil {
		return d.remove
	}
	return forceRemove
}

func (d *Deployer) sleepFunc() func(time.Duration) {
	if d.sleep != nil {
		return d.sleep
	}
	return time.Sleep
}

// DeployShape replicates the allow-listed items of the source into the
// shape's layout.
//
// Parameters:
//   - ctx: Checked before any file is touched
//   - shape: Destination layout
//
// Returns:
//   - Outcome: Deployed, skipped, declined or failed; never panics on I/O errors
func (d *Deployer) DeployShape(ctx context.Context, shape Shape) Outcome {
	top := shape.TopDir()
	outcome := Outcome{Shape: shape.Name, Dir: top}

	if err := ctx.Err(); err != nil {
		return failed(outcome, err)
	}

	if shape.Requires != "" {
		if _, err := os.Stat(shape.Requires); err != nil {
			outcome.Status = StatusSkipped
			outcome.Reason = fmt.Sprintf("%s not found", filepath.Base(shape.Requires))
			log.Debug("shape precondition not met", "shape", shape.Name, "requires", shape.Requires)
			return outcome
		}
	}

	if shape.GuardSelf && d.isSelfDeploy(shape) {
		ui.PrintWarning("Already in skills root directory")
		ui.PrintInfo("For %s deployment, run from a different project directory", shape.Name)
		outcome.Status = StatusSkipped
		outcome.Reason = ErrSelfDeploy.Error()
		return outcome
	}

	populated := isPopulated(top)
	switch {
	case populated && d.Force:
		ui.PrintWarning("Overwriting existing %s at %s", shape.Name, top)
		if err := removeAll(top, d.removeFunc(), d.sleepFunc()); err != nil {
			return failed(outcome, err)
		}
	case populated && shape.Mode == ModeSkipExisting:
		ui.PrintInfo("%s already exists at %s (use --force to overwrite)", shape.Name, top)
		outcome.Status = StatusSkipped
		outcome.Reason = "already deployed"
		return outcome
	case populated:
		ui.PrintWarning("%s already exists at %s", shape.Name, top)
		if d.Confirm == nil || !d.Confirm.Confirm("Overwrite?") {
			ui.PrintInfo("Skipping %s deployment", shape.Name)
			outcome.Status = StatusDeclined
			outcome.Reason = "skipped by user"
			return outcome
		}
	}

	itemsDir := shape.ItemsDir()
	if err := os.MkdirAll(itemsDir, util.DirPermissions); err != nil {
		return failed(outcome, fmt.Errorf("creating %s: %w", itemsDir, err))
	}

	if shape.CopyExe && d.Exe != "" {
		dst := filepath.Join(top, filepath.Base(d.Exe))
		if err := util.CopyFile(d.Exe, dst); err != nil {
			return failed(outcome, fmt.Errorf("copying executable: %w", err))
		}
		ui.PrintDim("  - %s (executable)", filepath.Base(d.Exe))
	}

	items, err := d.items(shape)
	if err != nil {
		return failed(outcome, err)
	}

	prefix := ""
	if len(shape.Nest) > 0 {
		prefix = filepath.Join(shape.Nest...) + "/"
	}
	for _, item := range items {
		copied, err := d.copyItem(item, filepath.Join(itemsDir, item))
		if err != nil {
			return failed(outcome, fmt.Errorf("copying %s: %w", item, err))
		}
		if copied {
			outcome.Copied = append(outcome.Copied, item)
			ui.PrintDim("  - %s%s", prefix, item)
		}
	}

	outcome.Status = StatusDeployed
	log.Debug("shape deployed", "shape", shape.Name, "dir", top, "items", len(outcome.Copied))
	return outcome
}

// items returns the allow-list, or every top-level entry of the source
// when the shape has none.
func (d *Deployer) items(shape Shape) ([]string, error) {
	if shape.Items != nil {
		return shape.Items, nil
	}
	entries, err := os.ReadDir(d.Source.Root)
	if err != nil {
		return nil, fmt.Errorf("listing source: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// copyItem copies one source entry. Directories replace any existing
// directory of the same name; files overwrite. Items missing from the
// source are skipped and reported as not copied.
func (d *Deployer) copyItem(item, dst string) (bool, error) {
	src := d.Source.Path(item)
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("allow-listed item not in source", "item", item)
			return false, nil
		}
		return false, err
	}

	if !info.IsDir() {
		return true, util.CopyFile(src, dst)
	}

	if _, err := os.Lstat(dst); err == nil {
		if err := removeAll(dst, d.removeFunc(), d.sleepFunc()); err != nil {
			return false, err
		}
	}
	return true, util.CopyTree(src, dst)
}

func (d *Deployer) isSelfDeploy(shape Shape) bool {
	if d.Source.Contains(shape.TopDir()) {
		return true
	}
	_, err := os.Stat(filepath.Join(shape.Root, source.DirName, source.CanaryBundle))
	return err == nil
}

func failed(o Outcome, err error) Outcome {
	o.Status = StatusFailed
	o.Err = err
	log.Error("deployment failed", "shape", o.Shape, "dir", o.Dir, "err", err)
	return o
}
