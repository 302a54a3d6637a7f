// Package main provides the doctor command for installation diagnostics.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbcli/deploy-skills/internal/binary"
	"github.com/dbcli/deploy-skills/internal/rules"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
)

// Check statuses.
const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusError   = "error"
)

// DoctorCheck represents a single diagnostic check result.
type DoctorCheck struct {
	// Name is the check name (e.g., "Skills source", "Bundles").
	Name string `json:"name"`

	// Status is the check status: "ok", "warning", "error".
	Status string `json:"status"`

	// Message is the human-readable result message.
	Message string `json:"message"`

	// Details contains additional information (optional).
	Details string `json:"details,omitempty"`
}

// DoctorResult contains all diagnostic check results.
type DoctorResult struct {
	// Checks contains all individual check results.
	Checks []DoctorCheck `json:"checks"`

	// Issues is the count of checks with status "error" or "warning".
	Issues int `json:"issues"`

	// Healthy is true if no errors were found.
	Healthy bool `json:"healthy"`
}

func (r *DoctorResult) add(check DoctorCheck) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case statusError:
		r.Healthy = false
		r.Issues++
	case statusWarning:
		r.Issues++
	}
}

// doctorCmd runs diagnostic checks on the skills source and deployments.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the skills source, dbcli binary and rule files",
	Long: `Run diagnostic checks on the DbCli skills setup.

CHECKS PERFORMED:
  - Deploy configuration (.dbcli/deploy.yaml or user config)
  - Skills source resolution
  - Skill manifests and their frontmatter
  - Rules block and Copilot template in INTEGRATION.md
  - dbcli executable location and version
  - Rules block presence in the working directory's instruction files

OUTPUT:
  Human-readable by default, JSON with --json flag.

EXAMPLES:
  dbcli-deploy doctor           # Run all checks
  dbcli-deploy doctor --json    # Output as JSON for scripting`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

// runDoctor executes all diagnostic checks.
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Command line arguments (unused)
//
// Returns:
//   - error: Non-nil when any check reports an error
func runDoctor(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if !jsonOutput(cmd) {
		ui.PrintInfo("Running diagnostic checks...")
		ui.Println()
	}

	result := diagnose(cmd.Context(), env, binary.NewLocator(env.exeDir), binary.Verify)

	if jsonOutput(cmd) {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printDoctorResults(result)
	}

	if !result.Healthy {
		return fmt.Errorf("health check failed")
	}
	return nil
}

// diagnose runs every check. Checks that need the source are skipped
// when it cannot be resolved.
func diagnose(ctx context.Context, env *environment, locator *binary.Locator, verify func(context.Context, string) (string, error)) DoctorResult {
	result := DoctorResult{Checks: make([]DoctorCheck, 0), Healthy: true}

	result.add(checkConfig(env))

	candidates := env.candidates()
	src, err := source.Resolve(candidates)
	if err != nil {
		result.add(DoctorCheck{
			Name:    "Skills source",
			Status:  statusError,
			Message: "not found",
			Details: "searched: " + strings.Join(candidates, ", "),
		})
	} else {
		result.add(DoctorCheck{Name: "Skills source", Status: statusOK, Message: src.Root})
		result.add(checkBundles(src))
		result.add(checkFragment(src))
		result.add(checkCopilotTemplate(src))
	}

	result.add(checkBinary(ctx, locator, verify))
	result.add(checkHostFiles(env))
	return result
}

func checkConfig(env *environment) DoctorCheck {
	if env.cfg.Path() == "" {
		return DoctorCheck{Name: "Config", Status: statusOK, Message: "none (defaults)"}
	}
	return DoctorCheck{Name: "Config", Status: statusOK, Message: env.cfg.Path()}
}

// checkBundles validates every bundle's frontmatter and name.
func checkBundles(src *source.Source) DoctorCheck {
	bundles, err := src.Bundles()
	if err != nil {
		return DoctorCheck{Name: "Bundles", Status: statusError, Message: err.Error()}
	}

	var problems []string
	for _, b := range bundles {
		meta, err := b.Meta()
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("%s: %v", b.Name, err))
		case meta.Name != "" && meta.Name != b.Name:
			problems = append(problems, fmt.Sprintf("%s: frontmatter name %q differs from folder", b.Name, meta.Name))
		case strings.TrimSpace(meta.Description) == "":
			problems = append(problems, fmt.Sprintf("%s: missing description", b.Name))
		}
	}

	msg := fmt.Sprintf("%d bundles", len(bundles))
	if len(problems) > 0 {
		return DoctorCheck{Name: "Bundles", Status: statusWarning, Message: msg, Details: strings.Join(problems, "; ")}
	}
	return DoctorCheck{Name: "Bundles", Status: statusOK, Message: msg}
}

func checkFragment(src *source.Source) DoctorCheck {
	doc, err := src.ReadIntegration()
	if err != nil {
		return DoctorCheck{Name: "Rules block", Status: statusError, Message: err.Error()}
	}
	if rules.ExtractFragment(doc) == "" {
		return DoctorCheck{
			Name:    "Rules block",
			Status:  statusWarning,
			Message: "not found in " + source.IntegrationDoc,
			Details: "rule files will not be updated",
		}
	}
	return DoctorCheck{Name: "Rules block", Status: statusOK, Message: "present"}
}

func checkCopilotTemplate(src *source.Source) DoctorCheck {
	doc, err := src.ReadIntegration()
	if err != nil {
		return DoctorCheck{Name: "Copilot template", Status: statusError, Message: err.Error()}
	}
	if _, err := rules.ExtractCopilotTemplate(doc); err != nil {
		return DoctorCheck{Name: "Copilot template", Status: statusWarning, Message: err.Error()}
	}
	return DoctorCheck{Name: "Copilot template", Status: statusOK, Message: "present"}
}

// checkBinary locates dbcli and asks it for its version. Both are
// informational: deployment works without the binary.
func checkBinary(ctx context.Context, locator *binary.Locator, verify func(context.Context, string) (string, error)) DoctorCheck {
	exe, err := locator.Locate()
	if err != nil {
		return DoctorCheck{
			Name:    "dbcli",
			Status:  statusWarning,
			Message: "not found",
			Details: "install with: dbcli-deploy install",
		}
	}
	version, err := verify(ctx, exe)
	if err != nil {
		return DoctorCheck{Name: "dbcli", Status: statusWarning, Message: exe, Details: err.Error()}
	}
	return DoctorCheck{Name: "dbcli", Status: statusOK, Message: version, Details: exe}
}

// checkHostFiles reports which instruction files carry the rules block.
func checkHostFiles(env *environment) DoctorCheck {
	var present, missing []string
	for _, rel := range rules.HostFiles(env.ruleFiles(), true) {
		has, err := rules.HasMarker(filepath.Join(env.cwd, rel))
		if err != nil {
			return DoctorCheck{Name: "Rule files", Status: statusWarning, Message: err.Error()}
		}
		if has {
			present = append(present, rel)
		} else {
			missing = append(missing, rel)
		}
	}

	msg := fmt.Sprintf("%d of %d carry the rules block", len(present), len(present)+len(missing))
	if len(present) == 0 {
		return DoctorCheck{
			Name:    "Rule files",
			Status:  statusWarning,
			Message: msg,
			Details: "run: dbcli-deploy deploy",
		}
	}
	check := DoctorCheck{Name: "Rule files", Status: statusOK, Message: msg}
	if len(missing) > 0 {
		check.Details = "missing: " + strings.Join(missing, ", ")
	}
	return check
}

// printDoctorResults prints check results in a human-readable format.
func printDoctorResults(result DoctorResult) {
	for _, check := range result.Checks {
		level := ui.LevelSuccess
		switch check.Status {
		case statusWarning:
			level = ui.LevelWarning
		case statusError:
			level = ui.LevelError
		}
		ui.Print(level, "%-18s %s", check.Name+":", check.Message)
		if check.Details != "" {
			ui.PrintDim("    %s", check.Details)
		}
	}

	ui.Println()

	if result.Issues > 0 {
		ui.PrintWarning("%d issue(s) found", result.Issues)
	} else {
		ui.PrintSuccess("All checks passed")
	}
}
