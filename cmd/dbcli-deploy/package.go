package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbcli/deploy-skills/internal/packager"
	"github.com/dbcli/deploy-skills/internal/ui"
)

var packageFlags struct {
	skills []string
	all    bool
	outDir string
}

// errPackageFlags is returned for --skill combined with --all, or neither.
var errPackageFlags = errors.New("use either --all or --skill (not both)")

// packageCmd builds upload ZIPs for Claude Web/App.
var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Create Claude Web/App upload ZIPs for skills",
	Long: `Create one <skill>.zip per skill for the Claude Web/App "Upload skill" flow.

Each archive holds a <skill>/ folder with the skill's files. The manifest is
stored as Skill.md whatever its case on disk. Existing archives with the
same name are replaced.

EXAMPLES:
  dbcli-deploy package --all                          # Every skill
  dbcli-deploy package --skill dbcli-query            # One skill
  dbcli-deploy package --skill dbcli-query --skill dbcli-exec --out-dir dist`,
	Args: cobra.NoArgs,
	RunE: runPackage,
}

func init() {
	f := packageCmd.Flags()
	f.StringArrayVar(&packageFlags.skills, "skill", nil, "Skill to package (repeatable)")
	f.BoolVar(&packageFlags.all, "all", false, "Package every skill as a separate ZIP")
	f.StringVarP(&packageFlags.outDir, "out-dir", "o", "", "Output directory for ZIPs (default: .)")
}

// validatePackageFlags rejects conflicting or missing selections.
func validatePackageFlags(all bool, skills []string) error {
	if all && len(skills) > 0 {
		return errPackageFlags
	}
	if !all && len(skills) == 0 {
		return fmt.Errorf("no skills to package: %w", errPackageFlags)
	}
	return nil
}

func runPackage(cmd *cobra.Command, args []string) error {
	if err := validatePackageFlags(packageFlags.all, packageFlags.skills); err != nil {
		ui.PrintError("%v", err)
		return err
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	outDir := packageFlags.outDir
	if outDir == "" {
		outDir = env.cfg.PackageOutDir
	}
	if outDir == "" {
		outDir = "."
	}
	outDir, err = filepath.Abs(expandHome(outDir, env.home))
	if err != nil {
		return err
	}

	ui.PrintHeader("Claude Skills Packaging")

	src, err := env.resolveSource()
	if err != nil {
		return err
	}
	ui.PrintInfo("Skills source: %s", src.Root)
	ui.PrintInfo("Output dir: %s", outDir)

	var report *packager.Report
	if packageFlags.all {
		report, err = packager.PackageAll(src, outDir)
		if err != nil {
			ui.PrintError("%v", err)
			return err
		}
	} else {
		report = packager.PackageNames(packageFlags.skills, src, outDir)
	}

	if jsonOutput(cmd) {
		if err := printJSON(report); err != nil {
			return err
		}
	}

	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d skills failed to package: %w", report.Failed(), len(report.Results), report.Err())
	}
	ui.PrintInfo(`Upload these ZIPs in Claude: Settings > Capabilities > Skills > "Upload skill"`)
	return nil
}
