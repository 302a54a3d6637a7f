package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbcli/deploy-skills/internal/config"
	"github.com/dbcli/deploy-skills/internal/rules"
	"github.com/dbcli/deploy-skills/internal/ui"
)

var initFlags struct {
	global bool
	force  bool
}

// initCmd writes a starter deploy configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a deploy configuration file",
	Long: `Create .dbcli/deploy.yaml in the current directory (or the user-level
file with --global) listing the rule files that receive the DbCli rules
block. Edit it to add source candidates, a Claude directory or a default
package output directory.

EXAMPLES:
  dbcli-deploy init            # ./.dbcli/deploy.yaml
  dbcli-deploy init --global   # user config directory
  dbcli-deploy init --force    # Overwrite an existing file`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.global, "global", false, "Write the user-level configuration instead")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.UserPath()
	if !initFlags.global {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		path = config.ProjectPath(cwd)
	}

	written, err := writeStarterConfig(path, initFlags.force)
	if err != nil {
		return err
	}
	if !written {
		ui.PrintWarning("Configuration already exists: %s", path)
		ui.PrintInfo("Use --force to overwrite")
		return nil
	}
	ui.PrintSuccess("Created %s", path)
	return nil
}

// writeStarterConfig writes the default configuration to path. An
// existing file is kept unless force is set.
func writeStarterConfig(path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	cfg := &config.DeployConfig{RuleFiles: append([]string(nil), rules.DefaultHostFiles...)}
	if err := config.WriteDeployConfig(path, cfg); err != nil {
		return false, err
	}
	return true, nil
}
