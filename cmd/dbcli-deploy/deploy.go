package main

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbcli/deploy-skills/internal/binary"
	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/orchestrate"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
)

var deployFlags struct {
	target         string
	force          bool
	claudeDir      string
	codexGlobal    bool
	installScripts bool
	addToPath      bool
	yes            bool
	copyExe        bool
}

// deployCmd deploys the skills tree to one or all assistant targets.
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy skills to AI assistant environments",
	Long: `Deploy the DbCli skills tree into the layouts read by AI assistants.

TARGETS (run in this order with --target all):
  claude     <claude-dir>/skills/dbcli/skills (repo .claude, else ~/.claude)
  copilot    .github/copilot-instructions.md from INTEGRATION.md
  codex      ~/.codex/skills/dbcli and, in a git repo, ./.codex/skills/dbcli
  workspace  ./skills/dbcli for Cursor, Cline, Roo and Kilo

Every target finishes by appending the DbCli rules block to CLAUDE.md,
AGENTS.md, .cursorrules and the other instruction files of the working
directory. Files that already carry the block are left alone.

Existing installations prompt before being overwritten (codex skips them
instead). --force replaces them without asking.

EXAMPLES:
  dbcli-deploy deploy                                # All targets
  dbcli-deploy deploy --target claude --force        # Refresh Claude Code skills
  dbcli-deploy deploy --target codex --codex-global-only
  dbcli-deploy deploy --install-scripts --target all # Install dbcli first`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	f := deployCmd.Flags()
	f.StringVarP(&deployFlags.target, "target", "t", deploy.TargetAll, "Deployment target: claude, copilot, codex, workspace, all")
	f.BoolVarP(&deployFlags.force, "force", "f", false, "Overwrite existing installations without prompting")
	f.StringVar(&deployFlags.claudeDir, "claude-dir", "", "Claude configuration directory (default: <repo>/.claude or ~/.claude)")
	f.BoolVar(&deployFlags.codexGlobal, "codex-global-only", false, "Deploy Codex skills to ~/.codex only (requires --target codex)")
	f.BoolVar(&deployFlags.installScripts, "install-scripts", false, "Install the dbcli executable and helpers to ~/tools/dbcli first")
	f.BoolVar(&deployFlags.addToPath, "add-to-path", false, "Add ~/tools/dbcli to PATH when installing (with --install-scripts)")
	f.BoolVarP(&deployFlags.yes, "yes", "y", false, "Answer yes to overwrite prompts")
	f.BoolVar(&deployFlags.copyExe, "copy-exe", false, "Copy the dbcli executable into the Claude and Codex layouts")
}

// runDeploy validates flags, optionally installs dbcli, then runs the
// orchestrator.
func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	targets, err := orchestrate.ParseTarget(deployFlags.target)
	if err != nil {
		return err
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	opts := orchestrate.Options{
		Targets:    targets,
		Candidates: env.candidates(),
		Force:      deployFlags.force,
		GlobalOnly: deployFlags.codexGlobal || (env.cfg.Codex.GlobalOnly && deployFlags.target == deploy.TargetCodex),
		ClaudeDir:  env.claudeDir(deployFlags.claudeDir),
		Cwd:        env.cwd,
		Home:       env.home,
		Confirm:    confirmer(deployFlags.yes),
		RuleFiles:  env.ruleFiles(),
		Verify:     verifyDbcli,
	}
	if err := opts.Validate(); err != nil {
		ui.PrintError("%v", err)
		return err
	}

	if deployFlags.installScripts {
		if err := installTools(ctx, env, installOptions{addToPath: deployFlags.addToPath}); err != nil {
			return err
		}
	}

	if deployFlags.copyExe {
		exe, err := binary.NewLocator(env.exeDir).Locate()
		if err != nil {
			ui.PrintWarning("%v; skipping executable copy", err)
		} else {
			opts.Exe = exe
		}
	}

	ui.PrintHeader("DbCli Skills Deployment")

	summary, err := orchestrate.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			printSourceHint()
		}
		return err
	}

	if jsonOutput(cmd) {
		if err := printJSON(summary); err != nil {
			return err
		}
	} else {
		ui.PrintSummary("Deployment Complete!", summary.Rows())
		printNextSteps(targets, opts)
	}

	// Per-target failures are reported, not turned into an exit status.
	if summary.Failed() {
		ui.PrintWarning("Deployment finished with errors: %v", summary.Err())
	}
	return nil
}

// verifyDbcli runs the dbcli on PATH.
func verifyDbcli(ctx context.Context) (string, error) {
	ui.StartSpinner("Running dbcli --version")
	defer ui.StopSpinner()
	return binary.Verify(ctx, binary.Name)
}

func printNextSteps(targets []string, opts orchestrate.Options) {
	ui.Println()
	for _, t := range targets {
		switch t {
		case deploy.TargetClaude:
			ui.PrintInfo("Claude Code: skills in %s", filepath.Join(opts.ClaudeDir, "skills", deploy.ToolDir, "skills"))
		case deploy.TargetCopilot:
			ui.PrintInfo("Copilot: commit .github/copilot-instructions.md to share it with your team")
		case deploy.TargetCodex:
			ui.PrintInfo("Codex: consider committing .codex/ to the repository for team sharing")
		case deploy.TargetWorkspace:
			ui.PrintInfo("Workspace: point Cursor, Cline, Roo or Kilo at skills/dbcli")
		}
	}
}
