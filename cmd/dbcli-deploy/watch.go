package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/orchestrate"
	"github.com/dbcli/deploy-skills/internal/tui"
	"github.com/dbcli/deploy-skills/internal/ui"
	"github.com/dbcli/deploy-skills/internal/watch"
)

var watchFlags struct {
	target    string
	claudeDir string
	debounce  time.Duration
}

// watchCmd redeploys whenever the skills source changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Redeploy skills whenever the source changes",
	Long: `Watch the skills source and redeploy after every change.

Runs one forced deployment immediately, then redeploys (always with
--force) each time the source tree has been quiet for the debounce
interval. Stop with Ctrl+C.

EXAMPLES:
  dbcli-deploy watch                       # Keep ./skills/dbcli in sync
  dbcli-deploy watch --target claude
  dbcli-deploy watch --debounce 1s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVarP(&watchFlags.target, "target", "t", deploy.TargetWorkspace, "Deployment target: claude, copilot, codex, workspace, all")
	f.StringVar(&watchFlags.claudeDir, "claude-dir", "", "Claude configuration directory (default: <repo>/.claude or ~/.claude)")
	f.DurationVar(&watchFlags.debounce, "debounce", watch.DefaultDebounce, "Quiet period before redeploying")
}

func runWatch(cmd *cobra.Command, args []string) error {
	targets, err := orchestrate.ParseTarget(watchFlags.target)
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	src, err := env.resolveSource()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := orchestrate.Options{
		Targets:   targets,
		Source:    src,
		Force:     true,
		ClaudeDir: env.claudeDir(watchFlags.claudeDir),
		Cwd:       env.cwd,
		Home:      env.home,
		Confirm:   ui.AutoConfirmer(true),
		RuleFiles: env.ruleFiles(),
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if tui.ShouldRunTUI(jsonOutput(cmd), quiet) {
		return watchWithMonitor(ctx, src.Root, opts)
	}

	redeploy := func(ctx context.Context) error {
		summary, err := orchestrate.Run(ctx, opts)
		if err != nil {
			return err
		}
		if summary.Failed() {
			return summary.Err()
		}
		ui.PrintSuccess("Redeployed (run %s)", summary.RunID)
		return nil
	}

	if err := redeploy(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("initial deployment failed", "err", err)
	}

	ui.PrintInfo("Watching %s (Ctrl+C to stop)", src.Root)
	w := &watch.Watcher{Root: src.Root, Debounce: watchFlags.debounce, OnChange: redeploy}
	return w.Run(ctx)
}

// watchWithMonitor runs the watcher behind the interactive monitor.
// Line output is silenced while the monitor owns the terminal.
func watchWithMonitor(ctx context.Context, root string, opts orchestrate.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer ui.SetOutput(ui.SetOutput(io.Discard))
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	monitor := tui.NewWatchMonitor(ctx, root)
	redeploy := func(ctx context.Context) error {
		monitor.Started()
		summary, err := orchestrate.Run(ctx, opts)
		if err == nil && summary.Failed() {
			err = summary.Err()
		}
		monitor.Finished(summary, err)
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		if err := redeploy(ctx); err != nil && errors.Is(err, context.Canceled) {
			return nil
		}
		w := &watch.Watcher{Root: root, Debounce: watchFlags.debounce, OnChange: redeploy}
		return w.Run(ctx)
	})

	runErr := monitor.Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}
