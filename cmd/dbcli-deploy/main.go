// Package main provides the entry point for the dbcli-deploy CLI.
//
// dbcli-deploy copies the DbCli skills tree into the directory layouts
// read by AI coding assistants (Claude Code, GitHub Copilot, OpenAI Codex
// and workspace-based tools), packages skills for upload, and installs
// the dbcli executable into ~/tools/dbcli.
package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dbcli/deploy-skills/internal/ui"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "dbcli-deploy",
	Short:        "Deploy DbCli skills to AI assistant environments",
	Long:         ui.GetHelpText(),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			log.SetLevel(log.DebugLevel)
			log.Debug("Debug logging enabled")
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		ui.SetQuietMode(quiet)

		// Keep stdout clean for the JSON document.
		if jsonOutput(cmd) {
			ui.SetOutput(os.Stderr)
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
//
// Unknown commands that name a deployment target (e.g. "dbcli-deploy
// codex") get a suggestion for the equivalent deploy invocation.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		errStr := err.Error()
		if start := strings.Index(errStr, `unknown command "`); start != -1 {
			start += len(`unknown command "`)
			if end := strings.Index(errStr[start:], `"`); end != -1 {
				unknownCmd := errStr[start : start+end]
				if suggestion, found := suggestCorrectCommand(unknownCmd, os.Args[1:]); found {
					printCommandSuggestion(suggestion)
				}
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON (where supported)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintInfo("Version: %s", version)
		ui.PrintInfo("Commit: %s", commit)
		ui.PrintInfo("Built: %s", date)
	},
}

func main() {
	Execute()
}
