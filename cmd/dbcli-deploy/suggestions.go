package main

import (
	"slices"
	"strings"

	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/ui"
)

// suggestCorrectCommand turns a target typed as a command into a deploy
// invocation, keeping every other argument in place.
//
// Example:
//
//	unknownCmd: "codex"
//	allArgs: ["--debug", "codex", "--force"]
//	Returns: "dbcli-deploy --debug deploy --target codex --force", true
func suggestCorrectCommand(unknownCmd string, allArgs []string) (string, bool) {
	if unknownCmd != deploy.TargetAll && !slices.Contains(deploy.Order, unknownCmd) {
		return "", false
	}

	parts := []string{"dbcli-deploy"}
	found := false
	for _, arg := range allArgs {
		if !found && arg == unknownCmd {
			parts = append(parts, "deploy", "--target", unknownCmd)
			found = true
			continue
		}
		parts = append(parts, arg)
	}
	if !found {
		return "", false
	}
	return strings.Join(parts, " "), true
}

// printCommandSuggestion prints a "did you mean" suggestion.
func printCommandSuggestion(suggestion string) {
	ui.Println()
	ui.PrintInfo("Did you mean:")
	ui.PrintDim("  %s", suggestion)
	ui.Println()
}
