// Package ui provides the help text for the dbcli-deploy CLI.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// tagline is the one-line product description.
const tagline = "Deploy DbCli skills to AI assistant environments"

// GetHelpText returns the long help text for the root command.
func GetHelpText() string {
	accent := lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	return fmt.Sprintf(`%s

%s
  %s              Deploy to every supported assistant
  %s   Claude Code (.claude/skills/dbcli/skills)
  %s  GitHub Copilot (.github/copilot-instructions.md)
  %s    OpenAI Codex (~/.codex and ./.codex)
  %s  Workspace skills (./skills/dbcli)

%s
  %s            One upload ZIP per skill
  %s   Install dbcli + scripts into ~/tools/dbcli
  %s                 Check source, skills and rule injection`,
		dim.Render(tagline+"."),
		accent.Render("Deploy:"),
		accent.Render("dbcli-deploy deploy"),
		accent.Render("dbcli-deploy deploy --target claude"),
		accent.Render("dbcli-deploy deploy --target copilot"),
		accent.Render("dbcli-deploy deploy --target codex"),
		accent.Render("dbcli-deploy deploy --target workspace"),
		accent.Render("More:"),
		accent.Render("dbcli-deploy package --all"),
		accent.Render("dbcli-deploy install --add-to-path"),
		accent.Render("dbcli-deploy doctor"),
	)
}
