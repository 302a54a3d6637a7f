package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableColumnWidths(t *testing.T) {
	table := NewTable("TARGET", "STATUS")
	table.AddRow("claude", "deployed")
	table.AddRow("a-very-long-target-name", "skipped")
	table.SetMaxWidth(0, 10)

	got := table.columnWidths()
	if got[0] != 10 || got[1] != len("deployed") {
		t.Errorf("columnWidths() = %v, want [10 8]", got)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghijkl", 8, "abcde..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncateWithEllipsis(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutput(SetOutput(&buf))

	PrintSummary("Deployment Complete!", []SummaryRow{
		{Target: "Claude Code", Status: "deployed", Location: "/r/.claude/skills/dbcli"},
		{Target: "Codex REPO", Status: "skipped", Detail: ".git not found"},
	})

	got := buf.String()
	for _, want := range []string{"Deployment Complete!", "TARGET", "Claude Code", ".git not found"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
