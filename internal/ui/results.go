// Package ui provides result rendering components.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryRow is one line of the end-of-run summary.
type SummaryRow struct {
	// Target is the deployment target or bundle name.
	Target string

	// Status is "deployed", "skipped", "declined" or "failed".
	Status string

	// Location is the destination path or archive path.
	Location string

	// Detail is an optional note (skip reason, error text).
	Detail string
}

// PrintSummary renders the end-of-run summary table.
//
// Parameters:
//   - title: Header printed above the table
//   - rows: One row per target or bundle
func PrintSummary(title string, rows []SummaryRow) {
	if len(rows) == 0 {
		return
	}
	PrintHeader(title)

	table := NewTable("TARGET", "STATUS", "LOCATION", "NOTE")
	table.SetMaxWidth(2, 60)
	table.SetMaxWidth(3, 60)
	for _, row := range rows {
		table.AddRow(row.Target, row.Status, row.Location, row.Detail)
	}
	table.Render()
	Println()
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "deployed", "written", "created":
		return StatusDeployedStyle
	case "skipped", "declined":
		return StatusSkippedStyle
	case "failed":
		return StatusFailedStyle
	default:
		return TableCellStyle
	}
}

// Table represents a table with dynamic column widths for formatted output.
type Table struct {
	// Headers contains the column header names.
	Headers []string

	// Rows contains all data rows.
	Rows [][]string

	// MaxWidths specifies maximum width per column index (truncates with ellipsis).
	MaxWidths map[int]int
}

// NewTable creates a new table with the specified headers.
func NewTable(headers ...string) *Table {
	return &Table{
		Headers:   headers,
		Rows:      make([][]string, 0),
		MaxWidths: make(map[int]int),
	}
}

// AddRow adds a data row to the table.
func (t *Table) AddRow(values ...string) {
	t.Rows = append(t.Rows, values)
}

// SetMaxWidth sets the maximum width for a column.
// Values exceeding this width will be truncated with ellipsis.
func (t *Table) SetMaxWidth(col, width int) {
	t.MaxWidths[col] = width
}

// columnWidths computes the width of each column from headers and rows,
// capped by MaxWidths.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row {
			if i < len(widths) && len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}
	for i := range widths {
		if max, ok := t.MaxWidths[i]; ok && widths[i] > max {
			widths[i] = max
		}
	}
	return widths
}

func truncateWithEllipsis(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Render prints the table. The STATUS column (index 1) is colored by value.
func (t *Table) Render() {
	if len(t.Headers) == 0 {
		return
	}

	widths := t.columnWidths()
	colGap := "  "

	var headerCells []string
	for i, header := range t.Headers {
		headerCells = append(headerCells, TableHeaderStyle.Render(padRight(header, widths[i])))
	}
	emit(strings.Join(headerCells, colGap), false)

	total := len(colGap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	emit(DimStyle.Render(strings.Repeat("-", total)), false)

	for _, row := range t.Rows {
		cells := make([]string, 0, len(t.Headers))
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if max, ok := t.MaxWidths[i]; ok {
				val = truncateWithEllipsis(val, max)
			}
			style := TableCellStyle
			if i == 1 {
				style = statusStyle(val)
			}
			cells = append(cells, style.Render(padRight(val, widths[i])))
		}
		emit(strings.Join(cells, colGap), false)
	}
}
