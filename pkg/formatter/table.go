// File: pkg/formatter/table.go
package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows as a bordered ASCII grid. Widths are measured in terminal cells.
type Table struct {
	Headers []string
	Rows    [][]string
	// Applied to header cells after padding; the zero style renders plain text
	HeaderStyle lipgloss.Style
}

func NewTable(headers []string) *Table {
	return &Table{
		Headers: headers,
		Rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	return widths
}

func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.columnWidths()
	var sb strings.Builder

	writeBorder(&sb, widths)
	writeRow(&sb, widths, t.Headers, &t.HeaderStyle)
	writeBorder(&sb, widths)
	for _, row := range t.Rows {
		writeRow(&sb, widths, row, nil)
	}
	writeBorder(&sb, widths)

	return strings.TrimSuffix(sb.String(), "\n")
}

func writeBorder(sb *strings.Builder, widths []int) {
	sb.WriteString("+")
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
}

func writeRow(sb *strings.Builder, widths []int, cells []string, style *lipgloss.Style) {
	sb.WriteString("| ")
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded := cell + strings.Repeat(" ", width-lipgloss.Width(cell))
		if style != nil {
			padded = style.Render(padded)
		}
		sb.WriteString(padded)
		sb.WriteString(" | ")
	}
	sb.WriteString("\n")
}

// Formats a section header with a title
func FormatHeaderSection(style lipgloss.Style, title string) string {
	borderLine := strings.Repeat("=", lipgloss.Width(title)+30)
	return borderLine + "\n" + style.Render("  "+title+"  ") + "\n" + borderLine
}

// Formats a simple section title
func FormatSectionTitle(style lipgloss.Style, title string) string {
	return style.Render("-- " + title + " --")
}
