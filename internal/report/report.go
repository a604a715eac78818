// Package report renders parsed tool libraries for the terminal.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tooldecoder/tooldecoder/internal/stats"
	"github.com/tooldecoder/tooldecoder/internal/tool"
)

// Styles used by the report.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Dim    lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
}

// DefaultStyles returns the report palette.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header: lipgloss.NewStyle().Bold(true),
		Body:   lipgloss.NewStyle(),
		Dim:    lipgloss.NewStyle().Faint(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Table is a static table whose rows can be dimmed individually.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	dimmed  map[int]bool
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:   title,
		Headers: headers,
		dimmed:  make(map[int]bool),
	}
}

// AddRow appends a row. Dimmed rows render faint.
func (t *Table) AddRow(dim bool, cells ...string) {
	if dim {
		t.dimmed[len(t.Rows)] = true
	}
	t.Rows = append(t.Rows, cells)
}

// View renders the table.
func (t *Table) View(styles Styles) string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	// Width includes the padding on both sides.
	for i := range widths {
		widths[i] += 2
	}

	header := styles.Header.Copy().Padding(0, 1)
	sep := styles.Muted.Render("|")

	cells := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cells[i] = header.Width(widths[i]).Render(h)
	}
	sb.WriteString(strings.Join(cells, sep))
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for r, row := range t.Rows {
		style := styles.Body
		if t.dimmed[r] {
			style = styles.Dim
		}
		style = style.Copy().Padding(0, 1)

		cells := make([]string, 0, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells = append(cells, style.Width(widths[i]).Render(cell))
		}
		sb.WriteString(strings.Join(cells, sep))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Tools renders the tool table for one parsed file followed by its stats.
func Tools(title string, tools []tool.Tool, summary *stats.Summary, styles Styles) string {
	t := NewTable(title, "Name", "Source Type", "Type", "Diameter", "Units", "Category")
	for _, tl := range tools {
		typ := string(tl.Type)
		if !tl.Compatible {
			typ = "-"
		}
		t.AddRow(!tl.Compatible,
			tl.Name,
			tl.SourceType,
			typ,
			formatDiameter(tl),
			units(tl.MetricTool),
			tl.CategoryOrDefault(),
		)
	}

	var sb strings.Builder
	sb.WriteString(t.View(styles))
	sb.WriteString("\n")
	sb.WriteString(Footer(summary, styles))
	return sb.String()
}

// Footer renders the aggregate counts and per-category breakdown.
func Footer(s *stats.Summary, styles Styles) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	if s.Format != "" {
		fmt.Fprintf(&sb, "Format: %s\n", s.Format)
	}
	fmt.Fprintf(&sb, "Tools: %d  %s  %s\n",
		s.Total,
		styles.Good.Render(fmt.Sprintf("compatible %d", s.Compatible)),
		styles.Bad.Render(fmt.Sprintf("incompatible %d", s.Incompatible)),
	)
	for _, b := range s.ByCategory {
		fmt.Fprintf(&sb, "  %s: %d/%d\n", b.Name, b.Compatible, b.Total)
	}
	return sb.String()
}

func formatDiameter(t tool.Tool) string {
	return strconv.FormatFloat(t.Diameter, 'f', -1, 64)
}

func units(metric bool) string {
	if metric {
		return "mm"
	}
	return "in"
}
