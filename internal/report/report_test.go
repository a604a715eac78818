package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tooldecoder/tooldecoder/internal/stats"
	"github.com/tooldecoder/tooldecoder/internal/tool"
)

func TestTableView(t *testing.T) {
	tbl := NewTable("Tools", "Name", "Type")
	tbl.AddRow(false, "End Mill", "End Mill")
	tbl.AddRow(true, "Cove", "-")

	out := tbl.View(DefaultStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "Tools")
	assert.Contains(t, lines[1], "Name")
	assert.Contains(t, lines[2], "---")
	assert.Contains(t, lines[3], "End Mill")
	assert.Contains(t, lines[4], "Cove")
}

func TestTableViewShortRow(t *testing.T) {
	tbl := NewTable("", "A", "B")
	tbl.AddRow(false, "only")

	out := tbl.View(DefaultStyles())
	assert.Contains(t, out, "only")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestTools(t *testing.T) {
	tools := []tool.Tool{
		tool.Tool{Name: "6mm Flat", SourceType: "End Mill", Diameter: 6, MetricTool: true, Category: "Aluminum"}.Typed(tool.EndMill),
		tool.Tool{Name: "Cove", SourceType: "Form Tool", Diameter: 0.5}.Typed(tool.Incompatible),
	}

	out := Tools("lib.vtdb", tools, stats.Summarize("aspire12", tools), DefaultStyles())

	assert.Contains(t, out, "6mm Flat")
	assert.Contains(t, out, "mm")
	assert.Contains(t, out, "0.5")
	assert.Contains(t, out, "Format: aspire12")
	assert.Contains(t, out, "compatible 1")
	assert.Contains(t, out, "incompatible 1")
	assert.Contains(t, out, "Aluminum: 1/1")
	assert.Contains(t, out, "Default: 0/1")
}

func TestFooterNil(t *testing.T) {
	assert.Empty(t, Footer(nil, DefaultStyles()))
}
