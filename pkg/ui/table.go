package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align is the horizontal alignment of a column
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

const cellGap = "  "

// TableColumn describes one column. Width is a minimum; MaxWidth, when set,
// truncates longer cells with an ellipsis.
type TableColumn struct {
	Header   string
	Width    int
	MaxWidth int
	Align    Align
}

// Table is a plain text table for one-shot command output. The live view
// draws its own rows.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
	marked  map[int]bool
}

// NewTable creates an empty table
func NewTable(columns []TableColumn) *Table {
	return &Table{Columns: columns, marked: make(map[int]bool)}
}

// AddRow appends a row; missing cells render empty
func (t *Table) AddRow(cells []string) {
	t.Rows = append(t.Rows, t.fit(cells))
}

// AddHighlightedRow appends a row drawn with the change highlight
func (t *Table) AddHighlightedRow(cells []string) {
	if t.marked == nil {
		t.marked = make(map[int]bool)
	}
	t.marked[len(t.Rows)] = true
	t.AddRow(cells)
}

// IsHighlighted reports whether row idx was added with AddHighlightedRow
func (t *Table) IsHighlighted(idx int) bool {
	return t.marked[idx]
}

func (t *Table) fit(cells []string) []string {
	row := make([]string, len(t.Columns))
	for i := range row {
		if i >= len(cells) {
			break
		}
		row[i] = cells[i]
		if limit := t.Columns[i].MaxWidth; limit > 0 {
			row[i] = Truncate(row[i], limit)
		}
	}
	return row
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = max(col.Width, lipgloss.Width(col.Header))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	return widths
}

// Render draws the header, a rule and the rows
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}
	widths := t.widths()

	line := func(cells []string, align func(i int) Align) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = pad(c, widths[i], align(i))
		}
		return strings.Join(parts, cellGap)
	}

	var b strings.Builder

	headers := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
		rule[i] = strings.Repeat("─", widths[i])
	}
	b.WriteString(StyleTableHeader.Render(line(headers, func(int) Align { return AlignLeft })))
	b.WriteString("\n")
	b.WriteString(StyleTableBorder.Render(strings.Join(rule, cellGap)))
	b.WriteString("\n")

	for idx, row := range t.Rows {
		style := StyleTableRow
		switch {
		case t.marked[idx]:
			style = StyleHighlight
		case idx%2 == 1:
			style = StyleTableRowAlt
		}
		b.WriteString(style.Render(line(row, func(i int) Align { return t.Columns[i].Align })))
		b.WriteString("\n")
	}
	return b.String()
}

// pad fills s to width display cells
func pad(s string, width int, align Align) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// Truncate shortens s to at most n runes, ending with "..." when there is room
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", StyleAccent.Render(key), value)
}
