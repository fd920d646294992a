package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. A positive maxWidth truncates longer cells.
type column struct {
	title    string
	right    bool
	maxWidth int
}

// table lays out plain-text rows in aligned columns, measuring display width
// so wide runes in quote authors do not skew the layout.
type table struct {
	columns []column
	rows    [][]string
}

func newTable(columns ...column) *table {
	return &table{columns: columns}
}

func (t *table) add(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = t.fit(i, cells[i])
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) fit(col int, cell string) string {
	limit := t.columns[col].maxWidth
	if limit <= 0 || runewidth.StringWidth(cell) <= limit {
		return cell
	}
	return runewidth.Truncate(cell, limit, "…")
}

func (t *table) hasHeader() bool {
	for _, c := range t.columns {
		if c.title != "" {
			return true
		}
	}
	return false
}

func (t *table) lines() []string {
	if len(t.columns) == 0 {
		return nil
	}
	header := t.hasHeader()
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		if header {
			widths[i] = runewidth.StringWidth(c.title)
		}
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	out := make([]string, 0, len(t.rows)+1)
	if header {
		titles := make([]string, len(t.columns))
		for i, c := range t.columns {
			titles[i] = c.title
		}
		out = append(out, t.formatRow(titles, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.formatRow(row, widths))
	}
	return out
}

func (t *table) formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i, cell := range row {
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := strings.Repeat(" ", max(0, widths[i]-runewidth.StringWidth(cell)))
		if t.columns[i].right {
			b.WriteString(pad + cell)
		} else {
			b.WriteString(cell + pad)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// write prints the table under title followed by a blank line.
func (t *table) write(w io.Writer, title string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
