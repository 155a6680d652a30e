package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// table lays out rows in columns sized to their widest cell.
type table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) lines() []string {
	cols := len(t.headers)
	for _, row := range t.rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	out := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		out = append(out, t.format(t.headers, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.format(row, widths))
	}
	return out
}

func (t *table) format(row []string, widths []int) string {
	var b strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		if t.right[i] {
			b.WriteString(runewidth.FillLeft(cell, w))
		} else if i < len(widths)-1 {
			b.WriteString(runewidth.FillRight(cell, w))
		} else {
			b.WriteString(cell)
		}
	}
	return b.String()
}

func (t *table) String() string {
	return strings.Join(t.lines(), "\n") + "\n"
}
