// CLAUDE:SUMMARY Groups text runs into baseline-ordered lines and cells, and detects tables as runs of aligned multi-cell lines.
package docfetch

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Layout holds the geometry thresholds used to rebuild lines and tables.
type Layout struct {
	// CellGap is the horizontal gap, as a multiple of the font size, that
	// separates two cells on a line. Default: 1.5.
	CellGap float64 `yaml:"cell_gap" json:"cell_gap"`
	// MinCellGap is the smallest cell gap in points. Default: 12.
	MinCellGap float64 `yaml:"min_cell_gap" json:"min_cell_gap"`
	// MinRows is the number of aligned lines needed to call them a table
	// (header included). Default: 2.
	MinRows int `yaml:"min_rows" json:"min_rows"`
}

func (l *Layout) defaults() {
	if l.CellGap <= 0 {
		l.CellGap = 1.5
	}
	if l.MinCellGap <= 0 {
		l.MinCellGap = 12
	}
	if l.MinRows < 2 {
		l.MinRows = 2
	}
}

type line struct {
	y     float64
	size  float64
	cells []string
}

func (l line) text() string {
	return strings.Join(l.cells, " ")
}

// lines orders runs top to bottom, then left to right, and splits each
// baseline into cells.
func (l Layout) lines(runs []run) []line {
	if len(runs) == 0 {
		return nil
	}
	sorted := slices.Clone(runs)
	slices.SortStableFunc(sorted, func(a, b run) int { return cmp.Compare(b.Y, a.Y) })

	var out []line
	var cur []run
	flush := func() {
		if len(cur) == 0 {
			return
		}
		slices.SortStableFunc(cur, func(a, b run) int { return cmp.Compare(a.X, b.X) })
		if ln, ok := l.cellsOf(cur); ok {
			out = append(out, ln)
		}
		cur = nil
	}
	for _, r := range sorted {
		if len(cur) > 0 {
			tol := math.Max(2, 0.3*math.Max(cur[0].Size, r.Size))
			if math.Abs(cur[0].Y-r.Y) > tol {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

func (l Layout) cellsOf(runs []run) (line, bool) {
	ln := line{y: runs[0].Y}
	var cell strings.Builder
	prevEnd := math.Inf(-1)
	for _, r := range runs {
		ln.size = math.Max(ln.size, r.Size)
		gap := r.X - prevEnd
		switch {
		case cell.Len() == 0:
		case gap > math.Max(l.MinCellGap, l.CellGap*r.Size):
			ln.cells = appendCell(ln.cells, cell.String())
			cell.Reset()
		case gap > 0.1*r.Size && !strings.HasSuffix(cell.String(), " ") && !strings.HasPrefix(r.Text, " "):
			cell.WriteByte(' ')
		}
		cell.WriteString(r.Text)
		prevEnd = math.Max(prevEnd, r.EndX)
	}
	ln.cells = appendCell(ln.cells, cell.String())
	if len(ln.cells) == 0 {
		return line{}, false
	}
	return ln, true
}

func appendCell(cells []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return cells
	}
	return append(cells, s)
}

// pageText joins lines with newlines.
func pageText(lines []line) string {
	parts := make([]string, len(lines))
	for i, ln := range lines {
		parts[i] = ln.text()
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// tables returns the tables on one page: maximal groups of consecutive
// lines with the same cell count (at least two cells each) and at least
// MinRows lines.
func (l Layout) tables(page int, lines []line) []Table {
	var out []Table
	var group [][]string
	flush := func() {
		if len(group) >= l.MinRows {
			if t, ok := newTable(page, len(out)+1, group); ok {
				out = append(out, t)
			}
		}
		group = nil
	}
	for _, ln := range lines {
		if len(ln.cells) < 2 {
			flush()
			continue
		}
		if len(group) > 0 && len(group[0]) != len(ln.cells) {
			flush()
		}
		group = append(group, ln.cells)
	}
	flush()
	return out
}
