// CLAUDE:SUMMARY Extraction model: pages, tables, the text block rendering and the concatenated table grid.
package docfetch

import (
	"strconv"
	"strings"
)

// Page is the text of one PDF page. Pages without text are not recorded.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Table is one table found on a page. Header is nil when the first row had
// no non-empty cell; columns are then named by position.
type Table struct {
	Page   int        `json:"page"`
	Index  int        `json:"index"` // 1-based within the page
	Header []string   `json:"header,omitempty"`
	Rows   [][]string `json:"rows"`
}

// newTable turns raw rows into a Table. The first row is always consumed:
// as the header when any cell is non-empty, otherwise discarded in favour
// of positional column names.
func newTable(page, index int, raw [][]string) (Table, bool) {
	if len(raw) == 0 {
		return Table{}, false
	}
	t := Table{Page: page, Index: index, Rows: raw[1:]}
	for _, cell := range raw[0] {
		if cell != "" {
			t.Header = raw[0]
			break
		}
	}
	return t, true
}

// Columns returns the column names of the table.
func (t Table) Columns() []string {
	if t.Header != nil {
		return t.Header
	}
	width := 0
	for _, r := range t.Rows {
		width = max(width, len(r))
	}
	cols := make([]string, width)
	for i := range cols {
		cols[i] = strconv.Itoa(i)
	}
	return cols
}

// Extraction is everything pulled out of one document, before persistence.
type Extraction struct {
	PageCount int     `json:"page_count"`
	Pages     []Page  `json:"pages"`
	Tables    []Table `json:"tables"`
}

const pageRule = "=================================================="

// Text renders the page blocks: "Page N:\n<text>\n" followed by a rule of
// fifty '=', blocks joined by a newline. Empty when no page had text.
func (e *Extraction) Text() string {
	blocks := make([]string, 0, len(e.Pages))
	for _, p := range e.Pages {
		blocks = append(blocks, "Page "+strconv.Itoa(p.Number)+":\n"+p.Text+"\n"+pageRule)
	}
	return strings.Join(blocks, "\n")
}

// Grid concatenates all tables into one grid. Columns are the union of the
// table column names in first-appearance order, followed by Page and Table.
// A name repeated inside one table occupies one column per repetition.
// A table column itself named Page or Table is the provenance column: its
// cells are replaced by the page number or table index.
// Every data row of every table yields exactly one grid row; cells a table
// does not have are empty.
func (e *Extraction) Grid() (header []string, rows [][]string) {
	type column struct {
		name string
		nth  int
	}
	var cols []column
	pos := map[column]int{}
	mappings := make([][]int, len(e.Tables))
	for ti, t := range e.Tables {
		seen := map[string]int{}
		names := t.Columns()
		m := make([]int, len(names))
		for ci, name := range names {
			if name == "Page" || name == "Table" {
				m[ci] = -1
				continue
			}
			c := column{name: name, nth: seen[name]}
			seen[name]++
			j, ok := pos[c]
			if !ok {
				j = len(cols)
				pos[c] = j
				cols = append(cols, c)
			}
			m[ci] = j
		}
		mappings[ti] = m
	}

	header = make([]string, 0, len(cols)+2)
	for _, c := range cols {
		header = append(header, c.name)
	}
	header = append(header, "Page", "Table")

	for ti, t := range e.Tables {
		m := mappings[ti]
		for _, r := range t.Rows {
			row := make([]string, len(header))
			for ci, cell := range r {
				if ci < len(m) && m[ci] >= 0 {
					row[m[ci]] = cell
				}
			}
			row[len(cols)] = strconv.Itoa(t.Page)
			row[len(cols)+1] = strconv.Itoa(t.Index)
			rows = append(rows, row)
		}
	}
	return header, rows
}

// TableRows counts data rows across all tables.
func (e *Extraction) TableRows() int {
	n := 0
	for _, t := range e.Tables {
		n += len(t.Rows)
	}
	return n
}
