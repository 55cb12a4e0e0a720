package docfetch

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewTable_Header(t *testing.T) {
	tbl, ok := newTable(3, 2, [][]string{{"Year", "Value"}, {"2023", "1.5"}})
	require.True(t, ok)
	require.Equal(t, []string{"Year", "Value"}, tbl.Header)
	require.Equal(t, []string{"Year", "Value"}, tbl.Columns())
	require.Equal(t, [][]string{{"2023", "1.5"}}, tbl.Rows)

	_, ok = newTable(1, 1, nil)
	require.False(t, ok)
}

func TestNewTable_AnonymousHeader(t *testing.T) {
	// WHAT: An all-empty first row is dropped and columns are named by position.
	// WHY: The first row is never data, even when it is blank.
	tbl, ok := newTable(1, 1, [][]string{{"", ""}, {"a", "b"}, {"c", "d"}})
	require.True(t, ok)
	require.Nil(t, tbl.Header)
	require.Equal(t, []string{"0", "1"}, tbl.Columns())
	require.Len(t, tbl.Rows, 2)
}

func TestExtraction_Text(t *testing.T) {
	rule := strings.Repeat("=", 50)
	ext := &Extraction{Pages: []Page{{1, "first"}, {3, "third"}}}
	want := "Page 1:\nfirst\n" + rule + "\nPage 3:\nthird\n" + rule
	require.Equal(t, want, ext.Text())
	require.Empty(t, (&Extraction{}).Text())
}

func TestExtraction_Grid(t *testing.T) {
	ext := &Extraction{Tables: []Table{
		{Page: 1, Index: 1, Header: []string{"Name", "Amount"}, Rows: [][]string{{"a", "1"}, {"b", "2"}}},
		{Page: 1, Index: 2, Rows: [][]string{{"x", "y", "z"}}},
		{Page: 4, Index: 1, Header: []string{"Amount", "Rate", "Rate"}, Rows: [][]string{{"3", "0.1", "0.2"}}},
	}}

	header, rows := ext.Grid()
	wantHeader := []string{"Name", "Amount", "0", "1", "2", "Rate", "Rate", "Page", "Table"}
	wantRows := [][]string{
		{"a", "1", "", "", "", "", "", "1", "1"},
		{"b", "2", "", "", "", "", "", "1", "1"},
		{"", "", "x", "y", "z", "", "", "1", "2"},
		{"", "3", "", "", "", "0.1", "0.2", "4", "1"},
	}
	if diff := cmp.Diff(wantHeader, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtraction_GridProvenanceHeaders(t *testing.T) {
	// WHAT: A table header named Page or Table shares the provenance column.
	// WHY: The grid must never carry two columns with the same name.
	ext := &Extraction{Tables: []Table{
		{Page: 2, Index: 1, Header: []string{"Page", "Title"}, Rows: [][]string{{"17", "Intro"}}},
		{Page: 5, Index: 3, Header: []string{"Table", "Total"}, Rows: [][]string{{"A-1", "9"}}},
	}}

	header, rows := ext.Grid()
	wantHeader := []string{"Title", "Total", "Page", "Table"}
	wantRows := [][]string{
		{"Intro", "", "2", "1"},
		{"", "9", "5", "3"},
	}
	if diff := cmp.Diff(wantHeader, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtraction_GridPreservesRowCount(t *testing.T) {
	// WHAT: Concatenation emits one grid row per table data row.
	// WHY: Rows must never be merged or dropped when tables disagree on columns.
	ext := &Extraction{}
	for i := range 7 {
		rows := make([][]string, i)
		for j := range rows {
			rows[j] = []string{"v", strings.Repeat("w", j)}
		}
		header := []string{"h" + strings.Repeat("x", i%3), "k"}
		if i%2 == 0 {
			header = nil
		}
		ext.Tables = append(ext.Tables, Table{Page: i + 1, Index: 1, Header: header, Rows: rows})
	}
	header, rows := ext.Grid()
	require.Len(t, rows, ext.TableRows())
	require.Equal(t, 21, len(rows))
	for _, r := range rows {
		require.Len(t, r, len(header))
	}
	require.Equal(t, []string{"Page", "Table"}, header[len(header)-2:])
}
