// CLAUDE:SUMMARY Persistence stage: writes <base>_text.txt and the concatenated table grid as CSV or XLSX.
package docfetch

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/horosafe"
)

// TablesFormat selects the table artifact encoding.
type TablesFormat string

const (
	FormatCSV  TablesFormat = "csv"
	FormatXLSX TablesFormat = "xlsx"
)

// Valid reports whether f is a known format. The empty format means CSV.
func (f TablesFormat) Valid() bool {
	return f == "" || f == FormatCSV || f == FormatXLSX
}

// Artifacts lists the files written for one document. Empty paths mean the
// artifact was not written.
type Artifacts struct {
	TextPath   string `json:"text_path,omitempty"`
	TablesPath string `json:"tables_path,omitempty"`
}

// Persist writes the artifacts of ext under dir. The text file is written
// only when some page had text, the tables file only when some table was
// found. Errors wrap batch.ErrIO.
func Persist(ext *Extraction, dir, base string, format TablesFormat) (Artifacts, error) {
	var a Artifacts
	if len(ext.Pages) > 0 {
		p, err := horosafe.SafePath(dir, base+"_text.txt")
		if err != nil {
			return a, fmt.Errorf("%w: %w", batch.ErrIO, err)
		}
		if err := os.WriteFile(p, []byte(ext.Text()), 0o644); err != nil {
			return a, fmt.Errorf("%w: write text: %w", batch.ErrIO, err)
		}
		a.TextPath = p
	}

	if len(ext.Tables) == 0 {
		return a, nil
	}
	header, rows := ext.Grid()
	var (
		p   string
		err error
	)
	switch format {
	case FormatXLSX:
		p, err = horosafe.SafePath(dir, base+"_tables.xlsx")
		if err == nil {
			err = writeXLSX(p, header, rows)
		}
	default:
		p, err = horosafe.SafePath(dir, base+"_tables.csv")
		if err == nil {
			err = writeCSV(p, header, rows)
		}
	}
	if err != nil {
		return a, fmt.Errorf("%w: write tables: %w", batch.ErrIO, err)
	}
	a.TablesPath = p
	return a, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const tablesSheet = "Tables"

func writeXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", tablesSheet); err != nil {
		return err
	}
	write := func(rowNr int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNr)
		if err != nil {
			return err
		}
		vals := make([]any, len(cells))
		for i, c := range cells {
			vals[i] = c
		}
		return f.SetSheetRow(tablesSheet, cell, &vals)
	}
	if err := write(1, header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := write(i+2, r); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
