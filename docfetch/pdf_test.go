package docfetch

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/findata/batch"
)

// buildPDF assembles a valid PDF with one page per content stream.
func buildPDF(streams ...string) []byte {
	n := len(streams)
	fontObj := 3 + 2*n
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, fontObj+1)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for i := range streams {
		kids[i] = strconv.Itoa(3+2*i) + " 0 R"
	}
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [" + strings.Join(kids, " ") + "] /Count " + strconv.Itoa(n) + " >>\nendobj\n")

	for i, stream := range streams {
		page, content := 3+2*i, 4+2*i
		offsets[page] = b.Len()
		b.WriteString(strconv.Itoa(page) + " 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents " +
			strconv.Itoa(content) + " 0 R /Resources << /Font << /F1 " + strconv.Itoa(fontObj) + " 0 R >> >> >>\nendobj\n")
		offsets[content] = b.Len()
		b.WriteString(strconv.Itoa(content) + " 0 obj\n<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n")
		b.WriteString(stream)
		b.WriteString("\nendstream\nendobj\n")
	}

	offsets[fontObj] = b.Len()
	b.WriteString(strconv.Itoa(fontObj) + " 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 " + strconv.Itoa(fontObj+1) + "\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= fontObj; i++ {
		off := strconv.Itoa(offsets[i])
		b.WriteString(strings.Repeat("0", 10-len(off)) + off + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size " + strconv.Itoa(fontObj+1) + " /Root 1 0 R >>\nstartxref\n")
	b.WriteString(strconv.Itoa(xref))
	b.WriteString("\n%%EOF\n")
	return []byte(b.String())
}

func textStream(text string) string {
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "(", `\(`)
	escaped = strings.ReplaceAll(escaped, ")", `\)`)
	return "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"
}

// tableStream draws a caption line followed by a two-column table.
const tableStream = `BT
/F1 10 Tf
72 740 Td (Quarterly receipts) Tj
0 -40 Td (Name) Tj 150 0 Td (Amount) Tj
-150 -14 Td (Alpha) Tj 150 0 Td (100) Tj
-150 -14 Td (Beta) Tj 150 0 Td (200) Tj
ET`

func TestExtractPDF_HelloWorld(t *testing.T) {
	// WHAT: A one-page text PDF yields one page block and no tables.
	// WHY: Baseline for the text artifact format.
	ext, err := ExtractPDF(buildPDF(textStream("Hello World")))
	require.NoError(t, err)
	require.Equal(t, 1, ext.PageCount)
	require.Equal(t, []Page{{Number: 1, Text: "Hello World"}}, ext.Pages)
	require.Empty(t, ext.Tables)
	require.Equal(t, "Page 1:\nHello World\n"+strings.Repeat("=", 50), ext.Text())
}

func TestExtractPDF_TablePage(t *testing.T) {
	ext, err := ExtractPDF(buildPDF(tableStream))
	require.NoError(t, err)
	require.Len(t, ext.Tables, 1)

	tbl := ext.Tables[0]
	require.Equal(t, 1, tbl.Page)
	require.Equal(t, 1, tbl.Index)
	require.Equal(t, []string{"Name", "Amount"}, tbl.Header)
	require.Equal(t, [][]string{{"Alpha", "100"}, {"Beta", "200"}}, tbl.Rows)
	require.Equal(t, "Quarterly receipts\nName Amount\nAlpha 100\nBeta 200", ext.Pages[0].Text)
}

// kernedTableStream positions its columns with TJ kerning instead of Td.
const kernedTableStream = `BT
/F1 12 Tf
72 720 Td [(Name) -12000 (Amount)] TJ
0 -16 Td [(Alpha) -12000 (100)] TJ
0 -16 Td [(Beta) -12000 (200)] TJ
ET`

func TestExtractPDF_KernedTable(t *testing.T) {
	// WHAT: Columns separated by large TJ adjustments still form a table.
	// WHY: Many generators emit a whole table row as one TJ array.
	ext, err := ExtractPDF(buildPDF(kernedTableStream))
	require.NoError(t, err)
	require.Len(t, ext.Tables, 1)
	require.Equal(t, []string{"Name", "Amount"}, ext.Tables[0].Header)
	require.Equal(t, [][]string{{"Alpha", "100"}, {"Beta", "200"}}, ext.Tables[0].Rows)
	require.Equal(t, "Name Amount\nAlpha 100\nBeta 200", ext.Pages[0].Text)
}

func TestExtractPDF_KernedWordsStayInOneCell(t *testing.T) {
	ext, err := ExtractPDF(buildPDF("BT /F1 12 Tf 72 720 Td [(Hello) -250 (World)] TJ ET"))
	require.NoError(t, err)
	require.Equal(t, []Page{{Number: 1, Text: "Hello World"}}, ext.Pages)
	require.Empty(t, ext.Tables)
}

func TestExtractPDF_SkipsEmptyPages(t *testing.T) {
	// WHAT: Pages without text get no block but keep their numbering.
	ext, err := ExtractPDF(buildPDF("", textStream("second")))
	require.NoError(t, err)
	require.Equal(t, 2, ext.PageCount)
	require.Equal(t, []Page{{Number: 2, Text: "second"}}, ext.Pages)
	require.True(t, strings.HasPrefix(ext.Text(), "Page 2:\n"))
}

func TestExtractPDF_NotAPDF(t *testing.T) {
	_, err := ExtractPDF([]byte("<html>not a pdf</html>"))
	require.ErrorIs(t, err, batch.ErrParse)
}
