// CLAUDE:SUMMARY PDF extraction stage: pdfcpu opens the document, each page content stream is interpreted into lines, text and tables.
// CLAUDE:DEPENDS docfetch/content.go, docfetch/layout.go
// CLAUDE:EXPORTS ExtractPDF, Layout.Extract
package docfetch

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/hazyhaar/findata/batch"
)

var disableConfigDir sync.Once

// ExtractPDF extracts page text and tables with the default layout.
func ExtractPDF(data []byte) (*Extraction, error) {
	return Layout{}.Extract(data)
}

// Extract parses data as a PDF and walks its pages in order.
// The returned error wraps batch.ErrParse.
func (l Layout) Extract(data []byte) (*Extraction, error) {
	l.defaults()
	// pdfcpu otherwise creates a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: pdfcpu read: %w", batch.ErrParse, err)
	}

	ext := &Extraction{PageCount: ctx.PageCount}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		lines := l.lines(interpretContent(pageContent(ctx, pageNr)))
		if text := pageText(lines); text != "" {
			ext.Pages = append(ext.Pages, Page{Number: pageNr, Text: text})
		}
		ext.Tables = append(ext.Tables, l.tables(pageNr, lines)...)
	}
	return ext, nil
}

// pageContent returns the decoded content stream of one page, or nil for
// pages without content.
func pageContent(ctx *model.Context, pageNr int) []byte {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil
	}
	return data
}
