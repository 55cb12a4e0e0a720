// CLAUDE:SUMMARY Document retriever: fetch, extract, persist per URL, and the ordered batch over a URL list.
// CLAUDE:DEPENDS fetch, batch, docfetch/pdf.go, docfetch/persist.go
// CLAUDE:EXPORTS Retriever, New, Report
// Package docfetch downloads PDF documents and dumps their text and tables.
//
// Each URL is handled in two stages joined by an Extraction: the pure
// extraction stage (ExtractPDF) and the persistence stage (Persist).
//
// Usage:
//
//	r := docfetch.New(docfetch.Config{OutputDir: "pdf_dumps"})
//	if err := r.Prepare(); err != nil { ... }
//	for o := range r.Run(ctx, urls) { ... }
package docfetch

import (
	"context"
	"fmt"
	"iter"
	"os"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/fetch"
)

// Report summarises one processed document.
type Report struct {
	URL       string `json:"url"`
	Base      string `json:"base"`
	Hash      string `json:"sha256"`
	PageCount int    `json:"page_count"`
	TextPages int    `json:"text_pages"`
	Tables    int    `json:"tables"`
	TableRows int    `json:"table_rows"`
	Artifacts
}

// Retriever runs the document flow.
type Retriever struct {
	cfg     Config
	fetcher *fetch.Fetcher
}

// New creates a Retriever.
func New(cfg Config) *Retriever {
	cfg.defaults()
	return &Retriever{
		cfg: cfg,
		fetcher: fetch.New(fetch.Config{
			Timeout:      cfg.Timeout,
			MaxBytes:     cfg.MaxBytes,
			UserAgent:    cfg.UserAgent,
			URLValidator: cfg.URLValidator,
		}),
	}
}

// OutputDir returns the directory artifacts are written to.
func (r *Retriever) OutputDir() string { return r.cfg.OutputDir }

// Prepare creates the output directory. Errors wrap batch.ErrIO.
func (r *Retriever) Prepare() error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("%w: create output dir %s: %w", batch.ErrIO, r.cfg.OutputDir, err)
	}
	return nil
}

// Process downloads one document, extracts it and writes its artifacts.
func (r *Retriever) Process(ctx context.Context, url string) (*Report, error) {
	log := r.cfg.Logger.With("url", url)
	log.Info("processing document")

	res, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("skipping document, fetch failed", "error", err)
		return nil, err
	}

	ext, err := r.cfg.Layout.Extract(res.Body)
	if err != nil {
		log.Warn("error parsing document", "error", err)
		return nil, err
	}

	if err := r.Prepare(); err != nil {
		return nil, err
	}
	base := BaseName(url)
	arts, err := Persist(ext, r.cfg.OutputDir, base, r.cfg.TablesFormat)
	if err != nil {
		log.Error("write artifacts", "error", err)
		return nil, err
	}

	if arts.TextPath != "" {
		log.Info("dumped text", "path", arts.TextPath, "pages", len(ext.Pages))
	}
	if arts.TablesPath != "" {
		log.Info("dumped tables", "path", arts.TablesPath, "tables", len(ext.Tables), "rows", ext.TableRows())
	} else {
		log.Info("no tables found")
	}

	return &Report{
		URL:       url,
		Base:      base,
		Hash:      res.Hash,
		PageCount: ext.PageCount,
		TextPages: len(ext.Pages),
		Tables:    len(ext.Tables),
		TableRows: ext.TableRows(),
		Artifacts: arts,
	}, nil
}

// Run processes urls in order, one outcome per URL.
func (r *Retriever) Run(ctx context.Context, urls []string) iter.Seq[batch.Outcome[*Report]] {
	return batch.Run(ctx, urls, r.Process)
}

// RunAll is Run collected into a slice.
func (r *Retriever) RunAll(ctx context.Context, urls []string) []batch.Outcome[*Report] {
	return batch.Collect(r.Run(ctx, urls))
}
