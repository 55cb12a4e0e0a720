// CLAUDE:SUMMARY Page scraper: one GET per URL, charset-aware HTML parse, rule extraction, ordered batch with nil results for failures.
// CLAUDE:DEPENDS fetch, batch, pagescrape/rules.go
// CLAUDE:EXPORTS Scraper, New, Parse
// Package pagescrape pulls loosely categorized content out of single web pages.
package pagescrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/fetch"
)

// Scraper runs the page flow.
type Scraper struct {
	cfg     Config
	fetcher *fetch.Fetcher
}

// New creates a Scraper.
func New(cfg Config) *Scraper {
	cfg.defaults()
	return &Scraper{
		cfg: cfg,
		fetcher: fetch.New(fetch.Config{
			Timeout:      cfg.Timeout,
			MaxBytes:     cfg.MaxBytes,
			UserAgent:    cfg.UserAgent,
			URLValidator: cfg.URLValidator,
		}),
	}
}

// Parse decodes r according to the charset announced in contentType (or
// sniffed from the markup) and parses it as HTML. Errors wrap batch.ErrParse.
func Parse(r io.Reader, contentType string) (*goquery.Document, error) {
	utf8, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: decode charset: %w", batch.ErrParse, err)
	}
	doc, err := goquery.NewDocumentFromReader(utf8)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", batch.ErrParse, err)
	}
	return doc, nil
}

// Scrape fetches one page and extracts its categories.
func (s *Scraper) Scrape(ctx context.Context, url string) (*Result, error) {
	s.cfg.Logger.Info("scraping page", "url", url)
	res, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(bytes.NewReader(res.Body), res.ContentType)
	if err != nil {
		return nil, err
	}
	return s.cfg.Rules.Extract(doc), nil
}

// Run scrapes urls in order, one outcome per URL. Duplicate URLs are
// scraped again and reported again.
func (s *Scraper) Run(ctx context.Context, urls []string) iter.Seq[batch.Outcome[*Result]] {
	return func(yield func(batch.Outcome[*Result]) bool) {
		for o := range batch.Run(ctx, urls, s.Scrape) {
			if o.Failed() {
				s.cfg.Logger.Warn("error scraping page", "url", o.Key, "kind", batch.Kind(o.Err), "error", o.Err)
			}
			if !yield(o) {
				return
			}
		}
	}
}

// ScrapeAll runs the batch and returns the ordered entries.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []Entry {
	var out []Entry
	for o := range s.Run(ctx, urls) {
		out = append(out, NewEntry(o))
	}
	return out
}

// NewEntry converts an outcome into its printable entry.
func NewEntry(o batch.Outcome[*Result]) Entry {
	e := Entry{URL: o.Key, Result: o.Value}
	if o.Err != nil {
		e.Result = nil
		e.Kind = batch.Kind(o.Err)
		e.Error = o.Err.Error()
	}
	return e
}
