package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/findata/ledger"
	"github.com/hazyhaar/findata/pagescrape"
)

func (a *app) pagesCmd() *cobra.Command {
	var (
		urlsFile string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "pages [urls...]",
		Short: "Scrape web pages for contacts, reports, tables and personnel",
		RunE: func(cmd *cobra.Command, args []string) error {
			pc := a.cfg.Pages
			urls, err := collectURLs(args, urlsFile, pc.URLs)
			if err != nil {
				return err
			}
			pc.Logger = a.logger
			return a.runPages(cmd.Context(), pagescrape.New(pc.Config), urls, asJSON)
		},
	}
	cmd.Flags().StringVar(&urlsFile, "urls-file", "", "file with one URL per line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as a JSON array")
	return cmd
}

func (a *app) runPages(ctx context.Context, s *pagescrape.Scraper, urls []string, asJSON bool) error {
	l, run, err := a.beginRun(ctx, "pages")
	if err != nil {
		return err
	}
	if l != nil {
		defer l.Close()
	}

	rec := context.WithoutCancel(ctx)
	entries := make([]pagescrape.Entry, 0, len(urls))
	for o := range s.Run(ctx, urls) {
		entries = append(entries, pagescrape.NewEntry(o))
		ledger.RecordOutcome(rec, run, o)
	}
	run.Finish(rec)

	if asJSON {
		return pagescrape.PrintJSON(a.stdout, entries)
	}
	return pagescrape.Print(a.stdout, entries)
}
