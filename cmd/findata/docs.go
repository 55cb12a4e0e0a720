package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/findata/docfetch"
	"github.com/hazyhaar/findata/ledger"
)

func (a *app) docsCmd() *cobra.Command {
	var (
		urlsFile string
		outDir   string
		timeout  time.Duration
		format   string
	)
	cmd := &cobra.Command{
		Use:   "docs [urls...]",
		Short: "Download PDF documents and dump their text and tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			dc := a.cfg.Documents
			urls, err := collectURLs(args, urlsFile, dc.URLs)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("out") {
				dc.OutputDir = outDir
			}
			if flags.Changed("timeout") {
				if timeout <= 0 {
					return fmt.Errorf("--timeout must be > 0")
				}
				dc.Timeout = timeout
			}
			if flags.Changed("tables-format") {
				dc.TablesFormat = docfetch.TablesFormat(format)
				if !dc.TablesFormat.Valid() {
					return fmt.Errorf("--tables-format %q unsupported (use csv or xlsx)", format)
				}
			}
			dc.Logger = a.logger
			return a.runDocs(cmd.Context(), docfetch.New(dc.Config), urls)
		},
	}
	f := cmd.Flags()
	f.StringVar(&urlsFile, "urls-file", "", "file with one URL per line")
	f.StringVar(&outDir, "out", "", "output directory (default from configuration: pdf_dumps)")
	f.DurationVar(&timeout, "timeout", 0, "per-download timeout")
	f.StringVar(&format, "tables-format", "", "tables artifact format: csv or xlsx")
	return cmd
}

func (a *app) runDocs(ctx context.Context, r *docfetch.Retriever, urls []string) error {
	if err := r.Prepare(); err != nil {
		return environment(err)
	}
	l, run, err := a.beginRun(ctx, "docs")
	if err != nil {
		return err
	}
	if l != nil {
		defer l.Close()
	}

	rec := context.WithoutCancel(ctx)
	var n, failed int
	for o := range r.Run(ctx, urls) {
		n++
		if o.Failed() {
			failed++
		}
		ledger.RecordOutcome(rec, run, o)
	}
	run.Finish(rec)

	if failed > 0 {
		a.logger.Warn("document batch finished with failures", "failures", failed, "total", n)
	}
	fmt.Fprintf(a.stdout, "\nProcessed %d URLs. Check '%s' directory for output.\n", n, r.OutputDir())
	return nil
}

