package main

import (
	"errors"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (a *app) runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show the run ledger, or the items of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Ledger.Path == "" {
				return errors.New("no ledger configured (--ledger, FINDATA_LEDGER or ledger.path)")
			}
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Close()

			t := a.newTable()
			if len(args) == 1 {
				items, err := l.Items(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				t.AppendHeader(table.Row{"#", "URL", "OK", "Kind", "Error"})
				for _, it := range items {
					t.AppendRow(table.Row{it.Index, it.Key, it.OK, it.ErrorKind, it.Error})
				}
				t.Render()
				return nil
			}

			runs, err := l.Runs(cmd.Context(), limit)
			if err != nil {
				return environment(err)
			}
			t.AppendHeader(table.Row{"Run", "Flow", "Started", "Duration", "Items", "Failures"})
			for _, r := range runs {
				dur := "running"
				if r.FinishedAt != nil {
					dur = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
				}
				t.AppendRow(table.Row{r.ID, r.Flow, r.StartedAt.Format(time.DateTime), dur, r.Items, r.Failures})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}

func (a *app) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(a.stdout)
	return t
}
