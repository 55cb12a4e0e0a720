package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/findata/indicator"
)

func (a *app) indicatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "Query the World Bank statistics API",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "countries",
		Short: "List countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printIndicator(cmd.Context(), "countries", func(ctx context.Context, c *indicator.Client) (any, error) {
				return c.Countries(ctx)
			})
		},
	}, &cobra.Command{
		Use:     "series <country> <indicator>",
		Short:   "Fetch one indicator series for one country",
		Example: "  findata indicators series USA NY.GDP.MKTP.CD",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printIndicator(cmd.Context(), "series", func(ctx context.Context, c *indicator.Client) (any, error) {
				return c.Series(ctx, args[0], args[1])
			})
		},
	})
	return cmd
}

// printIndicator writes the JSON answer to stdout. An absent result (non-200)
// prints nothing and still exits 0; the client has already logged the status.
func (a *app) printIndicator(ctx context.Context, what string, call func(context.Context, *indicator.Client) (any, error)) error {
	ic := a.cfg.Indicators
	ic.Logger = a.logger
	data, err := call(ctx, indicator.New(ic))
	if err != nil {
		if errors.Is(err, indicator.ErrInvalidCode) {
			return err
		}
		return environment(fmt.Errorf("indicator %s: %w", what, err))
	}
	if data == nil {
		a.logger.Warn("no indicator data available", "request", what)
		return nil
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
