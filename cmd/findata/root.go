package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/findata/config"
	"github.com/hazyhaar/findata/ledger"
)

type app struct {
	stdout, stderr io.Writer

	configPath string
	envFile    string
	logLevel   string
	ledgerPath string

	cfg    *config.Config
	logger *slog.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "findata",
		Short:         "Batch retrieval of financial documents, web pages and statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.ledgerPath, "ledger", "", "SQLite run ledger path (empty disables it)")

	root.AddCommand(
		a.docsCmd(),
		a.pagesCmd(),
		a.indicatorsCmd(),
		a.runsCmd(),
		a.mcpCmd(),
	)
	return root
}

// setup resolves the configuration: file, then environment, then flags.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if err := config.LoadEnv(a.envFile, flags.Changed("env-file")); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("ledger") {
		cfg.Ledger.Path = a.ledgerPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)

	a.cfg = cfg
	a.logger = slog.New(tint.NewHandler(a.stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(a.stderr),
	}))
	return nil
}

// openLedger returns nil when no ledger is configured.
func (a *app) openLedger() (*ledger.Ledger, error) {
	if a.cfg.Ledger.Path == "" {
		return nil, nil
	}
	l, err := ledger.Open(a.cfg.Ledger.Path, ledger.WithLogger(a.logger))
	if err != nil {
		return nil, environment(err)
	}
	return l, nil
}

// beginRun starts a ledger run for flow. Both return values may be nil.
// Ledger writes use a context that survives cancellation so the partial
// run is still recorded after SIGINT.
func (a *app) beginRun(ctx context.Context, flow string) (*ledger.Ledger, *ledger.Run, error) {
	l, err := a.openLedger()
	if err != nil || l == nil {
		return nil, nil, err
	}
	run, err := l.BeginRun(context.WithoutCancel(ctx), flow)
	if err != nil {
		l.Close()
		return nil, nil, environment(err)
	}
	a.logger.Debug("ledger run started", "run_id", run.ID, "flow", flow)
	return l, run, nil
}

// collectURLs merges positional arguments and an optional file with one
// URL per line (blank lines and # comments skipped). When both are empty
// the configured list is used.
func collectURLs(args []string, file string, configured []string) ([]string, error) {
	urls := append([]string(nil), args...)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("read urls: %w", err)
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			urls = append(urls, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read urls %s: %w", file, err)
		}
	}
	if len(urls) == 0 {
		urls = configured
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs given (arguments, --urls-file or configuration)")
	}
	return urls, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}
