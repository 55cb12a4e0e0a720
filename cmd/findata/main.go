// CLAUDE:SUMMARY findata entry point: signal context, cobra dispatch, exit codes (0 ok, 1 usage/config, 2 environment).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newApp(stdout, stderr).rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "findata:", err)
	var env *envError
	if errors.As(err, &env) {
		return 2
	}
	return 1
}

// envError marks failures of the environment (output directory, ledger,
// network) as opposed to usage or configuration mistakes.
type envError struct{ err error }

func (e *envError) Error() string { return e.err.Error() }
func (e *envError) Unwrap() error { return e.err }

func environment(err error) error {
	if err == nil {
		return nil
	}
	return &envError{err: err}
}
