package cliutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	timeoutCancel   context.CancelFunc
	timeoutDuration time.Duration
	traceCleanup    func()
)

// ApplyTimeout reads the --timeout flag, bounds the command's context to it,
// and wires up tracing. Intended as a PersistentPreRunE so every subcommand
// gets the same deadline-and-tracing lifecycle, per cmd/surge/main.go's
// applyTimeout.
func ApplyTimeout(tool string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
		if err != nil {
			return fmt.Errorf("failed to read timeout flag: %w", err)
		}
		if secs <= 0 {
			return fmt.Errorf("timeout must be greater than zero")
		}

		timeoutDuration = time.Duration(secs) * time.Second
		ctx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
		timeoutCancel = cancel

		cmd.SetContext(ctx)
		cmd.Root().SetContext(ctx)

		go func() {
			<-ctx.Done()
			if ctx.Err() == context.DeadlineExceeded {
				fmt.Fprintf(os.Stderr, "%s: command timed out after %s\n", tool, timeoutDuration)
				os.Exit(1)
			}
		}()

		cleanup, err := setupTracing(cmd, tool)
		if err != nil {
			return fmt.Errorf("failed to setup tracing: %w", err)
		}
		traceCleanup = cleanup

		return nil
	}
}

// CleanupTimeout cancels the timeout context and tears down tracing.
// Intended as a PersistentPostRun.
func CleanupTimeout(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}
