package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"spx-gex/internal/logger"
	"spx-gex/internal/pipeline"
	"spx-gex/internal/trace"
)

const (
	exitFailure  = 1
	exitNotFound = 2

	flushTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, newRootCmd())
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gex:", err)
		os.Exit(exitCode(err))
	}
}

// execute runs cmd, then flushes logs and spans whatever the outcome.
// Cobra skips post-run hooks when a command fails, and failed runs are
// the ones worth tracing.
func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)

	fctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	logger.Sync()
	if serr := trace.Shutdown(fctx); serr != nil && err == nil {
		err = serr
	}
	return err
}

// exitCode tells a missing figure apart from every other failure so a
// scheduler can alert on it separately.
func exitCode(err error) int {
	if errors.Is(err, pipeline.ErrGammaNotFound) {
		return exitNotFound
	}
	return exitFailure
}
