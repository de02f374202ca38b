// Package cli wires the pickup commands together with cobra.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// Run executes the CLI with args and returns the process exit code. The
// command tree reads and writes through the runtime's streams so tests can
// capture output.
func Run(ctx context.Context, rt *toolkit.Runtime, args []string) (int, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream := rt.Stream()
	cmd := NewRootCmd(&Deps{Runtime: rt})
	cmd.SetArgs(args)
	cmd.SetIn(stream.In)
	cmd.SetOut(stream.Out)
	cmd.SetErr(stream.Err)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return 130, err
		}
		return 1, err
	}
	return 0, nil
}
