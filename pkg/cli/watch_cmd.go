package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jlrickert/pickup/pkg/pickup"
)

func NewWatchCmd(deps *Deps) *cobra.Command {
	var flags syncFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "watch pickup.yaml and re-sync tracked packages on changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := deps.newPickup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() {
				_ = p.Close()
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for settings changes. Ctrl-C to stop.\n", p.Root)
			err = p.Watch(cmd.Context(), pickup.WatchOptions{Debounce: debounce})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond,
		"quiet period before a settings change triggers a sweep")
	bindSyncFlags(cmd, &flags)
	return cmd
}
