package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/pickup/pkg/pickup"
)

func NewAddCmd(deps *Deps) *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "add PACKAGE...",
		Short: "start tracking packages and download their artifacts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := deps.newPickup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() {
				_ = p.Close()
			}()

			var firstErr error
			for _, pkg := range args {
				err := p.Add(cmd.Context(), pickup.AddOptions{Package: pkg})
				switch {
				case err == nil:
				case errors.Is(err, pickup.ErrAlreadyTracked):
					fmt.Fprintf(cmd.OutOrStdout(),
						"%s is already tracked. Use 'pickup update' to refresh it.\n",
						pickup.NormalizeName(pkg))
				case errors.Is(err, pickup.ErrNotFoundRemote):
					fmt.Fprintf(cmd.OutOrStdout(),
						"%s does not exist in the remote index.\n",
						pickup.NormalizeName(pkg))
					if firstErr == nil {
						firstErr = err
					}
				default:
					if firstErr == nil {
						firstErr = err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
			}
			return firstErr
		},
	}

	bindSyncFlags(cmd, &flags)
	return cmd
}
