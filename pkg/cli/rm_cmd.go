package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/pickup/pkg/pickup"
)

func NewRemoveCmd(deps *Deps) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "rm PACKAGE...",
		Short:   "stop tracking packages and delete their files",
		Aliases: []string{"remove"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := deps.newPickup(cmd, syncFlags{dryRun: dryRun, retries: 1})
			if err != nil {
				return err
			}
			defer func() {
				_ = p.Close()
			}()

			var firstErr error
			for _, pkg := range args {
				err := p.Remove(cmd.Context(), pickup.RemoveOptions{Package: pkg})
				switch {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s removed.\n", pickup.NormalizeName(pkg))
				case errors.Is(err, pickup.ErrNotTracked):
					fmt.Fprintf(cmd.OutOrStdout(), "%s is not tracked, nothing to remove.\n",
						pickup.NormalizeName(pkg))
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

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run against a throwaway copy of the repository")
	return cmd
}
