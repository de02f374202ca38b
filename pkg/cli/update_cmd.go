package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/pickup/pkg/pickup"
)

func NewUpdateCmd(deps *Deps) *cobra.Command {
	var flags syncFlags
	var all bool

	cmd := &cobra.Command{
		Use:   "update [PACKAGE...]",
		Short: "refresh tracked packages against the remote index",
		Args: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("requires a package name or --all")
			}
			if all && len(args) > 0 {
				return fmt.Errorf("--all takes no package arguments")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := deps.newPickup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() {
				_ = p.Close()
			}()

			if all {
				return p.UpdateAll(cmd.Context())
			}

			var firstErr error
			for _, pkg := range args {
				err := p.Update(cmd.Context(), pickup.UpdateOptions{Package: pkg})
				switch {
				case err == nil:
				case errors.Is(err, pickup.ErrNotTracked):
					fmt.Fprintf(cmd.OutOrStdout(),
						"%s is not tracked. Use 'pickup add' first.\n",
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

	cmd.Flags().BoolVar(&all, "all", false, "update every tracked package")
	bindSyncFlags(cmd, &flags)
	return cmd
}
