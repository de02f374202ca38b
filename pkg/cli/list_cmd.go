package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/pickup/pkg/pickup"
)

func NewListCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [PACKAGE]",
		Short:   "list tracked packages, or the files of one package",
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := deps.newPickup(cmd, syncFlags{retries: 1})
			if err != nil {
				return err
			}

			opts := pickup.ListOptions{}
			if len(args) == 1 {
				opts.Package = args[0]
			}
			listing, err := p.List(cmd.Context(), opts)
			if err != nil {
				if errors.Is(err, pickup.ErrNotTracked) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is not tracked.\n",
						pickup.NormalizeName(opts.Package))
					return nil
				}
				return err
			}

			if len(listing.Entries) == 0 {
				if listing.Package == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No packages tracked.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "No files mirrored.")
				}
				return nil
			}
			for _, e := range listing.Entries {
				fmt.Fprintln(cmd.OutOrStdout(), e.Text)
			}
			return nil
		},
	}
	return cmd
}
