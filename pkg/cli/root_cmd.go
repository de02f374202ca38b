package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/spf13/cobra"

	"github.com/jlrickert/pickup/pkg/fetch"
	"github.com/jlrickert/pickup/pkg/log"
	"github.com/jlrickert/pickup/pkg/pickup"
	"github.com/jlrickert/pickup/pkg/wheel"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Deps carries everything the subcommands share. Persistent flags bind
// directly onto it; per-verb flags live on the verb commands.
type Deps struct {
	Runtime *toolkit.Runtime

	Root   string
	Remote string

	LogFile  string
	LogLevel string
	LogJSON  bool
}

// syncFlags are the knobs shared by add and update.
type syncFlags struct {
	onlySources  bool
	includeDevs  bool
	includeRCs   bool
	allPlatforms bool
	showRetries  bool
	dryRun       bool
	retries      int
	retryDelay   time.Duration
}

func bindSyncFlags(cmd *cobra.Command, f *syncFlags) {
	cmd.Flags().BoolVar(&f.onlySources, "only-src", false, "mirror source archives only, skip wheels")
	cmd.Flags().BoolVar(&f.includeDevs, "include-devs", false, "include development releases")
	cmd.Flags().BoolVar(&f.includeRCs, "include-rcs", false, "include release candidates")
	cmd.Flags().BoolVar(&f.allPlatforms, "all-platforms", false, "include platform-specific wheels")
	cmd.Flags().BoolVar(&f.showRetries, "show-retries", false, "print a line for every retried request")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "run against a throwaway copy of the repository")
	cmd.Flags().IntVar(&f.retries, "retries", fetch.DefaultRetries, "attempts per request")
	cmd.Flags().DurationVar(&f.retryDelay, "retry-delay", fetch.DefaultDelay, "pause between attempts")
}

func (f *syncFlags) wheelFlags() wheel.Flags {
	return wheel.Flags{
		OnlySources:             f.onlySources,
		IncludeDevs:             f.includeDevs,
		IncludeRCs:              f.includeRCs,
		IncludePlatformSpecific: f.allPlatforms,
	}
}

// newPickup builds the service for one command invocation, merging the
// persistent flags with the verb's sync flags.
func (d *Deps) newPickup(cmd *cobra.Command, f syncFlags) (*pickup.Pickup, error) {
	client := fetch.New()
	client.Retries = f.retries
	client.Delay = f.retryDelay
	if f.showRetries {
		out := cmd.OutOrStdout()
		client.OnRetry = func(url string) {
			_, _ = fmt.Fprintf(out, "retrying %s\n", url)
		}
	}
	return pickup.New(pickup.Options{
		Root:     d.Root,
		Runtime:  d.Runtime,
		Remote:   d.Remote,
		Flags:    f.wheelFlags(),
		Client:   client,
		Reporter: newStreamReporter(cmd.OutOrStdout()),
		DryRun:   f.dryRun,
	})
}

func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}

	cmd := &cobra.Command{
		Use:           "pickup",
		Short:         "keep a local PyPI mirror in sync with an upstream simple index",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if deps.Runtime == nil {
				rt, err := toolkit.NewRuntime()
				if err != nil {
					return fmt.Errorf("unable to create runtime: %w", err)
				}
				deps.Runtime = rt
			}

			var out = os.Stderr
			if deps.LogFile != "" {
				f, err := os.OpenFile(deps.LogFile,
					os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				out = f
			}
			lg, _, err := log.NewLogger(log.LoggerConfig{
				Out:     out,
				Level:   log.ParseLevel(deps.LogLevel),
				JSON:    deps.LogJSON,
				Version: Version,
			})
			if err != nil {
				return err
			}

			cmd.SetContext(log.ContextWithLogger(ctx, lg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&deps.Root, "path", "p", "",
		"repository directory (default current directory)")
	cmd.PersistentFlags().StringVar(&deps.Remote, "remote", "",
		"upstream simple index URL (default from pickup.yaml)")
	cmd.PersistentFlags().StringVar(&deps.LogFile, "log-file", "",
		"write logs to file (default stderr)")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "warn",
		"minimum log level")
	cmd.PersistentFlags().BoolVar(&deps.LogJSON, "log-json", false,
		"output logs as JSON")

	cmd.AddCommand(
		NewAddCmd(deps),
		NewUpdateCmd(deps),
		NewRemoveCmd(deps),
		NewListCmd(deps),
		NewWatchCmd(deps),
		NewMCPCmd(deps),
		NewVersionCmd(),
	)

	return cmd
}
