package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/axiom-dist/internal/cli"
	"github.com/oshokin/axiom-dist/internal/service/syncer"
)

var (
	// flags holds the common --config and --log-level values.
	flags cli.Flags

	// rootCmd mirrors a source tree into a Subversion working copy.
	rootCmd = &cobra.Command{
		Use:   "axiom-sync [source-root] [dest-root]",
		Short: "Mirror a directory tree into a Subversion working copy, adding and removing files",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &syncer.Options{
				ConfigPath:  flags.ConfigPath,
				Source:      args[0],
				Destination: args[1],
			}

			return syncer.Run(ctx, options)
		},
	}
)

// Execute runs the axiom-sync CLI and exits with non-zero status on error.
func Execute() {
	cli.Attach(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
