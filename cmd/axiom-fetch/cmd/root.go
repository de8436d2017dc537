package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/axiom-dist/internal/cli"
	"github.com/oshokin/axiom-dist/internal/service/fetcher"
)

var (
	// flags holds the common --config and --log-level values.
	flags cli.Flags

	// rootCmd downloads the artifacts of one release.
	rootCmd = &cobra.Command{
		Use:   "axiom-fetch [release-version]",
		Short: "Download the binary and source archives of a release with their signatures and checksums",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &fetcher.Options{
				ConfigPath: flags.ConfigPath,
				Version:    args[0],
			}

			return fetcher.Run(ctx, options)
		},
	}
)

// Execute runs the axiom-fetch CLI and exits with non-zero status on error.
func Execute() {
	cli.Attach(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
