// Package cli holds the flags shared by the axiom-dist commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/axiom-dist/internal/config"
	"github.com/oshokin/axiom-dist/internal/logger"
	"github.com/oshokin/axiom-dist/internal/version"
)

var errUnknownLogLevel = errors.New("unknown log level")

// Flags are the values of the common flags.
type Flags struct {
	// ConfigPath to the configuration YAML file.
	ConfigPath string
	// LogLevel is the minimum level written to stderr.
	LogLevel string
}

// Attach registers --config and --log-level on root, applies the level before
// any command runs and adds the init-config and version subcommands.
func Attach(root *cobra.Command, flags *Flags) {
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "",
		"path to configuration file (default "+config.DefaultConfigFilename+" if present)")
	root.PersistentFlags().StringVarP(&flags.LogLevel, "log-level", "l", "info",
		"log level: debug, info, warn or error")

	root.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		level, ok := logger.ParseLogLevel(flags.LogLevel)
		if !ok {
			return fmt.Errorf("%q: %w", flags.LogLevel, errUnknownLogLevel)
		}

		logger.SetLevel(level)

		return nil
	}

	root.SilenceUsage = true

	attachInitConfigCommand(root, flags)
	version.AttachCobraVersionCommand(root)
}
