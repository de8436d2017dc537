package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/axiom-dist/internal/config"
)

var errConfigExists = errors.New("configuration file already exists")

// attachInitConfigCommand adds `init-config`, which writes the default settings
// to --config or to the default file name.
func attachInitConfigCommand(root *cobra.Command, flags *Flags) {
	root.AddCommand(&cobra.Command{
		Use:   "init-config",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := flags.ConfigPath
			if path == "" {
				path = config.DefaultConfigFilename
			}

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s: %w", path, errConfigExists)
			} else if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("check %s: %w", path, err)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)

			return nil
		},
	})
}
