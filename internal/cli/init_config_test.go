package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/axiom-dist/internal/config"
	"github.com/oshokin/axiom-dist/internal/logger"
)

// TestInitConfig writes loadable defaults once and refuses to overwrite them.
func TestInitConfig(t *testing.T) {
	previous := logger.Level()
	t.Cleanup(func() {
		logger.SetLevel(previous)
	})

	path := filepath.Join(t.TempDir(), "axiom-dist.yaml")

	var ran bool

	root, _ := newRoot(&ran)
	root.SetArgs([]string{"init-config", "--config", path})
	require.NoError(t, root.Execute())
	require.False(t, ran)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	root, _ = newRoot(&ran)
	root.SetArgs([]string{"init-config", "-c", path})
	require.ErrorIs(t, root.Execute(), errConfigExists)
}

// TestInitConfig_DefaultFileName falls back to the default name in the working directory.
func TestInitConfig_DefaultFileName(t *testing.T) {
	previous := logger.Level()
	t.Cleanup(func() {
		logger.SetLevel(previous)
	})

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	var ran bool

	root, _ := newRoot(&ran)
	root.SetArgs([]string{"init-config"})
	require.NoError(t, root.Execute())
	require.FileExists(t, filepath.Join(dir, config.DefaultConfigFilename))
}
