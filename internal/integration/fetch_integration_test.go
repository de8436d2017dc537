package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/axiom-dist/internal/config"
	"github.com/oshokin/axiom-dist/internal/service/fetcher"
)

// TestFetch_IntoWorkingDirectory creates the version directory in the current directory.
func TestFetch_IntoWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload:" + r.URL.Path))
	}))
	defer ts.Close()

	cfg := config.Default()
	cfg.Repository.BaseURL = ts.URL
	cfg.Repository.Classifiers = []string{"bin"}
	require.NoError(t, config.Save(config.DefaultConfigFilename, cfg))

	// An empty ConfigPath picks up the default settings file.
	require.NoError(t, fetcher.Run(context.Background(), &fetcher.Options{Version: "1.2.13"}))

	entries, err := os.ReadDir(filepath.Join(dir, "1_2_13"))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	contents, err := os.ReadFile(filepath.Join(dir, "1_2_13", "axiom-1.2.13-bin.zip.md5"))
	require.NoError(t, err)
	require.Equal(t, "payload:/axiom/axiom/1.2.13/axiom-1.2.13-bin.zip.md5", string(contents))

	// A second fetch of the same release refuses to overwrite it.
	require.ErrorIs(t, fetcher.Run(context.Background(), &fetcher.Options{Version: "1.2.13"}), os.ErrExist)
}
