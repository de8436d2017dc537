package syncer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/axiom-dist/internal/config"
)

// TestLockPath is stable per destination and honors the override.
func TestLockPath(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()

	first, err := lockPath(dest, "")
	require.NoError(t, err)

	second, err := lockPath(dest+string(filepath.Separator), "")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(first))

	other, err := lockPath(t.TempDir(), "")
	require.NoError(t, err)
	require.NotEqual(t, first, other)

	override, err := lockPath(dest, "/var/lock/axiom-sync.lock")
	require.NoError(t, err)
	require.Equal(t, filepath.Clean("/var/lock/axiom-sync.lock"), override)
}

// TestAcquire_SecondHolderFails refuses a concurrent sync until the first one releases.
func TestAcquire_SecondHolderFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sync.lock")

	held, err := acquire(ctx, path)
	require.NoError(t, err)

	_, err = acquire(ctx, path)
	require.ErrorIs(t, err, ErrSyncRunning)

	held.release(ctx)

	again, err := acquire(ctx, path)
	require.NoError(t, err)
	again.release(ctx)
}

// TestRun_RejectsMissingRoots validates both roots before locking.
func TestRun_RejectsMissingRoots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.Save(cfgPath, config.Default()))

	err := Run(context.Background(), &Options{
		ConfigPath:  cfgPath,
		Source:      filepath.Join(dir, "missing"),
		Destination: dir,
	})
	require.ErrorIs(t, err, os.ErrNotExist)

	err = Run(context.Background(), &Options{
		ConfigPath:  cfgPath,
		Source:      dir,
		Destination: file,
	})
	require.ErrorIs(t, err, errNotDirectory)
}

// TestRun_DrivesSubversion runs a full sync against an svn stub and checks the issued commands.
func TestRun_DrivesSubversion(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}

	work := t.TempDir()
	callLog := filepath.Join(work, "calls.log")
	status := "                 7        7 alice        .\n" +
		"                 7        7 alice        old.txt\n" +
		"                 7        7 alice        .htaccess\n"

	stub := filepath.Join(work, "svn")
	script := "#!/bin/sh\n" +
		"echo \"$*\" >> '" + callLog + "'\n" +
		"if [ \"$1\" = status ]; then printf '%s' '" + status + "'; fi\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o700)) //nolint:gosec // Executable test stub.

	cfg := config.Default()
	cfg.Sync.VCSBinary = stub
	cfg.Sync.LockFile = filepath.Join(work, "sync.lock")

	cfgPath := filepath.Join(work, "settings.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	src, dest := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "alpha", "sub/b.txt": "beta"})
	writeTree(t, dest, map[string]string{"old.txt": "stale", ".htaccess": "deny"})

	err := Run(context.Background(), &Options{ConfigPath: cfgPath, Source: src, Destination: dest})
	require.NoError(t, err)

	calls, err := os.ReadFile(callLog)
	require.NoError(t, err)
	require.Equal(t, []string{
		"status -v",
		"add a.txt",
		"add sub",
		"add sub/b.txt",
		"remove old.txt",
	}, strings.Split(strings.TrimSpace(string(calls)), "\n"))

	require.Equal(t, "beta", readFile(t, filepath.Join(dest, "sub", "b.txt")))
}
