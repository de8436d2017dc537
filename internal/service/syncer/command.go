package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/oshokin/axiom-dist/internal/config"
	"github.com/oshokin/axiom-dist/internal/logger"
	"github.com/oshokin/axiom-dist/internal/vcs"
)

var errNotDirectory = errors.New("not a directory")

// Options are inputs accepted by the sync entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Source is the tree to mirror.
	Source string
	// Destination is the root of the Subversion working copy.
	Destination string
}

// Run mirrors opts.Source into opts.Destination using the svn client.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "axiom-sync")
	ctx = logger.WithKV(ctx, "run_id", uuid.NewString())

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	for _, dir := range []string{opts.Source, opts.Destination} {
		if err = ensureDir(dir); err != nil {
			return err
		}
	}

	path, err := lockPath(opts.Destination, cfg.Sync.LockFile)
	if err != nil {
		return fmt.Errorf("resolve lock file: %w", err)
	}

	g, err := acquire(ctx, path)
	if err != nil {
		return err
	}

	defer g.release(ctx)

	client := vcs.NewSubversion(cfg.Sync.VCSBinary)
	s := New(client, cfg.Sync.ProtectedPaths, WithStrict(cfg.Sync.Strict))

	logger.InfoKV(ctx, "Synchronizing", "source", opts.Source, "destination", opts.Destination)

	report, err := s.Sync(ctx, opts.Source, opts.Destination)
	if err != nil {
		return fmt.Errorf("sync %s: %w", opts.Destination, err)
	}

	logger.InfoKV(ctx, "Sync completed",
		"copied", report.Copied,
		"added_dirs", len(report.AddedDirs),
		"added_files", len(report.AddedFiles),
		"removed_files", len(report.RemovedFiles),
		"removed_dirs", len(report.RemovedDirs),
		"protected", len(report.Protected),
	)

	return nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, errNotDirectory)
	}

	return nil
}
