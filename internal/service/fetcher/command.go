package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/google/uuid"
	"go.bug.st/downloader/v2"

	"github.com/oshokin/axiom-dist/internal/config"
	"github.com/oshokin/axiom-dist/internal/domain/release"
	"github.com/oshokin/axiom-dist/internal/logger"
)

const (
	// releaseDirMode is used for the version directory.
	releaseDirMode os.FileMode = 0o755
	// artifactFileMode is used for downloaded artifacts.
	artifactFileMode os.FileMode = 0o644
)

var (
	errVersionRequired = errors.New("release version must be provided")
	errBadHTTPStatus   = errors.New("unexpected http status")
)

// Options are inputs accepted by the fetcher entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Version is the release to fetch, substituted as-is into paths and URLs.
	Version string
	// OutputDir is where the version directory is created. Defaults to ".".
	OutputDir string
}

// fetcher holds the state of a single fetch run.
type fetcher struct {
	cfg *config.Config
	// dlConfig is shared by every download of the run.
	dlConfig downloader.Config
	// staging receives bodies before they are placed in the version directory.
	staging string
}

// Run downloads every artifact of opts.Version. Any error aborts the run;
// files already placed are left in the version directory.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "axiom-fetch")
	ctx = logger.WithKV(ctx, "run_id", uuid.NewString())

	if opts.Version == "" {
		return errVersionRequired
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	versionDir := filepath.Join(outputDir, release.DirName(opts.Version))
	if err = os.Mkdir(versionDir, releaseDirMode); err != nil {
		return fmt.Errorf("create release directory: %w", err)
	}

	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	defer f.cleanup(ctx)

	plan := release.Plan(
		cfg.Repository.BaseURL,
		cfg.Repository.Artifact,
		opts.Version,
		cfg.Repository.Classifiers,
		cfg.Repository.Suffixes,
	)

	logger.InfoKV(ctx, "Fetching release", "version", opts.Version, "dir", versionDir, "artifacts", len(plan))

	for _, download := range plan {
		if err = f.fetch(ctx, download, versionDir); err != nil {
			return err
		}
	}

	logger.InfoKV(ctx, "Release fetched", "version", opts.Version, "dir", versionDir)

	return nil
}

func newFetcher(cfg *config.Config) (*fetcher, error) {
	staging, err := os.MkdirTemp("", "axiom-fetch-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	return &fetcher{
		cfg: cfg,
		dlConfig: downloader.Config{
			HttpClient:          http.Client{Timeout: cfg.Repository.Timeout},
			DoNotResumeDownload: true,
		},
		staging: staging,
	}, nil
}

// fetch downloads one artifact into staging and moves it into dir.
func (f *fetcher) fetch(ctx context.Context, download release.Download, dir string) error {
	staged := filepath.Join(f.staging, download.FileName)

	dlConfig := f.dlConfig
	dlConfig.AcceptFunc = func(head *http.Response) error {
		if head.StatusCode != http.StatusOK {
			return fmt.Errorf("%s, %s: %w", download.URL, head.Status, errBadHTTPStatus)
		}

		return nil
	}

	logger.InfoKV(ctx, "Downloading", "url", download.URL)

	d, err := downloader.DownloadWithConfigAndContext(ctx, staged, download.URL, dlConfig)
	if err != nil {
		return fmt.Errorf("request %s: %w", download.FileName, err)
	}

	// The downloader only hands the HEAD response to AcceptFunc.
	if d.Resp.StatusCode != http.StatusOK {
		_ = d.Close()

		return fmt.Errorf("%s, %s: %w", download.URL, d.Resp.Status, errBadHTTPStatus)
	}

	poll := func(current int64) {
		logger.DebugKV(ctx, "Download progress", "file", download.FileName, "bytes", current, "size", d.Size())
	}

	if err = d.RunAndPoll(poll, f.pollInterval()); err != nil {
		return fmt.Errorf("download %s: %w", download.FileName, err)
	}

	target := filepath.Join(dir, download.FileName)
	if err = place(staged, target); err != nil {
		return fmt.Errorf("place %s: %w", download.FileName, err)
	}

	logger.InfoKV(ctx, "Saved artifact", "path", target, "bytes", d.Completed())

	return nil
}

func (f *fetcher) pollInterval() time.Duration {
	if f.cfg.Repository.PollInterval > 0 {
		return f.cfg.Repository.PollInterval
	}

	return config.DefaultPollInterval
}

// place atomically writes the staged body to target.
func place(staged, target string) error {
	body, err := os.Open(filepath.Clean(staged))
	if err != nil {
		return err
	}

	defer func() {
		_ = body.Close()
	}()

	// Apply swaps the file in by renaming, so the target has to exist.
	placeholder, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_EXCL|os.O_WRONLY, artifactFileMode)
	if err != nil {
		return err
	}

	if err = placeholder.Close(); err != nil {
		return err
	}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: artifactFileMode,
	}

	if err = goupdate.Apply(body, options); err != nil {
		return err
	}

	// The replaced placeholder may be kept next to the target.
	for _, oldFileName := range []string{
		target + ".old",
		filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".old"),
	} {
		if _, err = os.Stat(oldFileName); err == nil {
			_ = os.Remove(oldFileName)
		}
	}

	return nil
}

// cleanup removes the staging directory.
func (f *fetcher) cleanup(ctx context.Context) {
	if err := os.RemoveAll(f.staging); err != nil {
		logger.WarnKV(ctx, "Unable to remove staging directory", "path", f.staging, "error", err)
	}
}
