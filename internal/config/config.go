package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/axiom-dist/internal/domain/release"
)

// Config holds the settings shared by axiom-fetch and axiom-sync.
type Config struct {
	// Repository describes where release artifacts are downloaded from.
	Repository Repository `yaml:"repository"`
	// Sync controls the working-copy synchronization.
	Sync Sync `yaml:"sync"`
}

// Repository describes the remote artifact repository.
type Repository struct {
	// BaseURL is the repository path under which <artifact>/<artifact>/<version>/ lives.
	BaseURL string `yaml:"base_url"`
	// Artifact is the artifact name used both in the URL and in file names.
	Artifact string `yaml:"artifact"`
	// Classifiers are the artifact classifiers to fetch.
	Classifiers []string `yaml:"classifiers"`
	// Suffixes are the file suffixes fetched for each classifier.
	Suffixes []string `yaml:"suffixes"`
	// Timeout limits each HTTP request. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
	// PollInterval is the download progress report period.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Sync describes how the working copy is reconciled.
type Sync struct {
	// VCSBinary is the Subversion command-line client.
	VCSBinary string `yaml:"vcs_binary"`
	// ProtectedPaths are destination-relative paths that are never removed.
	ProtectedPaths []string `yaml:"protected_paths"`
	// Strict makes add/remove failures abort the run.
	Strict bool `yaml:"strict"`
	// LockFile overrides the lock file guarding a destination.
	LockFile string `yaml:"lock_file"`
}

const (
	// DefaultConfigFilename is the settings file looked up when --config is not given.
	DefaultConfigFilename = "axiom-dist.yaml"

	// DefaultVCSBinary is the Subversion client looked up in PATH.
	DefaultVCSBinary = "svn"

	// DefaultPollInterval is the download progress report period.
	DefaultPollInterval = time.Second

	// DefaultFilePermissions is used when writing settings.
	DefaultFilePermissions = 0o600
)

// DefaultProtectedPath is never removed from the working copy.
const DefaultProtectedPath = ".htaccess"

var (
	errConfigIsNotSet      = errors.New("configuration is not set")
	errArtifactRequired    = errors.New("repository artifact must be provided")
	errClassifiersRequired = errors.New("at least one classifier must be provided")
	errSuffixesRequired    = errors.New("at least one suffix must be provided")
	errVCSBinaryRequired   = errors.New("vcs binary must be provided")
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Repository: Repository{
			BaseURL:      release.DefaultRepositoryBase,
			Artifact:     release.DefaultArtifactName,
			Classifiers:  append([]string(nil), release.DefaultClassifiers...),
			Suffixes:     append([]string(nil), release.DefaultSuffixes...),
			PollInterval: DefaultPollInterval,
		},
		Sync: Sync{
			VCSBinary:      DefaultVCSBinary,
			ProtectedPaths: []string{DefaultProtectedPath},
		},
	}
}

// Load reads settings from path on top of Default.
// An empty path, or the default file being absent, yields Default.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return cfg, nil
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills zero durations with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if _, err := url.ParseRequestURI(cfg.Repository.BaseURL); err != nil {
		return fmt.Errorf("invalid repository base URL: %w", err)
	}

	if cfg.Repository.Artifact == "" {
		return errArtifactRequired
	}

	if len(cfg.Repository.Classifiers) == 0 {
		return errClassifiersRequired
	}

	if len(cfg.Repository.Suffixes) == 0 {
		return errSuffixesRequired
	}

	if cfg.Repository.PollInterval <= 0 {
		cfg.Repository.PollInterval = DefaultPollInterval
	}

	if cfg.Sync.VCSBinary == "" {
		return errVCSBinaryRequired
	}

	return nil
}
