package syncer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oshokin/axiom-dist/internal/logger"
	"github.com/oshokin/axiom-dist/internal/vcs"
)

// dirMode is used for directories created in the working copy.
const dirMode os.FileMode = 0o755

// rootEntry is how the status query reports the working-copy root.
const rootEntry = "."

// KnownSet is the part of the index that has not been matched by the source
// tree yet. Snapshot fills it, Walk drains it, Reconcile removes what is left.
type KnownSet struct {
	Dirs  map[string]struct{}
	Files map[string]struct{}
}

// NewKnownSet returns an empty set.
func NewKnownSet() *KnownSet {
	return &KnownSet{
		Dirs:  make(map[string]struct{}),
		Files: make(map[string]struct{}),
	}
}

// take removes path from set and reports whether it was there.
func take(set map[string]struct{}, path string) bool {
	if _, ok := set[path]; !ok {
		return false
	}

	delete(set, path)

	return true
}

// Report lists what a synchronization changed. Paths are destination-relative.
type Report struct {
	AddedDirs    []string
	AddedFiles   []string
	RemovedFiles []string
	RemovedDirs  []string
	// Protected are tracked paths absent from the source that were kept.
	Protected []string
	// Copied is the number of files written to the destination.
	Copied int
}

// Changed reports whether any add or remove went through.
func (r *Report) Changed() bool {
	return len(r.AddedDirs)+len(r.AddedFiles)+len(r.RemovedFiles)+len(r.RemovedDirs) > 0
}

// Syncer mirrors a source tree into a working copy through a vcs.Client.
type Syncer struct {
	vcs       vcs.Client
	protected map[string]struct{}
	// strict turns add/remove failures into errors.
	strict bool
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithStrict makes failed add/remove operations abort the run.
func WithStrict(strict bool) Option {
	return func(s *Syncer) {
		s.strict = strict
	}
}

// New returns a Syncer that never removes the given destination-relative paths.
func New(client vcs.Client, protectedPaths []string, options ...Option) *Syncer {
	s := &Syncer{
		vcs:       client,
		protected: make(map[string]struct{}, len(protectedPaths)),
	}

	for _, path := range protectedPaths {
		s.protected[filepath.Clean(filepath.FromSlash(path))] = struct{}{}
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Sync makes dest mirror src: snapshot the index, walk the source, remove the leftovers.
// A failure part way leaves dest partially synchronized.
func (s *Syncer) Sync(ctx context.Context, src, dest string) (*Report, error) {
	known, err := s.Snapshot(ctx, dest)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Working copy scanned", "dirs", len(known.Dirs), "files", len(known.Files))

	report := new(Report)

	if err = s.Walk(ctx, src, dest, known, report); err != nil {
		return report, err
	}

	if err = s.Reconcile(ctx, dest, known, report); err != nil {
		return report, err
	}

	return report, nil
}

// Snapshot collects the tracked directories and files of dest, excluding the root.
func (s *Syncer) Snapshot(ctx context.Context, dest string) (*KnownSet, error) {
	entries, err := s.vcs.Status(ctx, dest)
	if err != nil {
		return nil, fmt.Errorf("query working copy status: %w", err)
	}

	known := NewKnownSet()

	for _, entry := range entries {
		if !entry.Tracked() {
			continue
		}

		path := filepath.Clean(entry.Path)
		if path == rootEntry {
			continue
		}

		if entry.IsDir {
			known.Dirs[path] = struct{}{}
		} else {
			known.Files[path] = struct{}{}
		}
	}

	return known, nil
}

// Walk copies every file of src into dest, top-down. A directory missing from
// known is created and added before any of its files; a file missing from known
// is added after it is copied. Matched paths are taken out of known.
// A src that is a link to a directory is walked through.
func (s *Syncer) Walk(ctx context.Context, src, dest string, known *KnownSet, report *Report) error {
	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("resolve source %s: %w", src, err)
	}

	src = root

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !entry.IsDir() {
			return nil
		}

		rel, err := relPath(src, path)
		if err != nil {
			return err
		}

		if err = s.syncDir(ctx, dest, rel, known, report); err != nil {
			return err
		}

		return s.syncFiles(ctx, path, dest, rel, known, report)
	})
}

// syncDir retains a known directory or creates and adds a new one.
func (s *Syncer) syncDir(ctx context.Context, dest, rel string, known *KnownSet, report *Report) error {
	if take(known.Dirs, rel) || rel == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Join(dest, rel), dirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", rel, err)
	}

	logger.InfoKV(ctx, "Adding directory", "path", rel)

	applied, err := s.apply(ctx, s.vcs.Add, dest, rel)
	if err != nil {
		return err
	}

	if applied {
		report.AddedDirs = append(report.AddedDirs, rel)
	}

	return nil
}

// syncFiles copies the files directly inside dir.
func (s *Syncer) syncFiles(ctx context.Context, dir, dest, relDir string, known *KnownSet, report *Report) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		source := filepath.Join(dir, entry.Name())

		// Stat follows links, so a link to a directory is not copied.
		info, statErr := os.Stat(source)
		if statErr != nil {
			return fmt.Errorf("stat %s: %w", source, statErr)
		}

		if info.IsDir() {
			continue
		}

		rel := filepath.Join(relDir, entry.Name())

		if err = copyFile(source, filepath.Join(dest, rel)); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}

		report.Copied++

		if take(known.Files, rel) {
			continue
		}

		logger.InfoKV(ctx, "Adding file", "path", rel)

		applied, addErr := s.apply(ctx, s.vcs.Add, dest, rel)
		if addErr != nil {
			return addErr
		}

		if applied {
			report.AddedFiles = append(report.AddedFiles, rel)
		}
	}

	return nil
}

// Reconcile removes what is left in known: files first, except protected ones,
// then directories, deepest first.
func (s *Syncer) Reconcile(ctx context.Context, dest string, known *KnownSet, report *Report) error {
	for _, rel := range sortedKeys(known.Files) {
		if _, ok := s.protected[rel]; ok {
			logger.InfoKV(ctx, "Keeping protected file", "path", rel)

			report.Protected = append(report.Protected, rel)

			continue
		}

		logger.InfoKV(ctx, "Removing file", "path", rel)

		applied, err := s.apply(ctx, s.vcs.Remove, dest, rel)
		if err != nil {
			return err
		}

		if applied {
			report.RemovedFiles = append(report.RemovedFiles, rel)
		}
	}

	dirs := sortedKeys(known.Dirs)
	sort.SliceStable(dirs, func(i, j int) bool {
		return depth(dirs[i]) > depth(dirs[j])
	})

	for _, rel := range dirs {
		logger.InfoKV(ctx, "Removing directory", "path", rel)

		applied, err := s.apply(ctx, s.vcs.Remove, dest, rel)
		if err != nil {
			return err
		}

		if applied {
			report.RemovedDirs = append(report.RemovedDirs, rel)
		}
	}

	return nil
}

// apply runs an add or remove and reports whether it succeeded.
// Failures only abort in strict mode.
func (s *Syncer) apply(
	ctx context.Context,
	op func(ctx context.Context, root, path string) error,
	dest, rel string,
) (bool, error) {
	err := op(ctx, dest, rel)
	if err == nil {
		return true, nil
	}

	if s.strict {
		return false, err
	}

	logger.WarnKV(ctx, "Version control operation failed, continuing", "path", rel, "error", err)

	return false, nil
}

// relPath returns path relative to root, with the root itself as "".
func relPath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}

	if rel == rootEntry {
		return "", nil
	}

	return rel, nil
}

// copyFile overwrites dst with the contents of src.
func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func depth(rel string) int {
	return strings.Count(rel, string(filepath.Separator))
}
