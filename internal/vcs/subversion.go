package vcs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oshokin/axiom-dist/internal/logger"
)

// Subversion runs the svn command-line client.
type Subversion struct {
	// binary is the svn executable name or path.
	binary string
}

// NewSubversion returns a client running the given svn binary.
func NewSubversion(binary string) *Subversion {
	return &Subversion{binary: binary}
}

// Status runs `svn status -v` inside root and returns the parsed entries.
func (s *Subversion) Status(ctx context.Context, root string) ([]Entry, error) {
	stdout, err := s.run(ctx, root, "status", "-v")
	if err != nil {
		return nil, fmt.Errorf("svn status %s: %w", root, err)
	}

	var (
		entries []Entry
		scanner = bufio.NewScanner(bytes.NewReader(stdout))
	)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		code, path, parseErr := ParseStatusLine(line)
		if parseErr != nil {
			logger.DebugKV(ctx, "Skipping status line", "line", line)
			continue
		}

		entries = append(entries, Entry{
			Code:  code,
			Path:  path,
			IsDir: isDir(filepath.Join(root, path)),
		})
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read svn status: %w", err)
	}

	return entries, nil
}

// Add schedules path for addition.
func (s *Subversion) Add(ctx context.Context, root, path string) error {
	if _, err := s.run(ctx, root, "add", path); err != nil {
		return fmt.Errorf("svn add %s: %w", path, err)
	}

	return nil
}

// Remove schedules path for deletion.
func (s *Subversion) Remove(ctx context.Context, root, path string) error {
	if _, err := s.run(ctx, root, "remove", path); err != nil {
		return fmt.Errorf("svn remove %s: %w", path, err)
	}

	return nil
}

// run executes svn in dir and returns its standard output.
// Standard error is forwarded to the log.
func (s *Subversion) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.DebugKV(ctx, "Running svn", "dir", dir, "args", args)

	err := cmd.Run()

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		logger.WarnKV(ctx, "svn reported", "args", args, "stderr", msg)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), fmt.Errorf("exit status %d: %w", exitErr.ExitCode(), err)
		}

		return stdout.Bytes(), err
	}

	if out := strings.TrimSpace(stdout.String()); out != "" && args[0] != "status" {
		logger.Debug(ctx, out)
	}

	return stdout.Bytes(), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
