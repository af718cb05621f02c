package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ErrNotInstalled is returned by CheckInstalled when no git binary is on PATH.
var ErrNotInstalled = errors.New("git is not installed")

// InstallHint is printed when git is missing.
const InstallHint = "You do not have git installed, but it is required. " +
	"Ubuntu users can install it with 'sudo apt-get install git'. " +
	"Other users, see https://git-scm.com/downloads."

// GitClient runs git subcommands through os/exec in WorkDir.
type GitClient struct {
	// WorkDir is the working directory for git commands.
	// If empty, commands run in the current directory.
	WorkDir string

	// GitBin is the path to the git binary. Defaults to "git".
	GitBin string
}

// CheckInstalled reports whether a git binary can be found on PATH.
func CheckInstalled() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}
	return nil
}

// NewGitClient creates a GitClient for workDir and verifies that workDir is
// inside a git repository.
func NewGitClient(workDir string) (*GitClient, error) {
	g := &GitClient{
		WorkDir: workDir,
		GitBin:  "git",
	}
	if err := g.checkPrerequisites(); err != nil {
		return nil, fmt.Errorf("git: prerequisites: %w", err)
	}
	return g, nil
}

func (g *GitClient) checkPrerequisites() error {
	_, err := g.run(context.Background(), "rev-parse", "--git-dir")
	if err != nil {
		return fmt.Errorf("not a git repository or git not installed: %w", err)
	}
	return nil
}

// --- Index Operations ---

// Move renames src to dst with `git mv`, so the index records a rename
// rather than a delete and an add. src must exist.
func (g *GitClient) Move(ctx context.Context, src, dst string) error {
	if _, err := g.run(ctx, "mv", "--", src, dst); err != nil {
		return fmt.Errorf("git: mv %s %s: %w", src, dst, err)
	}
	return nil
}

// ModifiedPaths returns the paths whose working-tree content differs from
// the index, deletions included, sorted and without duplicates. Untracked
// files are not reported.
func (g *GitClient) ModifiedPaths(ctx context.Context) ([]string, error) {
	// stdout only: git may print line-ending warnings on stderr.
	_, out, _, err := g.runSilent(ctx, "diff", "--name-only", "-z")
	if err != nil {
		return nil, fmt.Errorf("git: modified paths: %w", err)
	}
	return parseNameOnlyZ(out), nil
}

// parseNameOnlyZ splits NUL-terminated `git diff --name-only -z` output.
func parseNameOnlyZ(output string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, p := range strings.Split(output, "\x00") {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Add stages paths, recording deletions as well as modifications.
// An empty list is a no-op.
func (g *GitClient) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, paths...)
	if _, err := g.run(ctx, args...); err != nil {
		return fmt.Errorf("git: add: %w", err)
	}
	return nil
}

// RemoveCached stops tracking path while leaving the file on disk.
func (g *GitClient) RemoveCached(ctx context.Context, path string) error {
	if _, err := g.run(ctx, "rm", "--cached", "--quiet", "--", path); err != nil {
		return fmt.Errorf("git: rm --cached %s: %w", path, err)
	}
	return nil
}

// Commit records the index as a new commit. A missing author identity or an
// empty index surfaces as git's own diagnostic.
func (g *GitClient) Commit(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "commit", "--quiet", "-m", message); err != nil {
		return fmt.Errorf("git: commit: %w", err)
	}
	return nil
}

// --- Status Operations ---

// HasUncommittedChanges reports whether the working tree has uncommitted changes.
func (g *GitClient) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git: status: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (g *GitClient) IsClean(ctx context.Context) (bool, error) {
	dirty, err := g.HasUncommittedChanges(ctx)
	if err != nil {
		return false, err
	}
	return !dirty, nil
}

// IsTracked reports whether path is in the index.
func (g *GitClient) IsTracked(ctx context.Context, path string) (bool, error) {
	out, err := g.run(ctx, "ls-files", "--", path)
	if err != nil {
		return false, fmt.Errorf("git: ls-files %s: %w", path, err)
	}
	return strings.TrimSpace(out) != "", nil
}

// TopLevel returns the absolute path of the working tree's top directory.
func (g *GitClient) TopLevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("git: top level: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// --- Log Operations ---

// HeadCommit returns the short SHA of the current HEAD commit.
func (g *GitClient) HeadCommit(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git: head commit: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// LogEntry represents a single commit in the log.
type LogEntry struct {
	SHA     string
	Message string
}

// Log returns the n most recent log entries in short format.
func (g *GitClient) Log(ctx context.Context, n int) ([]LogEntry, error) {
	out, err := g.run(ctx, "log", "--oneline", fmt.Sprintf("-%d", n))
	if err != nil {
		return nil, fmt.Errorf("git: log: %w", err)
	}
	return parseOneline(out), nil
}

// parseOneline parses `git log --oneline` lines of the form "<sha> <message>".
func parseOneline(output string) []LogEntry {
	var entries []LogEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		entry := LogEntry{SHA: parts[0]}
		if len(parts) == 2 {
			entry.Message = parts[1]
		}
		entries = append(entries, entry)
	}
	return entries
}

// --- Internal helpers ---

// run executes a git command and returns stdout.
// stderr is included in the error message when the command fails.
func (g *GitClient) run(ctx context.Context, args ...string) (string, error) {
	_, stdout, stderr, err := g.runSilent(ctx, args...)
	if err != nil {
		return "", err
	}
	if stdout == "" && stderr != "" {
		// Some git commands write to stderr on success.
		return stderr, nil
	}
	return stdout, nil
}

// runSilent executes a git command and returns the exit code, stdout, stderr
// and an error. exitCode is -1 when the process could not be started at all
// (e.g. git binary not found) and the git exit status otherwise.
func (g *GitClient) runSilent(ctx context.Context, args ...string) (int, string, string, error) {
	bin := g.GitBin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = g.WorkDir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode := exitErr.ExitCode()
			stderr := strings.TrimSpace(stderrBuf.String())
			stdout := strings.TrimSpace(stdoutBuf.String())
			return exitCode, stdout, stderr, fmt.Errorf("exit status %d: %s", exitCode, stderr)
		}
		return -1, "", "", runErr
	}

	return 0, stdoutBuf.String(), stderrBuf.String(), nil
}
