package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bemanproject/beman-init/internal/config"
	"github.com/bemanproject/beman-init/internal/git"
	"github.com/bemanproject/beman-init/internal/rewrite"
)

// Repository is the version-control surface the runner needs.
// *git.GitClient satisfies it.
type Repository interface {
	Move(ctx context.Context, src, dst string) error
	ModifiedPaths(ctx context.Context) ([]string, error)
	Add(ctx context.Context, paths ...string) error
	RemoveCached(ctx context.Context, path string) error
	Commit(ctx context.Context, message string) error
	HeadCommit(ctx context.Context) (string, error)
}

var _ Repository = (*git.GitClient)(nil)

// Stage names a step of a bootstrap run.
type Stage string

// Stages, in execution order.
const (
	StageRename  Stage = "rename"
	StageRewrite Stage = "rewrite"
	StageCommit  Stage = "commit"
)

// StageError reports which stage failed. The wrapped error is the
// underlying filesystem or git failure, unchanged.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Rename records one moved directory.
type Rename struct {
	From string
	To   string
	// Noop is set when From and To are the same directory.
	Noop bool
}

// Result describes a completed (or previewed) run.
type Result struct {
	Renames []Rename
	// Files are the rewritten files, relative to the repository root.
	Files []string
	// Staged are the paths passed to the repository for staging.
	Staged []string
	// ScriptRemoved is set when the bootstrap script left the index.
	ScriptRemoved bool
	// Commit is the SHA of the new commit; empty in a dry run.
	Commit string
	DryRun bool
	Report *rewrite.Report
}

// Runner executes a bootstrap run against one working copy.
type Runner struct {
	root    string
	project config.ProjectConfig
	layout  config.LayoutConfig
	repo    Repository
	dryRun  bool
	logger  *log.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDryRun computes what a run would change without touching the files or
// the repository.
func WithDryRun(dryRun bool) RunnerOption {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithLogger attaches a logger. When nil the runner is silent.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner for the working copy at root. cfg must already
// be resolved and validated.
func NewRunner(root string, cfg *config.Config, repo Repository, opts ...RunnerOption) *Runner {
	r := &Runner{
		root:    root,
		project: cfg.Project,
		layout:  cfg.Layout,
		repo:    repo,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the rename, rewrite and commit stages in order. On failure
// it returns the partial result together with a *StageError.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{DryRun: r.dryRun}
	r.log("bootstrap started", "name", r.project.Name, "root", r.root, "dry_run", r.dryRun)

	if err := r.rename(ctx, res); err != nil {
		return res, &StageError{Stage: StageRename, Err: err}
	}
	if err := r.rewrite(res); err != nil {
		return res, &StageError{Stage: StageRewrite, Err: err}
	}
	if err := r.commit(ctx, res); err != nil {
		return res, &StageError{Stage: StageCommit, Err: err}
	}

	r.log("bootstrap completed", "name", r.project.Name, "commit", res.Commit)
	return res, nil
}

func (r *Runner) rename(ctx context.Context, res *Result) error {
	for _, pair := range r.layout.RenamePairs(r.project.Name) {
		from, to := pair[0], pair[1]
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(r.abs(from))
		if err != nil {
			return fmt.Errorf("renaming %s: %w", from, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("renaming %s: not a directory", from)
		}

		rn := Rename{From: from, To: to, Noop: from == to}
		switch {
		case rn.Noop:
			r.debug("rename is a no-op", "path", from)
		case r.dryRun:
			r.log("would rename", "from", from, "to", to)
		default:
			if err := r.repo.Move(ctx, from, to); err != nil {
				return err
			}
			r.log("renamed", "from", from, "to", to)
		}
		res.Renames = append(res.Renames, rn)
	}
	return nil
}

func (r *Runner) rewrite(res *Result) error {
	treeDir := r.project.Name
	if r.dryRun {
		// Nothing was moved; the trees still carry the placeholder.
		treeDir = r.layout.Placeholder
	}

	rw := &rewrite.Rewriter{
		Root:    r.root,
		Project: r.project,
		Layout:  r.layout,
		TreeDir: treeDir,
		DryRun:  r.dryRun,
		Logger:  r.logger,
	}
	report, err := rw.Run()
	res.Report = report
	if report != nil {
		res.Files = report.Files()
	}
	return err
}

func (r *Runner) commit(ctx context.Context, res *Result) error {
	if r.dryRun {
		r.log("dry run: skipping commit", "message", r.layout.CommitMessage)
		return nil
	}

	paths, err := r.repo.ModifiedPaths(ctx)
	if err != nil {
		return err
	}
	if err := r.repo.Add(ctx, paths...); err != nil {
		return err
	}
	res.Staged = paths
	r.debug("staged modified files", "count", len(paths))

	if r.layout.Script != "" && !r.layout.KeepScript {
		if err := r.repo.RemoveCached(ctx, r.layout.Script); err != nil {
			return err
		}
		res.ScriptRemoved = true
		r.log("removed script from index", "path", r.layout.Script)
	}

	if err := r.repo.Commit(ctx, r.layout.CommitMessage); err != nil {
		return err
	}
	sha, err := r.repo.HeadCommit(ctx)
	if err != nil {
		return err
	}
	res.Commit = sha
	return nil
}

func (r *Runner) abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

func (r *Runner) log(msg string, kvs ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Info(msg, kvs...)
}

func (r *Runner) debug(msg string, kvs ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Debug(msg, kvs...)
}

// IsStage reports whether err came from the given stage.
func IsStage(err error, stage Stage) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == stage
}
