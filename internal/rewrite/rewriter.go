package rewrite

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bemanproject/beman-init/internal/config"
	"github.com/bemanproject/beman-init/internal/logging"
)

// Rewriter applies every content edit of a bootstrap run to a working copy.
type Rewriter struct {
	Root    string
	Project config.ProjectConfig
	Layout  config.LayoutConfig
	// TreeDir is the directory name the subtrees carry when the sweep runs:
	// the project name after a rename, the placeholder in a dry run.
	TreeDir string
	DryRun  bool
	Logger  *log.Logger
}

// Report lists, relative to the repository root, the files a run rewrote
// (or would rewrite, in a dry run).
type Report struct {
	Readme       string
	BuildFile    string // "" when the content did not change
	PresetsFile  string // "" when the content did not change
	SweptFiles   []string
	Descriptions int // description lines replaced in the build file
	Standards    int // standard-version lines replaced in the presets file
}

// Files returns every rewritten path in the order it was processed.
func (r *Report) Files() []string {
	files := []string{r.Readme}
	if r.BuildFile != "" {
		files = append(files, r.BuildFile)
	}
	files = append(files, r.SweptFiles...)
	if r.PresetsFile != "" {
		files = append(files, r.PresetsFile)
	}
	return files
}

// Run regenerates the README, rewrites the build file, sweeps the trees and
// rewrites the presets file, in that order. The first failure stops the
// run; the returned report covers what was done up to that point.
func (rw *Rewriter) Run() (*Report, error) {
	logger := rw.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	replacer := NewReplacer(rw.Layout.Placeholder, rw.Project.Name)
	report := &Report{}

	// README: always replaced in full.
	readme, err := RenderReadme(rw.Project)
	if err != nil {
		return report, err
	}
	if err := rw.write(rw.Layout.Readme, readme); err != nil {
		return report, err
	}
	report.Readme = rw.Layout.Readme
	logger.Info("regenerated README", "path", rw.Layout.Readme)

	// Build descriptor.
	content, err := ReadText(rw.abs(rw.Layout.BuildFile))
	if err != nil {
		return report, err
	}
	updated, hits := RewriteBuildFile(content, rw.Layout.DescriptionKeyword, rw.Project.Description, replacer)
	report.Descriptions = hits
	if hits == 0 {
		logger.Warn("no description line found", "path", rw.Layout.BuildFile, "keyword", rw.Layout.DescriptionKeyword)
	}
	if updated != content {
		if err := rw.write(rw.Layout.BuildFile, []byte(updated)); err != nil {
			return report, err
		}
		report.BuildFile = rw.Layout.BuildFile
		logger.Info("rewrote build file", "path", rw.Layout.BuildFile)
	}

	// Substitution sweep.
	sweeper := &Sweeper{
		Root:     rw.Root,
		Trees:    rw.Layout.SweepTrees(rw.TreeDir),
		Exclude:  rw.Layout.Exclude,
		Replacer: replacer,
		DryRun:   rw.DryRun,
		Logger:   logger,
	}
	swept, err := sweeper.Sweep()
	report.SweptFiles = swept
	if err != nil {
		return report, err
	}
	logger.Info("substituted placeholder", "placeholder", rw.Layout.Placeholder, "files", len(swept))

	// Presets.
	content, err = ReadText(rw.abs(rw.Layout.PresetsFile))
	if err != nil {
		return report, err
	}
	updated, hits = RewritePresets(content, rw.Layout.StandardKey, rw.Project.CppVersion)
	report.Standards = hits
	if hits == 0 {
		logger.Warn("no C++ standard line found", "path", rw.Layout.PresetsFile, "key", rw.Layout.StandardKey)
	}
	if updated != content {
		if err := rw.write(rw.Layout.PresetsFile, []byte(updated)); err != nil {
			return report, err
		}
		report.PresetsFile = rw.Layout.PresetsFile
		logger.Info("rewrote presets", "path", rw.Layout.PresetsFile, "cpp_version", rw.Project.CppVersion)
	}

	return report, nil
}

func (rw *Rewriter) abs(rel string) string {
	return filepath.Join(rw.Root, filepath.FromSlash(rel))
}

func (rw *Rewriter) write(rel string, data []byte) error {
	if rw.DryRun {
		return nil
	}
	if err := WriteAtomic(rw.abs(rel), data); err != nil {
		return fmt.Errorf("rewriting %s: %w", rel, err)
	}
	return nil
}
