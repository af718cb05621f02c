package rewrite

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// Sweeper substitutes the placeholder in every regular file under a set of
// directory trees.
type Sweeper struct {
	// Root is the repository root; Trees and Exclude are relative to it.
	Root string
	// Trees are slash-separated directories to walk. Each must exist.
	Trees []string
	// Exclude holds doublestar patterns of files or directories to skip.
	Exclude  []string
	Replacer Replacer
	// DryRun computes the changes without writing them.
	DryRun bool
	Logger *log.Logger
}

// Sweep walks each tree in order and rewrites files whose content changes.
// It returns the slash-separated paths, relative to Root, of those files.
// The first unreadable, non-text or unwritable file aborts the sweep; files
// already rewritten stay rewritten.
func (s *Sweeper) Sweep() ([]string, error) {
	var changed []string
	for _, tree := range s.Trees {
		files, err := s.sweepTree(tree)
		changed = append(changed, files...)
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func (s *Sweeper) sweepTree(tree string) ([]string, error) {
	var changed []string
	top := filepath.Join(s.Root, filepath.FromSlash(tree))

	err := filepath.WalkDir(top, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if s.excluded(rel) {
			s.debug("excluded from sweep", "path", rel)
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			s.debug("skipping non-regular file", "path", rel, "type", d.Type().String())
			return nil
		}

		ok, err := s.sweepFile(path)
		if err != nil {
			return err
		}
		if ok {
			changed = append(changed, rel)
		}
		return nil
	})
	if err != nil {
		return changed, fmt.Errorf("sweeping %s: %w", tree, err)
	}
	return changed, nil
}

// sweepFile reports whether the file's content changed.
func (s *Sweeper) sweepFile(path string) (bool, error) {
	before, err := ReadText(path)
	if err != nil {
		return false, err
	}
	after := s.Replacer.Replace(before)
	if after == before {
		return false, nil
	}
	if s.DryRun {
		return true, nil
	}
	if err := WriteAtomic(path, []byte(after)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Sweeper) excluded(rel string) bool {
	for _, pattern := range s.Exclude {
		// Patterns are validated with the config; a bad one never matches.
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (s *Sweeper) debug(msg string, kv ...interface{}) {
	if s.Logger != nil {
		s.Logger.Debug(msg, kv...)
	}
}
