// Package config holds the inputs of a beman-init run: the project record
// collected from the command line and the layout of the exemplar template
// it is applied to.
//
// Values are layered the same way for every field: built-in defaults, then
// an optional beman-init.toml, then BEMAN_INIT_* environment variables, then
// command-line flags. See Resolve.
package config

import (
	"path"
	"strings"
)

// Config is the top-level structure mapping to beman-init.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Layout  LayoutConfig  `toml:"layout"`
}

// ProjectConfig describes the project being created.
type ProjectConfig struct {
	// Name is the new project's name, e.g. "optional". It becomes a path
	// segment and a C++ identifier. It is never read from a config file.
	Name        string `toml:"-"`
	Owner       string `toml:"owner"`
	Paper       string `toml:"paper"`
	CppVersion  int    `toml:"cpp_version"`
	Description string `toml:"description"`
}

// NameUpper is the project name in the form used for CMake variables and
// include guards, e.g. BEMAN_OPTIONAL_BUILD_TESTING.
func (p ProjectConfig) NameUpper() string {
	return strings.ToUpper(p.Name)
}

// LayoutConfig describes where the placeholder lives in the template tree.
// Paths are slash-separated and relative to the repository root.
type LayoutConfig struct {
	Placeholder        string   `toml:"placeholder"`
	Subtrees           []string `toml:"subtrees"`
	ExtraTrees         []string `toml:"extra_trees"`
	Readme             string   `toml:"readme"`
	BuildFile          string   `toml:"build_file"`
	DescriptionKeyword string   `toml:"description_keyword"`
	PresetsFile        string   `toml:"presets_file"`
	StandardKey        string   `toml:"standard_key"`
	Script             string   `toml:"script"`
	KeepScript         bool     `toml:"keep_script"`
	CommitMessage      string   `toml:"commit_message"`
	Exclude            []string `toml:"exclude"`
}

// RenamePairs returns, for every subtree, the placeholder directory and the
// directory it is renamed to.
func (l LayoutConfig) RenamePairs(name string) [][2]string {
	pairs := make([][2]string, 0, len(l.Subtrees))
	for _, tree := range l.Subtrees {
		pairs = append(pairs, [2]string{
			path.Join(tree, l.Placeholder),
			path.Join(tree, name),
		})
	}
	return pairs
}

// SweepTrees returns the directories whose files receive placeholder
// substitution, given the directory name the subtrees currently carry.
func (l LayoutConfig) SweepTrees(dirName string) []string {
	trees := make([]string, 0, len(l.Subtrees)+len(l.ExtraTrees))
	for _, tree := range l.Subtrees {
		trees = append(trees, path.Join(tree, dirName))
	}
	return append(trees, l.ExtraTrees...)
}
