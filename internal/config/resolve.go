package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceFile    ConfigSource = "file"
	SourceEnv     ConfigSource = "env"
	SourceCLI     ConfigSource = "cli"
)

// Environment variables consulted by Resolve.
const (
	EnvOwner       = "BEMAN_INIT_OWNER"
	EnvPaper       = "BEMAN_INIT_PAPER"
	EnvCppVersion  = "BEMAN_INIT_CPP_VERSION"
	EnvDescription = "BEMAN_INIT_DESC"
)

// ResolvedConfig is the merged configuration plus, per dotted key, the layer
// that supplied the value.
type ResolvedConfig struct {
	Config  *Config
	Sources map[string]ConfigSource
	Path    string // config file used, "" if none
}

// CLIOverrides carries flag values. A nil pointer means the flag was not
// given; a pointer to "" means it was given as empty.
type CLIOverrides struct {
	Name        *string
	Owner       *string
	Paper       *string
	CppVersion  *int
	Description *string
}

// EnvFunc looks up an environment variable; os.LookupEnv in production.
type EnvFunc func(key string) (string, bool)

// Resolve merges defaults < file < environment < CLI. A missing owner after
// all layers falls back to DefaultOwner. The only failure is an environment
// value that cannot be converted, e.g. a non-integer BEMAN_INIT_CPP_VERSION.
func Resolve(defaults, fileConfig *Config, envFn EnvFunc, overrides *CLIOverrides) (*ResolvedConfig, error) {
	if defaults == nil {
		defaults = NewDefaults()
	}
	if envFn == nil {
		envFn = func(string) (string, bool) { return "", false }
	}
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	rc := &ResolvedConfig{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}

	resolveProject(rc, &defaults.Project, SourceDefault, true)
	resolveLayout(rc, &defaults.Layout, SourceDefault, true)

	if fileConfig != nil {
		resolveProject(rc, &fileConfig.Project, SourceFile, false)
		resolveLayout(rc, &fileConfig.Layout, SourceFile, false)
	}

	if err := resolveFromEnv(rc, envFn); err != nil {
		return nil, err
	}
	resolveFromCLI(rc, overrides)

	if rc.Config.Project.Owner == "" {
		setString(&rc.Config.Project.Owner, DefaultOwner(envFn), "project.owner", SourceDefault, rc.Sources)
	}

	return rc, nil
}

// resolveProject copies src onto the merged project. With all set every
// field is copied; otherwise only non-zero values override.
func resolveProject(rc *ResolvedConfig, src *ProjectConfig, source ConfigSource, all bool) {
	p := &rc.Config.Project
	merge := func(target *string, value, key string) {
		if all || value != "" {
			setString(target, value, key, source, rc.Sources)
		}
	}

	merge(&p.Owner, src.Owner, "project.owner")
	merge(&p.Paper, src.Paper, "project.paper")
	merge(&p.Description, src.Description, "project.description")
	if all || src.CppVersion != 0 {
		p.CppVersion = src.CppVersion
		rc.Sources["project.cpp_version"] = source
	}
	if all {
		merge(&p.Name, src.Name, "project.name")
	}
}

func resolveLayout(rc *ResolvedConfig, src *LayoutConfig, source ConfigSource, all bool) {
	l := &rc.Config.Layout
	merge := func(target *string, value, key string) {
		if all || value != "" {
			setString(target, value, key, source, rc.Sources)
		}
	}
	mergeSlice := func(target *[]string, value []string, key string) {
		if all || len(value) > 0 {
			*target = append([]string(nil), value...)
			rc.Sources[key] = source
		}
	}

	merge(&l.Placeholder, src.Placeholder, "layout.placeholder")
	mergeSlice(&l.Subtrees, src.Subtrees, "layout.subtrees")
	mergeSlice(&l.ExtraTrees, src.ExtraTrees, "layout.extra_trees")
	merge(&l.Readme, src.Readme, "layout.readme")
	merge(&l.BuildFile, src.BuildFile, "layout.build_file")
	merge(&l.DescriptionKeyword, src.DescriptionKeyword, "layout.description_keyword")
	merge(&l.PresetsFile, src.PresetsFile, "layout.presets_file")
	merge(&l.StandardKey, src.StandardKey, "layout.standard_key")
	merge(&l.Script, src.Script, "layout.script")
	merge(&l.CommitMessage, src.CommitMessage, "layout.commit_message")
	mergeSlice(&l.Exclude, src.Exclude, "layout.exclude")
	if all || src.KeepScript {
		l.KeepScript = src.KeepScript
		rc.Sources["layout.keep_script"] = source
	}
}

func resolveFromEnv(rc *ResolvedConfig, envFn EnvFunc) error {
	p := &rc.Config.Project

	if val, ok := envFn(EnvOwner); ok {
		setString(&p.Owner, val, "project.owner", SourceEnv, rc.Sources)
	}
	if val, ok := envFn(EnvPaper); ok {
		setString(&p.Paper, val, "project.paper", SourceEnv, rc.Sources)
	}
	if val, ok := envFn(EnvDescription); ok {
		setString(&p.Description, val, "project.description", SourceEnv, rc.Sources)
	}
	if val, ok := envFn(EnvCppVersion); ok {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvCppVersion, val)
		}
		p.CppVersion = n
		rc.Sources["project.cpp_version"] = SourceEnv
	}
	return nil
}

func resolveFromCLI(rc *ResolvedConfig, o *CLIOverrides) {
	p := &rc.Config.Project

	if o.Name != nil {
		setString(&p.Name, *o.Name, "project.name", SourceCLI, rc.Sources)
	}
	if o.Owner != nil {
		setString(&p.Owner, *o.Owner, "project.owner", SourceCLI, rc.Sources)
	}
	if o.Paper != nil {
		setString(&p.Paper, *o.Paper, "project.paper", SourceCLI, rc.Sources)
	}
	if o.Description != nil {
		setString(&p.Description, *o.Description, "project.description", SourceCLI, rc.Sources)
	}
	if o.CppVersion != nil {
		p.CppVersion = *o.CppVersion
		rc.Sources["project.cpp_version"] = SourceCLI
	}
}

func setString(target *string, value, key string, source ConfigSource, sources map[string]ConfigSource) {
	*target = value
	sources[key] = source
}
