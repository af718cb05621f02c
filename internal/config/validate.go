package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue is a single finding against a dotted config key.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string
	Message  string
}

func (i ValidationIssue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors reports whether any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors()) > 0
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	return vr.filter(SeverityError)
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	return vr.filter(SeverityWarning)
}

func (vr *ValidationResult) filter(sev ValidationSeverity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// Err folds the error-severity issues into a single error, or returns nil.
func (vr *ValidationResult) Err() error {
	errs := vr.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.String()
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Validate checks the template layout. The project name is only required to
// be non-empty: whether it is a legal directory name or C++ identifier is
// left to git and the filesystem to report. meta may be nil when no config
// file was loaded.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}
	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	if cfg.Project.Name == "" {
		addError(vr, "project.name", "must not be empty")
	}

	validateLayout(vr, &cfg.Layout)
	validateUnknownKeys(vr, meta)
	return vr
}

func validateLayout(vr *ValidationResult, l *LayoutConfig) {
	if l.Placeholder == "" {
		addError(vr, "layout.placeholder", "must not be empty")
	}
	if len(l.Subtrees) == 0 {
		addError(vr, "layout.subtrees", "must list at least one tree")
	}
	if l.DescriptionKeyword == "" {
		addError(vr, "layout.description_keyword", "must not be empty")
	}
	if l.StandardKey == "" {
		addError(vr, "layout.standard_key", "must not be empty")
	}
	if strings.TrimSpace(l.CommitMessage) == "" {
		addError(vr, "layout.commit_message", "must not be empty")
	}

	for i, tree := range l.Subtrees {
		checkRelPath(vr, fmt.Sprintf("layout.subtrees[%d]", i), tree)
	}
	for i, tree := range l.ExtraTrees {
		checkRelPath(vr, fmt.Sprintf("layout.extra_trees[%d]", i), tree)
	}
	checkRelPath(vr, "layout.readme", l.Readme)
	checkRelPath(vr, "layout.build_file", l.BuildFile)
	checkRelPath(vr, "layout.presets_file", l.PresetsFile)
	if l.Script != "" {
		checkRelPath(vr, "layout.script", l.Script)
	}

	for i, pattern := range l.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			addError(vr, fmt.Sprintf("layout.exclude[%d]", i),
				fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
}

// checkRelPath requires p to be a non-empty path inside the repository.
func checkRelPath(vr *ValidationResult, field, p string) {
	switch {
	case p == "":
		addError(vr, field, "must not be empty")
	case path.IsAbs(p) || strings.HasPrefix(p, `\`):
		addError(vr, field, fmt.Sprintf("path %q must be relative to the repository root", p))
	case path.Clean(p) == ".." || strings.HasPrefix(path.Clean(p), "../"):
		addError(vr, field, fmt.Sprintf("path %q escapes the repository root", p))
	}
}

func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}
	for _, key := range meta.Undecoded() {
		addWarning(vr, strings.Join(key, "."), "unknown configuration key")
	}
}

func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityError, Field: field, Message: message})
}

func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityWarning, Field: field, Message: message})
}
