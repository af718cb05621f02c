package config

import "os/user"

// Defaults for optional project fields.
const (
	DefaultPaper       = "TODO"
	DefaultCppVersion  = 26
	DefaultDescription = "TODO"

	// DefaultPlaceholder is the identifier baked into the exemplar repository.
	DefaultPlaceholder = "exemplar"

	// DefaultScript is the bootstrap script shipped with the exemplar; it is
	// dropped from the index when the new project is committed.
	DefaultScript = "new_project_from_exemplar.py"
)

// NewDefaults returns a Config describing the upstream exemplar layout.
// Owner is left empty; Resolve fills it from the invoking user.
func NewDefaults() *Config {
	return &Config{
		Project: ProjectConfig{
			Paper:       DefaultPaper,
			CppVersion:  DefaultCppVersion,
			Description: DefaultDescription,
		},
		Layout: LayoutConfig{
			Placeholder:        DefaultPlaceholder,
			Subtrees:           []string{"src/beman", "include/beman", "tests/beman"},
			ExtraTrees:         []string{"examples", ".github/workflows"},
			Readme:             "README.md",
			BuildFile:          "CMakeLists.txt",
			DescriptionKeyword: "DESCRIPTION",
			PresetsFile:        "CMakePresets.json",
			StandardKey:        `"CMAKE_CXX_STANDARD":`,
			Script:             DefaultScript,
			CommitMessage:      "Ran " + DefaultScript + " on project.",
		},
	}
}

// userEnvVars are consulted in order for the invoking user's login name.
var userEnvVars = []string{"LOGNAME", "USER", "LNAME", "USERNAME"}

// DefaultOwner returns the invoking user's login name, looking at the usual
// environment variables first and the user database second. It returns ""
// when neither source knows the user.
func DefaultOwner(envFn EnvFunc) string {
	if envFn != nil {
		for _, key := range userEnvVars {
			if val, ok := envFn(key); ok && val != "" {
				return val
			}
		}
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
