package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the optional per-template configuration file.
const ConfigFileName = "beman-init.toml"

// FindConfigFile walks up from startDir looking for beman-init.toml and
// returns its absolute path, or "" if the filesystem root is reached first.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromFile decodes the TOML file at path. The returned metadata reports
// keys that did not map onto Config (see Validate).
func LoadFromFile(path string) (*Config, toml.MetaData, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, md, fmt.Errorf("loading config %s: %w", path, err)
	}
	return &cfg, md, nil
}

// Load returns the file layer for a run. An explicit path must exist; with
// no explicit path the file is searched for from startDir and its absence is
// not an error. The returned path is "" when no file was used.
func Load(explicitPath, startDir string) (*Config, *toml.MetaData, string, error) {
	path := explicitPath
	if path == "" {
		found, err := FindConfigFile(startDir)
		if err != nil {
			return nil, nil, "", err
		}
		if found == "" {
			return nil, nil, "", nil
		}
		path = found
	}

	cfg, md, err := LoadFromFile(path)
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, &md, path, nil
}
