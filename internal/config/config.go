// Package config loads the optional .relnotes.yaml file from the repository
// root. The engine itself is configuration-free (the tag pattern is an
// argument on every call); this file only supplies CLI defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up at the repository root.
const FileName = ".relnotes.yaml"

// Config holds CLI defaults.
type Config struct {
	// TagPattern is the release tag glob, e.g. "rel-*".
	TagPattern string `yaml:"tag_pattern"`

	// IssuesDir is the issue-file directory name relative to the
	// repository root.
	IssuesDir string `yaml:"issues_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		TagPattern: "rel-*",
		IssuesDir:  "issues",
	}
}

// Load reads .relnotes.yaml under root. A missing file yields Default();
// a malformed file is an error. Fields left empty in the file keep their
// defaults.
func Load(root string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if cfg.TagPattern == "" {
		cfg.TagPattern = Default().TagPattern
	}
	if cfg.IssuesDir == "" {
		cfg.IssuesDir = Default().IssuesDir
	}
	return cfg, nil
}
