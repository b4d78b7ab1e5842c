// Package config handles the .parch directory and the on-disk layout of an
// archive root. Every directory managed by parch gets a .parch/ folder
// holding the project configuration and logs; the remaining layout (staging
// area, archive tree, taxonomy, indexes, manifest) is configurable but
// defaults to the conventional names below.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ParchDir is the name of the dot-directory created in each archive root.
	ParchDir = ".parch"
	// ConfigFile is the project configuration file inside ParchDir.
	ConfigFile = "config.yaml"
)

const defaultConfigYAML = `# parch project configuration
version: 1

# On-disk layout, relative to the archive root. Edit before the first run if
# you want different directory names; changing them later orphans existing
# files.
paths:
  staging: staging
  archive: archive
  taxonomy: taxonomy
  indexes: _indexes
  manifest: manifest.csv
`

// PathsConfig names the pipeline directories relative to the archive root.
type PathsConfig struct {
	Staging  string `yaml:"staging"`
	Archive  string `yaml:"archive"`
	Taxonomy string `yaml:"taxonomy"`
	Indexes  string `yaml:"indexes"`
	Manifest string `yaml:"manifest"`
}

// ProjectConfig models .parch/config.yaml.
type ProjectConfig struct {
	Version int         `yaml:"version"`
	Paths   PathsConfig `yaml:"paths"`
}

// Layout holds the resolved absolute paths every component works against.
// Components receive a Layout explicitly instead of consulting globals.
type Layout struct {
	Root        string
	StagingDir  string
	ArchiveDir  string
	TaxonomyDir string
	IndexDir    string
	Manifest    string
	LogDir      string
}

func defaultPaths() PathsConfig {
	return PathsConfig{
		Staging:  "staging",
		Archive:  "archive",
		Taxonomy: "taxonomy",
		Indexes:  "_indexes",
		Manifest: "manifest.csv",
	}
}

// Init creates the .parch structure plus the pipeline directories in root
// and writes the default config when none exists. Safe to run repeatedly.
func Init(root string) (Layout, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("config: resolve root %s: %w", root, err)
	}
	parchDir := filepath.Join(absRoot, ParchDir)
	if err := ensureConfigFile(filepath.Join(parchDir, ConfigFile)); err != nil {
		return Layout{}, err
	}
	layout, err := Load(absRoot)
	if err != nil {
		return Layout{}, err
	}
	dirs := []string{
		layout.LogDir,
		layout.StagingDir,
		layout.ArchiveDir,
		layout.TaxonomyDir,
		layout.IndexDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Layout{}, fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return layout, nil
}

// Load reads .parch/config.yaml under root and resolves the layout. A root
// without a .parch directory returns an error telling the operator to init.
func Load(root string) (Layout, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("config: resolve root %s: %w", root, err)
	}
	path := filepath.Join(absRoot, ParchDir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Layout{}, fmt.Errorf("config: %s is not a parch archive (run `parch init` first)", absRoot)
		}
		return Layout{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var project ProjectConfig
	if err := yaml.Unmarshal(data, &project); err != nil {
		return Layout{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	paths := project.Paths
	defaults := defaultPaths()
	if strings.TrimSpace(paths.Staging) == "" {
		paths.Staging = defaults.Staging
	}
	if strings.TrimSpace(paths.Archive) == "" {
		paths.Archive = defaults.Archive
	}
	if strings.TrimSpace(paths.Taxonomy) == "" {
		paths.Taxonomy = defaults.Taxonomy
	}
	if strings.TrimSpace(paths.Indexes) == "" {
		paths.Indexes = defaults.Indexes
	}
	if strings.TrimSpace(paths.Manifest) == "" {
		paths.Manifest = defaults.Manifest
	}
	return Layout{
		Root:        absRoot,
		StagingDir:  filepath.Join(absRoot, paths.Staging),
		ArchiveDir:  filepath.Join(absRoot, paths.Archive),
		TaxonomyDir: filepath.Join(absRoot, paths.Taxonomy),
		IndexDir:    filepath.Join(absRoot, paths.Indexes),
		Manifest:    filepath.Join(absRoot, paths.Manifest),
		LogDir:      filepath.Join(absRoot, ParchDir, "logs"),
	}, nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: ensure %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default config: %w", err)
	}
	return nil
}
