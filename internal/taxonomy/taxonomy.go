// Package taxonomy loads the controlled vocabulary the classifier validates
// against: the set of valid pattern domains and pattern tags. Definitions
// live in declarative YAML files (taxonomy/domains.yaml, taxonomy/tags.yaml)
// and are loaded once at startup; a Taxonomy never changes during a run.
package taxonomy

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DomainsFile is the file name of the domain definitions.
	DomainsFile = "domains.yaml"
	// TagsFile is the file name of the tag definitions.
	TagsFile = "tags.yaml"
)

// Entry is one taxonomy definition. In YAML an entry may be either a bare
// string or a mapping with id and description.
type Entry struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.ID = strings.TrimSpace(node.Value)
		e.Description = ""
		return nil
	}
	type plain Entry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	e.ID = strings.TrimSpace(p.ID)
	e.Description = strings.TrimSpace(p.Description)
	return nil
}

// Taxonomy is the immutable set of valid domains and tags for a run.
type Taxonomy struct {
	domains map[string]Entry
	tags    map[string]Entry
}

// Load reads the domain and tag definition files from dir. Missing files
// yield empty sets rather than an error so a fresh archive validates
// everything as unknown instead of failing outright.
func Load(dir string) (*Taxonomy, error) {
	domains, err := loadFile(filepath.Join(dir, DomainsFile))
	if err != nil {
		return nil, err
	}
	tags, err := loadFile(filepath.Join(dir, TagsFile))
	if err != nil {
		return nil, err
	}
	return &Taxonomy{domains: indexEntries(domains), tags: indexEntries(tags)}, nil
}

// ParseEntries decodes and validates a single definition payload.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("taxonomy: decode definitions: %w", err)
	}
	seen := map[string]struct{}{}
	for i, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("taxonomy: entry %d has no id", i)
		}
		if _, ok := seen[entry.ID]; ok {
			return nil, fmt.Errorf("taxonomy: duplicate id %q", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return entries, nil
}

func loadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("taxonomy: read %s: %w", path, err)
	}
	entries, err := ParseEntries(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %s: %w", path, err)
	}
	return entries, nil
}

func indexEntries(entries []Entry) map[string]Entry {
	index := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		index[entry.ID] = entry
	}
	return index
}

// HasDomain reports whether id is a valid pattern domain.
func (t *Taxonomy) HasDomain(id string) bool {
	_, ok := t.domains[id]
	return ok
}

// HasTag reports whether id is a valid pattern tag.
func (t *Taxonomy) HasTag(id string) bool {
	_, ok := t.tags[id]
	return ok
}

// Domains returns the valid domain identifiers sorted for stable reporting.
func (t *Taxonomy) Domains() []string {
	return sortedKeys(t.domains)
}

// Tags returns the valid tag identifiers sorted for stable reporting.
func (t *Taxonomy) Tags() []string {
	return sortedKeys(t.tags)
}

func sortedKeys(entries map[string]Entry) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
