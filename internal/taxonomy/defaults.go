package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default definitions seeded into a fresh archive by init. Operators are
// expected to edit these files to match their own vocabulary.
var (
	DefaultDomains = []Entry{
		{ID: "forensic-psychology", Description: "Analysis of psychological manipulation and coercive control."},
		{ID: "tradecraft", Description: "Operational tactics, techniques, and procedures."},
		{ID: "neurobiology", Description: "Biological and neurological impacts of psychological stress."},
		{ID: "social-engineering", Description: "Manipulation of social structures and human behavior."},
		{ID: "tactical-doctrine", Description: "Strategic principles of non-kinetic warfare and asymmetric engagement."},
	}

	DefaultTags = []Entry{
		{ID: "humint", Description: "Human Intelligence"},
		{ID: "non-kinetic", Description: "Non-physical warfare tactics"},
		{ID: "gaslighting", Description: "Psychological manipulation to sow doubt"},
		{ID: "c-ptsd", Description: "Complex Post-Traumatic Stress Disorder"},
		{ID: "civilian-weaponization", Description: "Use of civilians as proxies in conflict"},
		{ID: "smear-campaign", Description: "Systematic reputation destruction"},
		{ID: "cognitive-collapse", Description: "Breakdown of cognitive function under stress"},
		{ID: "plausible-deniability", Description: "Ability to deny involvement in operations"},
		{ID: "code-snippet", Description: "Technical implementation details"},
		{ID: "reflection", Description: "Personal retrospective analysis"},
	}
)

// EnsureDefaults writes the default definition files into dir unless they
// already exist. Existing files are never touched.
func EnsureDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("taxonomy: ensure dir %s: %w", dir, err)
	}
	if err := writeIfMissing(filepath.Join(dir, DomainsFile), DefaultDomains); err != nil {
		return err
	}
	return writeIfMissing(filepath.Join(dir, TagsFile), DefaultTags)
}

func writeIfMissing(path string, entries []Entry) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("taxonomy: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("taxonomy: write %s: %w", path, err)
	}
	return nil
}
