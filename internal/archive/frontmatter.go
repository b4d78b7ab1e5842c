package archive

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"parch/internal/manifest"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("archive: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("archive: malformed frontmatter")
)

// SourceStagingImport is the constant provenance source stamped into every
// header written by the archiver.
const SourceStagingImport = "staging-import"

// TemporalContext records when the underlying experience happened versus
// when it was analyzed and archived.
type TemporalContext struct {
	ExperienceDate string `yaml:"experience_date,omitempty"`
	AnalysisDate   string `yaml:"analysis_date,omitempty"`
}

// Header is the metadata block prepended to every archived document. The
// yaml tags define the on-disk key set.
type Header struct {
	Domain                 string          `yaml:"domain"`
	Stage                  manifest.Stage  `yaml:"stage"`
	Tags                   []string        `yaml:"tags"`
	ValidationStatus       string          `yaml:"validation_status,omitempty"`
	InstructionalReadiness string          `yaml:"instructional_readiness,omitempty"`
	Temporal               TemporalContext `yaml:"temporal_context,omitempty"`
	Provenance             string          `yaml:"provenance,omitempty"`
	Source                 string          `yaml:"source"`
	SourceURL              string          `yaml:"source_url,omitempty"`
	RelatedLinks           []string        `yaml:"related_links,omitempty"`
	ImportDate             string          `yaml:"import_date"`
}

// Validate ensures the header carries the fields the tree placement depends on.
func (h Header) Validate() error {
	if h.Domain == "" {
		return fmt.Errorf("archive: header missing domain")
	}
	if h.Stage.Order() < 0 {
		return fmt.Errorf("archive: header has unknown stage %q", h.Stage)
	}
	return nil
}

// ParseFrontMatter extracts the header and body from a document that starts
// with `---` YAML fences.
func ParseFrontMatter(content []byte) (Header, []byte, error) {
	meta, body, err := splitFrontMatter(content)
	if err != nil {
		return Header{}, nil, err
	}
	var header Header
	if err := yaml.Unmarshal(meta, &header); err != nil {
		return Header{}, nil, fmt.Errorf("archive: parse frontmatter: %w", err)
	}
	if err := header.Validate(); err != nil {
		return Header{}, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	return header, body, nil
}

// WriteFrontMatter renders the header + body with YAML fences.
func WriteFrontMatter(header Header, body []byte) ([]byte, error) {
	if err := header.Validate(); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("archive: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// StripFrontMatter returns the body of a document, dropping any leading YAML
// fence block. Documents without one pass through unchanged. Re-archival of
// an already-archived file must not stack headers.
func StripFrontMatter(content []byte) []byte {
	_, body, err := splitFrontMatter(content)
	if err != nil {
		return content
	}
	return body
}

func splitFrontMatter(content []byte) ([]byte, []byte, error) {
	if len(content) == 0 {
		return nil, nil, ErrMissingFrontMatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return nil, nil, ErrMalformedFrontMatter
	}
	body := bytes.TrimPrefix(parts[1], []byte("\n"))
	return parts[0], body, nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
