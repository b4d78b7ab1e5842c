package archive

import (
	"bytes"
	"errors"
	"testing"

	"parch/internal/manifest"
)

func sampleHeader() Header {
	return Header{
		Domain:                 "tradecraft",
		Stage:                  manifest.StageExperiential,
		Tags:                   []string{"ops", "humint"},
		ValidationStatus:       "single_observation",
		InstructionalReadiness: "internal_reference",
		Temporal:               TemporalContext{ExperienceDate: "2026-08-01", AnalysisDate: "2026-08-28"},
		Provenance:             "personal_documentation",
		Source:                 SourceStagingImport,
		SourceURL:              "https://example.com/src",
		RelatedLinks:           []string{"other.md"},
		ImportDate:             "2026-08-28",
	}
}

func TestFrontMatterRoundTrip(t *testing.T) {
	body := []byte("# Title\n\nSome body text.\n")
	doc, err := WriteFrontMatter(sampleHeader(), body)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	header, parsedBody, err := ParseFrontMatter(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if header.Domain != "tradecraft" || header.Stage != manifest.StageExperiential {
		t.Fatalf("header mismatch: %+v", header)
	}
	if header.Temporal.ExperienceDate != "2026-08-01" {
		t.Fatalf("temporal context lost: %+v", header.Temporal)
	}
	if !bytes.Equal(parsedBody, body) {
		t.Fatalf("body mismatch:\n got %q\nwant %q", parsedBody, body)
	}
}

func TestParseFrontMatterErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrMissingFrontMatter},
		{"no-fence", "# Just markdown\n", ErrMissingFrontMatter},
		{"unterminated", "---\ndomain: x\n", ErrMalformedFrontMatter},
		{"missing-domain", "---\nstage: experiential_data\n---\nbody\n", ErrMalformedFrontMatter},
		{"unknown-stage", "---\ndomain: x\nstage: polished\n---\nbody\n", ErrMalformedFrontMatter},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := ParseFrontMatter([]byte(test.content))
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("err = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestStripFrontMatter(t *testing.T) {
	doc := []byte("---\nanything: goes\n---\nthe body\n")
	if got := StripFrontMatter(doc); string(got) != "the body\n" {
		t.Fatalf("strip = %q", got)
	}
	plain := []byte("no header here\n")
	if got := StripFrontMatter(plain); !bytes.Equal(got, plain) {
		t.Fatalf("plain content should pass through, got %q", got)
	}
	crlf := []byte("---\r\nk: v\r\n---\r\nbody\r\n")
	if got := StripFrontMatter(crlf); string(got) != "body\n" {
		t.Fatalf("crlf strip = %q", got)
	}
}
