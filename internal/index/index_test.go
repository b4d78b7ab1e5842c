package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"parch/internal/archive"
	"parch/internal/config"
	"parch/internal/manifest"
)

func fixture(t *testing.T) config.Layout {
	t.Helper()
	layout, err := config.Init(t.TempDir())
	if err != nil {
		t.Fatalf("init layout: %v", err)
	}
	return layout
}

func placeDoc(t *testing.T, layout config.Layout, domain string, stage manifest.Stage, name, body string) string {
	t.Helper()
	doc, err := archive.WriteFrontMatter(archive.Header{
		Domain:     domain,
		Stage:      stage,
		Tags:       []string{"ops"},
		Source:     archive.SourceStagingImport,
		ImportDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
	}, []byte(body))
	if err != nil {
		t.Fatalf("render doc: %v", err)
	}
	dir := filepath.Join(layout.ArchiveDir, domain, string(stage))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func readIndexes(t *testing.T, layout config.Layout) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(layout.IndexDir)
	if err != nil {
		t.Fatalf("read index dir: %v", err)
	}
	out := map[string]string{}
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(layout.IndexDir, entry.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		out[entry.Name()] = string(data)
	}
	return out
}

func TestBuildGroupsAndOrders(t *testing.T) {
	layout := fixture(t)
	placeDoc(t, layout, "tradecraft", manifest.StageFormalized, "zz.md", "formalized doc")
	placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "b.md", "raw doc two")
	placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "a.md", "raw doc one")
	placeDoc(t, layout, "neurobiology", manifest.StageAnalytical, "n.md", "synthesis doc")

	if err := Build(layout); err != nil {
		t.Fatalf("build: %v", err)
	}
	indexes := readIndexes(t, layout)
	if len(indexes) != 2 {
		t.Fatalf("index files = %v, want 2", len(indexes))
	}

	tc, ok := indexes["tradecraft-index.md"]
	if !ok {
		t.Fatalf("missing tradecraft index: %v", indexes)
	}
	if !strings.HasPrefix(tc, "# Index: tradecraft\n") {
		t.Fatalf("index title wrong:\n%s", tc)
	}
	// Stage order first, then filename within a stage.
	aPos := strings.Index(tc, "[a.md]")
	bPos := strings.Index(tc, "[b.md]")
	zPos := strings.Index(tc, "[zz.md]")
	if aPos < 0 || bPos < 0 || zPos < 0 {
		t.Fatalf("entries missing:\n%s", tc)
	}
	if !(aPos < bPos && bPos < zPos) {
		t.Fatalf("entry order wrong (a=%d b=%d zz=%d):\n%s", aPos, bPos, zPos, tc)
	}
	if !strings.Contains(tc, "(../archive/tradecraft/experiential_data/a.md)") {
		t.Fatalf("link target wrong:\n%s", tc)
	}
	if !strings.Contains(tc, "raw doc one...") {
		t.Fatalf("snippet missing:\n%s", tc)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	layout := fixture(t)
	placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "a.md", "alpha body")
	placeDoc(t, layout, "neurobiology", manifest.StageFormalized, "n.md", "nb body")

	if err := Build(layout); err != nil {
		t.Fatalf("first build: %v", err)
	}
	first := readIndexes(t, layout)
	if err := Build(layout); err != nil {
		t.Fatalf("second build: %v", err)
	}
	second := readIndexes(t, layout)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("rebuild is not byte-identical (-first +second):\n%s", diff)
	}
}

func TestBuildRemovesStaleIndexes(t *testing.T) {
	layout := fixture(t)
	path := placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "a.md", "alpha")
	if err := Build(layout); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove doc: %v", err)
	}
	if err := Build(layout); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if _, err := os.Stat(filepath.Join(layout.IndexDir, "tradecraft-index.md")); !os.IsNotExist(err) {
		t.Fatalf("stale index survived: %v", err)
	}
}

func TestScanIgnoresMisplacedFiles(t *testing.T) {
	layout := fixture(t)
	placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "a.md", "alpha")
	// Wrong depth and unknown stage directory are skipped by the indexer;
	// the validate pass is what reports them.
	if err := os.WriteFile(filepath.Join(layout.ArchiveDir, "loose.md"), []byte("loose"), 0o644); err != nil {
		t.Fatalf("write loose: %v", err)
	}
	odd := filepath.Join(layout.ArchiveDir, "tradecraft", "polished")
	if err := os.MkdirAll(odd, 0o755); err != nil {
		t.Fatalf("mkdir odd: %v", err)
	}
	if err := os.WriteFile(filepath.Join(odd, "x.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write odd: %v", err)
	}

	entries, err := Scan(layout)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 1 || entries[0].Filename != "a.md" {
		t.Fatalf("entries = %+v, want just a.md", entries)
	}
}

func TestLinked(t *testing.T) {
	layout := fixture(t)
	a := placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "a.md", "alpha")
	b := placeDoc(t, layout, "tradecraft", manifest.StageAnalytical, "b.md", "beta")
	if err := Build(layout); err != nil {
		t.Fatalf("build: %v", err)
	}
	linked, err := Linked(layout)
	if err != nil {
		t.Fatalf("linked: %v", err)
	}
	// Sorted lexically: analytical_synthesis sorts before experiential_data.
	want := []string{b, a}
	if diff := cmp.Diff(want, linked); diff != "" {
		t.Fatalf("linked mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkedIgnoresSnippetLinks(t *testing.T) {
	layout := fixture(t)
	a := placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "a.md",
		"see my [notes](notes/x.md) for details")
	if err := Build(layout); err != nil {
		t.Fatalf("build: %v", err)
	}
	linked, err := Linked(layout)
	if err != nil {
		t.Fatalf("linked: %v", err)
	}
	// Only the entry heading counts; the link quoted in the snippet is
	// document content.
	if diff := cmp.Diff([]string{a}, linked); diff != "" {
		t.Fatalf("linked mismatch (-want +got):\n%s", diff)
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet([]byte("one  two\nthree"), 2); got != "one two" {
		t.Fatalf("snippet = %q", got)
	}
	if got := Snippet([]byte("  "), 5); got != "" {
		t.Fatalf("blank snippet = %q", got)
	}
}
