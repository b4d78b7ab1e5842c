package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"parch/internal/archive"
	"parch/internal/config"
	"parch/internal/manifest"
)

func placeDoc(t *testing.T, layout config.Layout, domain string, stage manifest.Stage, name string, tags []string) {
	t.Helper()
	doc, err := archive.WriteFrontMatter(archive.Header{
		Domain:     domain,
		Stage:      stage,
		Tags:       tags,
		Source:     archive.SourceStagingImport,
		ImportDate: "2026-08-28",
	}, []byte("body of "+name+"\n"))
	require.NoError(t, err)
	dir := filepath.Join(layout.ArchiveDir, domain, string(stage))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), doc, 0o644))
}

func TestCollect(t *testing.T) {
	layout, err := config.Init(t.TempDir())
	require.NoError(t, err)
	placeDoc(t, layout, "tradecraft", manifest.StageExperiential, "a.md", []string{"ops", "humint"})
	placeDoc(t, layout, "tradecraft", manifest.StageAnalytical, "b.md", []string{"ops"})
	placeDoc(t, layout, "neurobiology", manifest.StageExperiential, "c.md", nil)

	stats, err := Collect(layout)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Total)
	if diff := cmp.Diff(map[string]int{"tradecraft": 2, "neurobiology": 1}, stats.Domains); diff != "" {
		t.Fatalf("domains (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[manifest.Stage]int{
		manifest.StageExperiential: 2,
		manifest.StageAnalytical:   1,
	}, stats.Stages); diff != "" {
		t.Fatalf("stages (-want +got):\n%s", diff)
	}
	// Tag counts sum past Total because tags are multi-valued.
	if diff := cmp.Diff(map[string]int{"ops": 2, "humint": 1}, stats.Tags); diff != "" {
		t.Fatalf("tags (-want +got):\n%s", diff)
	}
}

func TestCollectEmptyArchive(t *testing.T) {
	layout, err := config.Init(t.TempDir())
	require.NoError(t, err)
	stats, err := Collect(layout)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Total)
	require.Empty(t, stats.Domains)
}

func TestRenderListsEverySection(t *testing.T) {
	stats := Stats{
		Total:   2,
		Domains: map[string]int{"tradecraft": 2},
		Stages:  map[manifest.Stage]int{manifest.StageExperiential: 2},
		Tags:    map[string]int{"ops": 2},
	}
	out := Render(stats)
	for _, want := range []string{"Total documents", "By domain", "tradecraft", "By maturation stage", "experiential_data", "By tag", "ops"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render output missing %q:\n%s", want, out)
		}
	}
}
