package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"parch/internal/manifest"
	"parch/internal/taxonomy"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	dir := t.TempDir()
	domains := "- tradecraft\n- neurobiology\n"
	tags := "- ops\n- humint\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, taxonomy.DomainsFile), []byte(domains), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, taxonomy.TagsFile), []byte(tags), 0o644))
	tax, err := taxonomy.Load(dir)
	require.NoError(t, err)
	return tax
}

func kinds(issues []Issue) []Kind {
	out := make([]Kind, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Kind)
	}
	return out
}

func TestClassifyAcceptsValidRow(t *testing.T) {
	tax := testTaxonomy(t)
	rows := []manifest.Row{{
		SourcePath: "staging/a.md",
		Domain:     "tradecraft",
		Stage:      "experiential_data",
		Tags:       []string{"ops"},
	}}
	decisions := Classify(tax, rows)
	require.Len(t, decisions, 1)
	require.True(t, decisions[0].Accepted())
	require.Equal(t, manifest.StageExperiential, decisions[0].Stage)
}

func TestClassifyRejections(t *testing.T) {
	tax := testTaxonomy(t)
	tests := []struct {
		name string
		row  manifest.Row
		want []Kind
	}{
		{
			name: "unknown-domain",
			row:  manifest.Row{SourcePath: "staging/a.md", Domain: "nonexistent-domain", Stage: "experiential_data"},
			want: []Kind{KindUnknownDomain},
		},
		{
			name: "unknown-tag",
			row:  manifest.Row{SourcePath: "staging/a.md", Domain: "tradecraft", Stage: "experiential_data", Tags: []string{"ops", "bogus"}},
			want: []Kind{KindUnknownTag},
		},
		{
			name: "invalid-stage",
			row:  manifest.Row{SourcePath: "staging/a.md", Domain: "tradecraft", Stage: "polished"},
			want: []Kind{KindInvalidStage},
		},
		{
			name: "missing-stage",
			row:  manifest.Row{SourcePath: "staging/a.md", Domain: "tradecraft"},
			want: []Kind{KindInvalidStage},
		},
		{
			name: "everything-wrong",
			row:  manifest.Row{SourcePath: "staging/a.md", Domain: "x", Stage: "y", Tags: []string{"z"}},
			want: []Kind{KindUnknownDomain, KindInvalidStage, KindUnknownTag},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decisions := Classify(tax, []manifest.Row{test.row})
			require.Len(t, decisions, 1)
			require.False(t, decisions[0].Accepted())
			require.Equal(t, test.want, kinds(decisions[0].Issues))
		})
	}
}

func TestClassifyRejectsUnsafeNames(t *testing.T) {
	tax := testTaxonomy(t)
	tests := []struct {
		name string
		row  manifest.Row
	}{
		{
			name: "filename-traversal",
			row:  manifest.Row{SourcePath: "staging/a.md", Filename: "../../escape.md", Domain: "tradecraft", Stage: "experiential_data"},
		},
		{
			name: "filename-separator",
			row:  manifest.Row{SourcePath: "staging/a.md", Filename: "sub/dir.md", Domain: "tradecraft", Stage: "experiential_data"},
		},
		{
			name: "domain-traversal",
			row:  manifest.Row{SourcePath: "staging/a.md", Filename: "a.md", Domain: "../outside", Stage: "experiential_data"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decisions := Classify(tax, []manifest.Row{test.row})
			require.Len(t, decisions, 1)
			require.False(t, decisions[0].Accepted())
			require.Contains(t, kinds(decisions[0].Issues), KindUnsafeName)
		})
	}
}

func TestClassifyDuplicateSourcePath(t *testing.T) {
	tax := testTaxonomy(t)
	rows := []manifest.Row{
		{SourcePath: "staging/a.md", Domain: "tradecraft", Stage: "experiential_data"},
		{SourcePath: "staging/a.md", Domain: "tradecraft", Stage: "experiential_data"},
		{SourcePath: "staging/b.md", Domain: "tradecraft", Stage: "experiential_data"},
	}
	decisions := Classify(tax, rows)
	require.Len(t, decisions, 3)
	require.True(t, decisions[0].Accepted(), "first occurrence stays accepted")
	require.Equal(t, []Kind{KindDuplicateSourcePath}, kinds(decisions[1].Issues))
	require.True(t, decisions[2].Accepted(), "one row's rejection never blocks others")
}

func TestSortIssues(t *testing.T) {
	issues := []Issue{
		{Kind: KindOrphanedFile, Path: "b.md"},
		{Kind: KindUnknownTag, Path: "a.md"},
		{Kind: KindBrokenLink, Path: "a.md"},
	}
	SortIssues(issues)
	require.Equal(t, []Issue{
		{Kind: KindBrokenLink, Path: "a.md"},
		{Kind: KindUnknownTag, Path: "a.md"},
		{Kind: KindOrphanedFile, Path: "b.md"},
	}, issues)
}
