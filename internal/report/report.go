// Package report aggregates archive statistics for display: document counts
// per domain, per maturation stage, and per tag. It reads the archive tree
// and the document headers; nothing is written.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"parch/internal/archive"
	"parch/internal/config"
	"parch/internal/index"
	"parch/internal/manifest"
)

// Stats holds the aggregated counts. Tags are multi-valued per document, so
// tag counts may sum to more than Total.
type Stats struct {
	Total   int
	Domains map[string]int
	Stages  map[manifest.Stage]int
	Tags    map[string]int
}

// Collect scans the archive tree and tallies counts. Domain and stage come
// from tree placement; tags come from each document's header.
func Collect(layout config.Layout) (Stats, error) {
	entries, err := index.Scan(layout)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		Domains: map[string]int{},
		Stages:  map[manifest.Stage]int{},
		Tags:    map[string]int{},
	}
	for _, entry := range entries {
		stats.Total++
		stats.Domains[entry.Domain]++
		stats.Stages[entry.Stage]++
		for _, tag := range entryTags(entry) {
			stats.Tags[tag]++
		}
	}
	return stats, nil
}

// entryTags reads the document header for its tag list. Documents with a
// missing or malformed header count toward totals but not toward any tag;
// the validate pass reports them.
func entryTags(entry index.Entry) []string {
	content, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil
	}
	header, _, err := archive.ParseFrontMatter(content)
	if err != nil {
		return nil
	}
	return header.Tags
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	labelStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

// Render formats the stats for the terminal.
func Render(stats Stats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pattern Archive Report"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total documents: %s\n", countStyle.Render(fmt.Sprintf("%d", stats.Total)))

	b.WriteString(sectionStyle.Render("By domain"))
	b.WriteString("\n")
	writeCounts(&b, stringKeys(stats.Domains), func(k string) int { return stats.Domains[k] })

	b.WriteString(sectionStyle.Render("By maturation stage"))
	b.WriteString("\n")
	for _, stage := range manifest.Stages() {
		if count, ok := stats.Stages[stage]; ok {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(string(stage)+":"), countStyle.Render(fmt.Sprintf("%d", count)))
		}
	}

	b.WriteString(sectionStyle.Render("By tag"))
	b.WriteString("\n")
	writeCounts(&b, stringKeys(stats.Tags), func(k string) int { return stats.Tags[k] })
	return b.String()
}

func writeCounts(b *strings.Builder, keys []string, count func(string) int) {
	for _, key := range keys {
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render(key+":"), countStyle.Render(fmt.Sprintf("%d", count(key))))
	}
}

func stringKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
