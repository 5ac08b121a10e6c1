package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modekit/modekit/pkg/catalog"
	"github.com/modekit/modekit/pkg/prompt"
)

const sampleIndex = `{
  "name": "Mode Library",
  "updated": "2026-03-01",
  "chatmodes": [
    {
      "name": "Planner",
      "url": "https://example.com/planner.chatmode.md",
      "description": "Break work into steps",
      "author": "Ada",
      "license": "MIT",
      "category": "productivity",
      "tags": ["planning", "agile"]
    },
    {
      "name": "Reviewer",
      "url": "https://example.com/reviewer.chatmode.md",
      "description": "Code review focus",
      "tags": ["review"]
    }
  ],
  "instructions": [
    {
      "name": "Go Style",
      "url": "https://example.com/go-style.instruction.md",
      "description": "Idiomatic Go conventions",
      "category": "development",
      "tags": ["go", "style"]
    }
  ]
}`

func TestParseIndex(t *testing.T) {
	entries, err := catalog.ParseIndex([]byte(sampleIndex))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Planner", entries[0].Name)
	assert.Equal(t, prompt.KindChatmode, entries[0].Kind)
	assert.Equal(t, "https://example.com/planner.chatmode.md", entries[0].URL)
	assert.Equal(t, []string{"planning", "agile"}, entries[0].Tags)

	assert.Equal(t, "Go Style", entries[2].Name)
	assert.Equal(t, prompt.KindInstruction, entries[2].Kind)
}

func TestParseIndexRejectsDuplicateNames(t *testing.T) {
	raw := `{
  "chatmodes": [{"name": "Planner", "url": "https://a"}],
  "instructions": [{"name": "Planner", "url": "https://b"}]
}`
	_, err := catalog.ParseIndex([]byte(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate entry")
}

func TestParseIndexRejectsMissingFields(t *testing.T) {
	_, err := catalog.ParseIndex([]byte(`{"chatmodes": [{"url": "https://a"}]}`))
	require.Error(t, err)

	_, err = catalog.ParseIndex([]byte(`{"chatmodes": [{"name": "Planner"}]}`))
	require.Error(t, err)

	_, err = catalog.ParseIndex([]byte(`not json`))
	require.Error(t, err)
}

func snapshotFrom(t *testing.T, raw string) *catalog.Snapshot {
	t.Helper()
	entries, err := catalog.ParseIndex([]byte(raw))
	require.NoError(t, err)
	return &catalog.Snapshot{Entries: entries}
}

func TestSearch(t *testing.T) {
	snap := snapshotFrom(t, sampleIndex)

	names := func(entries []catalog.Entry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.Name)
		}
		return out
	}

	// no filters: everything, in index order
	assert.Equal(t, []string{"Planner", "Reviewer", "Go Style"}, names(catalog.Search(snap, "", "")))

	// case-insensitive substring over name, description, tags
	assert.Equal(t, []string{"Planner"}, names(catalog.Search(snap, "PLAN", "")))
	assert.Equal(t, []string{"Reviewer"}, names(catalog.Search(snap, "code review", "")))
	assert.Equal(t, []string{"Go Style"}, names(catalog.Search(snap, "style", "")))

	// category matches kind, category field, or tag
	assert.Equal(t, []string{"Planner", "Reviewer"}, names(catalog.Search(snap, "", "chatmode")))
	assert.Equal(t, []string{"Go Style"}, names(catalog.Search(snap, "", "development")))
	assert.Equal(t, []string{"Planner"}, names(catalog.Search(snap, "", "agile")))

	// filters compose with AND
	assert.Empty(t, catalog.Search(snap, "go", "chatmode"))
	assert.Equal(t, []string{"Go Style"}, names(catalog.Search(snap, "go", "instruction")))
}

func TestResolve(t *testing.T) {
	snap := snapshotFrom(t, sampleIndex)

	entry, err := catalog.Resolve(snap, "Reviewer")
	require.NoError(t, err)
	assert.Equal(t, prompt.KindChatmode, entry.Kind)

	// exact and case-sensitive
	_, err = catalog.Resolve(snap, "reviewer")
	assert.ErrorIs(t, err, prompt.ErrNotFound)
	_, err = catalog.Resolve(snap, "Review")
	assert.ErrorIs(t, err, prompt.ErrNotFound)
}
