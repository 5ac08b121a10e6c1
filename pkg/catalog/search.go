package catalog

import (
	"fmt"
	"strings"

	"github.com/modekit/modekit/pkg/prompt"
)

// Search filters snapshot entries. query is matched case-insensitively as a
// substring of name, description, or any tag; category matches the entry's
// kind, category, or a tag. Empty filters match everything; both compose
// with AND.
func Search(snap *Snapshot, query, category string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.ToLower(strings.TrimSpace(category))

	var out []Entry
	for _, e := range snap.Entries {
		if query != "" && !matchQuery(e, query) {
			continue
		}
		if category != "" && !matchCategory(e, category) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Resolve finds the entry named exactly name (case-sensitive).
func Resolve(snap *Snapshot, name string) (Entry, error) {
	for _, e := range snap.Entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: library entry %q", prompt.ErrNotFound, name)
}

func matchQuery(e Entry, query string) bool {
	if strings.Contains(strings.ToLower(e.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Description), query) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func matchCategory(e Entry, category string) bool {
	if strings.ToLower(string(e.Kind)) == category {
		return true
	}
	if strings.ToLower(e.Category) == category {
		return true
	}
	for _, tag := range e.Tags {
		if strings.ToLower(tag) == category {
			return true
		}
	}
	return false
}
