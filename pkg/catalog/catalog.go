// Package catalog maintains a locally cached snapshot of the remote index
// of installable prompt documents, with lazy TTL-based refresh and search.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/modekit/modekit/pkg/prompt"
)

// Entry is one installable document advertised by the library index.
type Entry struct {
	Name        string      `json:"name"`
	Kind        prompt.Kind `json:"kind"`
	URL         string      `json:"url"`
	Description string      `json:"description,omitempty"`
	Author      string      `json:"author,omitempty"`
	License     string      `json:"license,omitempty"`
	Category    string      `json:"category,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
}

// Snapshot is one wholesale fetch of the library index. Refreshes replace
// the snapshot entirely; entries are never merged across fetches.
type Snapshot struct {
	Entries   []Entry       `json:"entries"`
	FetchedAt time.Time     `json:"fetched_at"`
	TTL       time.Duration `json:"ttl"`

	// Stale marks a snapshot served past its TTL because a refresh failed.
	Stale bool `json:"-"`
}

// IsStale reports whether the snapshot has outlived its TTL at now.
func (s *Snapshot) IsStale(now time.Time) bool {
	return now.Sub(s.FetchedAt) > s.TTL
}

// Clone returns a copy whose entry slice is independent of the receiver.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Entries = make([]Entry, len(s.Entries))
	copy(out.Entries, s.Entries)
	for i := range out.Entries {
		out.Entries[i].Tags = append([]string(nil), s.Entries[i].Tags...)
	}
	return &out
}

// index is the wire shape of the remote library file: document entries are
// grouped by kind, so the kind field on each entry comes from the group it
// sits in rather than from the entry itself.
type index struct {
	Name         string       `json:"name,omitempty"`
	Updated      string       `json:"updated,omitempty"`
	Chatmodes    []indexEntry `json:"chatmodes"`
	Instructions []indexEntry `json:"instructions"`
}

type indexEntry struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	License     string   `json:"license,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ParseIndex decodes a library index document into entries. Chatmodes come
// first, in file order, then instructions. A duplicate name anywhere in the
// index makes the whole document invalid.
func ParseIndex(raw []byte) ([]Entry, error) {
	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("decode library index: %w", err)
	}

	entries := make([]Entry, 0, len(idx.Chatmodes)+len(idx.Instructions))
	seen := make(map[string]bool)
	add := func(kind prompt.Kind, in []indexEntry) error {
		for _, e := range in {
			if e.Name == "" {
				return fmt.Errorf("library index: %s entry without a name", kind)
			}
			if e.URL == "" {
				return fmt.Errorf("library index: entry %q without a url", e.Name)
			}
			if seen[e.Name] {
				return fmt.Errorf("library index: duplicate entry %q", e.Name)
			}
			seen[e.Name] = true
			entries = append(entries, Entry{
				Name:        e.Name,
				Kind:        kind,
				URL:         e.URL,
				Description: e.Description,
				Author:      e.Author,
				License:     e.License,
				Category:    e.Category,
				Tags:        append([]string(nil), e.Tags...),
			})
		}
		return nil
	}
	if err := add(prompt.KindChatmode, idx.Chatmodes); err != nil {
		return nil, err
	}
	if err := add(prompt.KindInstruction, idx.Instructions); err != nil {
		return nil, err
	}
	return entries, nil
}
