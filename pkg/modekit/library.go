package modekit

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/modekit/modekit/pkg/catalog"
	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/prompt"
)

// BrowseResult carries the filtered entries plus whether they came from a
// snapshot served past its TTL because a refresh failed.
type BrowseResult struct {
	Entries []catalog.Entry
	Stale   bool
}

// Browse searches the library index. Both filters are optional and compose
// with AND.
func (m *Manager) Browse(ctx context.Context, query, category string) (*BrowseResult, error) {
	snap, err := m.library.Get(ctx, false)
	if err != nil {
		return nil, err
	}
	return &BrowseResult{
		Entries: catalog.Search(snap, query, category),
		Stale:   snap.Stale,
	}, nil
}

// RefreshLibrary forces a fetch of the library index, replacing any cached
// snapshot.
func (m *Manager) RefreshLibrary(ctx context.Context) (*catalog.Snapshot, error) {
	snap, err := m.library.Get(ctx, true)
	if err != nil {
		return nil, err
	}
	if snap.Stale {
		log.FromContext(ctx).Warn("library refresh failed, snapshot unchanged",
			"fetched_at", snap.FetchedAt)
	}
	return snap, nil
}

// InstallInput selects a library entry by its exact name. As overrides the
// local identifier the document is stored under.
type InstallInput struct {
	Name string
	As   string
}

func (in InstallInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.As, nameRule),
	)
}

// Install fetches a library entry's document and stores it locally with its
// source_url recorded, enabling later UpdateFromSource calls. Installing
// over an existing document fails with prompt.ErrExists.
func (m *Manager) Install(ctx context.Context, in InstallInput) (*prompt.Document, error) {
	if err := m.mutable(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	snap, err := m.library.Get(ctx, false)
	if err != nil {
		return nil, err
	}
	entry, err := catalog.Resolve(snap, in.Name)
	if err != nil {
		return nil, err
	}

	name := prompt.NormalizeName(in.As, entry.Kind)
	if name == "" {
		name = prompt.NormalizeName(entry.Name, entry.Kind)
	}

	raw, err := m.deps.Fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		return nil, err
	}
	doc, err := prompt.Parse(name, entry.Kind, raw)
	if err != nil {
		return nil, err
	}
	doc.SetSourceURL(entry.URL)

	if err := m.store.Write(doc, false); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("installed document from library",
		"name", name, "kind", entry.Kind, "source", entry.URL)
	return doc, nil
}
