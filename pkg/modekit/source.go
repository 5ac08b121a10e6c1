package modekit

import (
	"context"
	"fmt"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/prompt"
)

// UpdateFromSource re-fetches the document's recorded source_url and merges
// the remote content into the stored document: remote wins on description
// and body, locally added tools survive. Nothing is written when the fetch
// or merge fails.
func (m *Manager) UpdateFromSource(ctx context.Context, kind prompt.Kind, name string) (*prompt.Document, error) {
	if err := m.mutable(); err != nil {
		return nil, err
	}
	name = prompt.NormalizeName(name, kind)

	local, err := m.store.Read(name, kind)
	if err != nil {
		return nil, err
	}
	src := local.SourceURL()
	if src == "" {
		return nil, fmt.Errorf("%w: %s %q", prompt.ErrNoSource, kind, name)
	}

	raw, err := m.deps.Fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	remote, err := prompt.Parse(name, kind, raw)
	if err != nil {
		return nil, err
	}

	merged, err := prompt.Merge(local, remote, src)
	if err != nil {
		return nil, err
	}
	if err := m.store.Write(merged, true); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("updated document from source", "name", name, "kind", kind, "source", src)
	return merged, nil
}
