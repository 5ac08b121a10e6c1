package modekit

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/prompt"
)

// Summary is one row of a listing: identifier plus the presentation fields
// pulled from the document header and body.
type Summary struct {
	Name        string
	Kind        prompt.Kind
	Description string
	Title       string
	Lead        string
	SourceURL   string
}

// listConcurrency caps parallel document reads during a listing.
const listConcurrency = 8

// List names the stored documents of a kind, ordered by name.
func (m *Manager) List(ctx context.Context, kind prompt.Kind) ([]string, error) {
	return m.store.List(kind)
}

// ListSummaries reads every document of a kind and summarizes it. Documents
// that fail to parse are reported with an empty description rather than
// failing the whole listing; the failure is logged.
func (m *Manager) ListSummaries(ctx context.Context, kind prompt.Kind) ([]Summary, error) {
	names, err := m.store.List(kind)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, name := range names {
		g.Go(func() error {
			s := Summary{Name: name, Kind: kind}
			doc, err := m.store.Read(name, kind)
			if err != nil {
				log.FromContext(ctx).Warn("skipping unreadable document in listing",
					"name", name, "kind", kind, "error", err)
				summaries[i] = s
				return nil
			}
			s.Description = doc.Description()
			s.SourceURL = doc.SourceURL()
			p := prompt.ExtractPreview(doc.Body)
			s.Title = p.Title
			s.Lead = p.Lead
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}
