package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modekit/modekit/pkg/catalog"
	"github.com/modekit/modekit/pkg/internal"
	"github.com/modekit/modekit/pkg/prompt"
)

// scriptedFetcher returns canned payloads and counts calls.
type scriptedFetcher struct {
	payload []byte
	err     error
	calls   int
}

func (f *scriptedFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

const indexURL = "https://example.com/library.json"

func TestCacheGetFetchesOnceWithinTTL(t *testing.T) {
	fetcher := &scriptedFetcher{payload: []byte(sampleIndex)}
	clock := internal.NewFixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	c := catalog.NewCache(indexURL, filepath.Join(t.TempDir(), "library.json"), time.Hour,
		prompt.WithFetcher(fetcher), prompt.WithClock(clock))

	snap, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 3)
	assert.False(t, snap.Stale)
	assert.Equal(t, clock.Now(), snap.FetchedAt)

	// second call within the TTL never touches the network
	_, err = c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCacheForceRefresh(t *testing.T) {
	fetcher := &scriptedFetcher{payload: []byte(sampleIndex)}
	c := catalog.NewCache(indexURL, "", time.Hour, prompt.WithFetcher(fetcher))

	_, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestCacheServesCachedOnFetchFailure(t *testing.T) {
	fetcher := &scriptedFetcher{payload: []byte(sampleIndex)}
	clock := internal.NewFixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	c := catalog.NewCache(indexURL, "", time.Hour,
		prompt.WithFetcher(fetcher), prompt.WithClock(clock))

	_, err := c.Get(context.Background(), false)
	require.NoError(t, err)

	// the network goes away and the snapshot ages past its TTL
	fetcher.err = errors.New("connection refused")
	clock.Set(clock.Now().Add(2 * time.Hour))

	snap, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, snap.Stale)
	assert.Len(t, snap.Entries, 3)
}

func TestCacheFailsWithoutAnySnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{err: errors.New("connection refused")}
	c := catalog.NewCache(indexURL, "", time.Hour, prompt.WithFetcher(fetcher))

	_, err := c.Get(context.Background(), false)
	assert.ErrorIs(t, err, prompt.ErrCatalogUnavailable)
}

func TestCacheInvalidIndexDegradesLikeFetchFailure(t *testing.T) {
	fetcher := &scriptedFetcher{payload: []byte(sampleIndex)}
	c := catalog.NewCache(indexURL, "", time.Hour, prompt.WithFetcher(fetcher))

	_, err := c.Get(context.Background(), false)
	require.NoError(t, err)

	fetcher.payload = []byte(`{"chatmodes": [{"name": "A", "url": "u"}, {"name": "A", "url": "u"}]}`)
	snap, err := c.Get(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, snap.Stale)
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "library.json")
	fetcher := &scriptedFetcher{payload: []byte(sampleIndex)}
	clock := internal.NewFixedClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	first := catalog.NewCache(indexURL, path, time.Hour,
		prompt.WithFetcher(fetcher), prompt.WithClock(clock))
	_, err := first.Get(context.Background(), false)
	require.NoError(t, err)

	// a new process finds the snapshot on disk and skips the network
	second := catalog.NewCache(indexURL, path, time.Hour,
		prompt.WithFetcher(fetcher), prompt.WithClock(clock))
	snap, err := second.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 3)
	assert.Equal(t, 1, fetcher.calls)
}
