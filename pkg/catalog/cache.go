package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/prompt"
)

// DefaultTTL is how long a snapshot is served without a refresh. The index
// changes rarely; a day keeps browse snappy while staying reasonably fresh.
const DefaultTTL = 24 * time.Hour

// Cache owns the lifecycle of the library snapshot: lazy TTL checks on each
// Get, refresh through a single in-flight fetch, and a JSON copy on disk so
// a fresh process starts from the last good snapshot instead of the network.
//
// Refresh failures degrade: when any snapshot exists (even past its TTL) it
// is returned flagged stale; only with no snapshot at all does Get fail with
// prompt.ErrCatalogUnavailable.
type Cache struct {
	url  string
	path string
	ttl  time.Duration
	deps *prompt.Deps

	mu     sync.Mutex
	snap   *Snapshot
	loaded bool

	group singleflight.Group
}

// NewCache creates a cache for the index at url, persisting snapshots to
// path. ttl <= 0 selects DefaultTTL.
func NewCache(url, path string, ttl time.Duration, opts ...prompt.Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		url:  url,
		path: path,
		ttl:  ttl,
		deps: prompt.NewDeps(opts...),
	}
}

// Get returns the current snapshot, refreshing first when it is absent,
// stale, or forceRefresh is set.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (*Snapshot, error) {
	now := c.deps.Clock.Now()

	c.mu.Lock()
	c.loadDiskLocked(ctx)
	snap := c.snap
	c.mu.Unlock()

	if snap != nil && !forceRefresh && !snap.IsStale(now) {
		return snap.Clone(), nil
	}

	fresh, err, _ := c.group.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err == nil {
		return fresh.(*Snapshot).Clone(), nil
	}

	if snap != nil {
		log.FromContext(ctx).Warn("library refresh failed, serving cached snapshot",
			"error", err, "fetched_at", snap.FetchedAt)
		stale := snap.Clone()
		stale.Stale = true
		return stale, nil
	}
	return nil, fmt.Errorf("%w: %v", prompt.ErrCatalogUnavailable, err)
}

// refresh fetches and decodes the index, then replaces the in-memory and
// on-disk snapshots wholesale.
func (c *Cache) refresh(ctx context.Context) (*Snapshot, error) {
	raw, err := c.deps.Fetcher.Fetch(ctx, c.url)
	if err != nil {
		return nil, err
	}
	entries, err := ParseIndex(raw)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Entries:   entries,
		FetchedAt: c.deps.Clock.Now(),
		TTL:       c.ttl,
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	if err := c.persist(snap); err != nil {
		log.FromContext(ctx).Warn("unable to persist library snapshot", "path", c.path, "error", err)
	}
	return snap, nil
}

// loadDiskLocked pulls the persisted snapshot into memory once per process.
// Corrupt or missing files are treated as no snapshot.
func (c *Cache) loadDiskLocked(ctx context.Context) {
	if c.loaded || c.snap != nil || c.path == "" {
		return
	}
	c.loaded = true

	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.FromContext(ctx).Warn("unable to read library snapshot", "path", c.path, "error", err)
		}
		return
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.FromContext(ctx).Warn("discarding corrupt library snapshot", "path", c.path, "error", err)
		return
	}
	snap.TTL = c.ttl
	c.snap = &snap
}

func (c *Cache) persist(snap *Snapshot) error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
