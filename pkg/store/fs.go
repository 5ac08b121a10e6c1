package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/modekit/modekit/pkg/prompt"
)

// BackupTimestampLayout names backups deterministically from the original
// identifier plus creation time: <name>.<kind>.md.bak.<timestamp>.
const BackupTimestampLayout = "20060102T150405Z"

// docCacheSize bounds the parsed-document cache. Prompt directories hold at
// most a few dozen files; 128 is generous.
const docCacheSize = 128

// FsStore implements Store on a local directory. The root is supplied
// already resolved; no OS-specific path logic lives here.
//
// Concurrent operations against different documents proceed in parallel;
// operations against the same document are serialized by a per-identifier
// lock so the backup-then-remove sequence of Delete never interleaves with
// a Write.
type FsStore struct {
	root string
	deps *prompt.Deps

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	cache *lru.Cache[string, cachedDoc]
}

// cachedDoc pairs a parsed document with the file identity it was read
// from. A stat mismatch invalidates the entry.
type cachedDoc struct {
	doc     *prompt.Document
	size    int64
	modTime int64
}

// NewFsStore creates a filesystem store rooted at root. The directory is
// created lazily on first write.
func NewFsStore(root string, opts ...prompt.Option) (*FsStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root required")
	}
	cache, err := lru.New[string, cachedDoc](docCacheSize)
	if err != nil {
		return nil, err
	}
	return &FsStore{
		root:  root,
		deps:  prompt.NewDeps(opts...),
		locks: make(map[string]*sync.Mutex),
		cache: cache,
	}, nil
}

// Root returns the resolved storage root directory.
func (s *FsStore) Root() string { return s.root }

// lockName acquires the per-identifier lock and returns its release func.
func (s *FsStore) lockName(filename string) func() {
	s.mu.Lock()
	l, ok := s.locks[filename]
	if !ok {
		l = &sync.Mutex{}
		s.locks[filename] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *FsStore) path(name string, kind prompt.Kind) string {
	return filepath.Join(s.root, prompt.Filename(name, kind))
}

// Exists implements Store.
func (s *FsStore) Exists(name string, kind prompt.Kind) bool {
	fi, err := os.Stat(s.path(name, kind))
	return err == nil && fi.Mode().IsRegular()
}

// Read implements Store. Parsed documents are cached keyed on file size and
// mtime; hits return a deep copy so callers can mutate freely.
func (s *FsStore) Read(name string, kind prompt.Kind) (*prompt.Document, error) {
	filename := prompt.Filename(name, kind)
	path := filepath.Join(s.root, filename)

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, prompt.NewNotFoundError(name, kind)
		}
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}

	if entry, ok := s.cache.Get(filename); ok {
		if entry.size == fi.Size() && entry.modTime == fi.ModTime().UnixNano() {
			return entry.doc.Clone(), nil
		}
		s.cache.Remove(filename)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, prompt.NewNotFoundError(name, kind)
		}
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	doc, err := prompt.Parse(name, kind, raw)
	if err != nil {
		return nil, err
	}
	s.cache.Add(filename, cachedDoc{doc: doc.Clone(), size: fi.Size(), modTime: fi.ModTime().UnixNano()})
	return doc, nil
}

// ReadRaw implements Store.
func (s *FsStore) ReadRaw(name string, kind prompt.Kind) ([]byte, error) {
	raw, err := os.ReadFile(s.path(name, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, prompt.NewNotFoundError(name, kind)
		}
		return nil, err
	}
	return raw, nil
}

// Write implements Store. The serialized content is written to a temp file
// in the same directory and renamed into place, so a crash mid-write never
// leaves a truncated document behind.
func (s *FsStore) Write(doc *prompt.Document, overwrite bool) error {
	raw, err := prompt.Serialize(doc)
	if err != nil {
		return err
	}

	filename := doc.Filename()
	unlock := s.lockName(filename)
	defer unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create storage root %q: %w", s.root, err)
	}

	path := filepath.Join(s.root, filename)
	if !overwrite {
		if _, statErr := os.Stat(path); statErr == nil {
			return prompt.NewExistsError(doc.Name, doc.Kind)
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("stat %s: %w", filename, statErr)
		}
	}

	// atomic write using temp file in same dir (os.Rename is atomic on POSIX)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write temp %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %q -> %q: %w", tmp, path, err)
	}

	s.cache.Remove(filename)
	return nil
}

// Delete implements Store. The backup must complete before removal; a
// failed backup leaves the original untouched and surfaces as
// prompt.ErrBackupFailed.
func (s *FsStore) Delete(name string, kind prompt.Kind) (*BackupRecord, error) {
	filename := prompt.Filename(name, kind)
	unlock := s.lockName(filename)
	defer unlock()

	path := filepath.Join(s.root, filename)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, prompt.NewNotFoundError(name, kind)
		}
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	now := s.deps.Clock.Now().UTC()
	backupPath, err := s.writeBackup(path, raw, now)
	if err != nil {
		return nil, &prompt.BackupError{Name: name, Path: backupPath, Cause: err}
	}

	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("remove %s: %w", filename, err)
	}
	s.cache.Remove(filename)

	return &BackupRecord{Name: name, Kind: kind, Path: backupPath, CreatedAt: now}, nil
}

// writeBackup copies raw into <path>.bak.<timestamp>, refusing to clobber an
// existing backup. Timestamp collisions get a numeric suffix.
func (s *FsStore) writeBackup(path string, raw []byte, now time.Time) (string, error) {
	base := path + ".bak." + now.Format(BackupTimestampLayout)
	backupPath := base
	for attempt := 2; ; attempt++ {
		f, err := os.OpenFile(backupPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			if _, werr := f.Write(raw); werr != nil {
				_ = f.Close()
				_ = os.Remove(backupPath)
				return backupPath, werr
			}
			if cerr := f.Close(); cerr != nil {
				return backupPath, cerr
			}
			return backupPath, nil
		}
		if !os.IsExist(err) {
			return backupPath, err
		}
		backupPath = fmt.Sprintf("%s-%d", base, attempt)
	}
}

// List implements Store. The listing reads directory entries only; no
// document is parsed.
func (s *FsStore) List(kind prompt.Kind) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		n, k, ok := prompt.SplitFilename(e.Name())
		if !ok || k != kind {
			continue
		}
		if strings.Contains(e.Name(), ".bak.") {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

var _ Store = (*FsStore)(nil)
