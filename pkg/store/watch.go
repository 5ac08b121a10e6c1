package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/prompt"
)

// Watch invalidates the parsed-document cache when files under the storage
// root change outside this process (an editor save, a git checkout, VS Code
// itself rewriting a prompt file). It blocks until ctx is canceled.
//
// Watching is optional; without it the cache still self-heals on the next
// Read because entries are validated against file size and mtime. The
// watcher just makes external edits visible without waiting for a stat
// mismatch.
func (s *FsStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch prompts directory: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(s.root); err != nil {
		return fmt.Errorf("watch %q: %w", s.root, err)
	}

	logger := log.FromContext(ctx)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if _, _, ok := prompt.SplitFilename(name); !ok {
				continue
			}
			if s.cache.Remove(name) {
				logger.Debug("invalidated cached document", "file", name, "op", event.Op.String())
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompts directory watcher error", "error", watchErr)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
