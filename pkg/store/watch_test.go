package store_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/prompt"
)

func TestWatchInvalidatesOnExternalEdit(t *testing.T) {
	s := newTestStore(t)
	doc := prompt.NewDocument("planner", prompt.KindChatmode, "d", "body\n", []string{"search"})
	require.NoError(t, s.Write(doc, false))

	// populate the cache
	_, err := s.Read("planner", prompt.KindChatmode)
	require.NoError(t, err)

	logger, handler := log.NewTestLogger(t, slog.LevelDebug)
	ctx, cancel := context.WithCancel(log.ContextWithLogger(context.Background(), logger))
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// let the watcher attach before touching the file
	time.Sleep(50 * time.Millisecond)

	path := filepath.Join(s.Root(), "planner.chatmode.md")
	raw := "---\ndescription: edited outside\n---\nnew body\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	require.Eventually(t, func() bool {
		return len(log.FindEntries(handler, func(e log.LoggedEntry) bool {
			return e.Msg == "invalidated cached document"
		})) > 0
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	got, err := s.Read("planner", prompt.KindChatmode)
	require.NoError(t, err)
	assert.Equal(t, "edited outside", got.Description())
}

func TestWatchIgnoresUnrelatedFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Root(), 0o755))

	logger, handler := log.NewTestLogger(t, slog.LevelDebug)
	ctx, cancel := context.WithCancel(log.ContextWithLogger(context.Background(), logger))
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "notes.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, log.FindEntries(handler, func(e log.LoggedEntry) bool {
		return e.Msg == "invalidated cached document"
	}))

	cancel()
	<-done
}
