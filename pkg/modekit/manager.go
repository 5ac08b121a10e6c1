// Package modekit is the service layer tying the document model, storage
// gateway, merge engine, and library cache together behind the operations
// the MCP server and CLI expose.
package modekit

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/modekit/modekit/pkg/catalog"
	"github.com/modekit/modekit/pkg/prompt"
	"github.com/modekit/modekit/pkg/store"
)

// Manager coordinates operations against the prompts directory and the
// remote library. It holds no document state of its own; every operation
// loads, transforms, and persists a fresh copy.
type Manager struct {
	store    store.Store
	library  *catalog.Cache
	deps     *prompt.Deps
	root     string
	readOnly bool
}

// New wires a Manager from explicit collaborators. root is reported by
// PromptsDir and may be empty when the store is not directory-backed.
func New(st store.Store, lib *catalog.Cache, root string, readOnly bool, opts ...prompt.Option) *Manager {
	return &Manager{
		store:    st,
		library:  lib,
		deps:     prompt.NewDeps(opts...),
		root:     root,
		readOnly: readOnly,
	}
}

// Open builds a Manager from config: a filesystem store on the resolved
// prompts directory and a library cache persisted under the user cache dir.
func Open(cfg *Config, opts ...prompt.Option) (*Manager, error) {
	root, err := cfg.ResolvePromptsDir()
	if err != nil {
		return nil, err
	}
	st, err := store.NewFsStore(root, opts...)
	if err != nil {
		return nil, err
	}
	cachePath, err := LibraryCachePath()
	if err != nil {
		// library features degrade to memory-only caching
		cachePath = ""
	}
	lib := catalog.NewCache(cfg.LibraryURL, cachePath, cfg.LibraryTTL, opts...)
	return New(st, lib, root, cfg.ReadOnly, opts...), nil
}

// PromptsDir returns the storage root this manager operates on.
func (m *Manager) PromptsDir() string { return m.root }

// ReadOnly reports whether mutating operations are refused.
func (m *Manager) ReadOnly() bool { return m.readOnly }

// Store exposes the underlying storage gateway, mainly for the watcher.
func (m *Manager) Store() store.Store { return m.store }

// mutable gates every operation that writes to the prompts directory.
func (m *Manager) mutable() error {
	if m.readOnly {
		return prompt.ErrReadOnly
	}
	return nil
}

var (
	errBadName            = errors.New("must not contain path separators or dot segments")
	errToolsOnInstruction = errors.New("tools apply to chatmode documents only")
)

// nameRule rejects identifiers that would escape the storage root once
// joined into a filename.
var nameRule = validation.By(func(v any) error {
	s, _ := v.(string)
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return errBadName
	}
	if strings.HasPrefix(s, ".") {
		return errBadName
	}
	return nil
})

// kindRule accepts only the two document kinds.
var kindRule = validation.By(func(v any) error {
	k, _ := v.(prompt.Kind)
	if !k.Valid() {
		return errors.New("must be chatmode or instruction")
	}
	return nil
})
