// Package store is the storage gateway for prompt documents: atomic
// create/update, backup-before-delete, and listing, confined to a single
// already-resolved root directory.
package store

import (
	"time"

	"github.com/modekit/modekit/pkg/prompt"
)

// BackupRecord describes the full copy taken of a document before it was
// removed. Backups are never overwritten or deleted by this system.
type BackupRecord struct {
	Name      string
	Kind      prompt.Kind
	Path      string
	CreatedAt time.Time
}

// Store is the storage gateway contract the manager works against. The
// filesystem implementation is FsStore; tests may substitute their own.
//
// Implementations serialize operations per document identifier but must not
// block operations on unrelated identifiers.
type Store interface {
	// Exists reports whether the document is present.
	Exists(name string, kind prompt.Kind) bool

	// Read loads and parses a document. Fails with prompt.ErrNotFound when
	// absent, prompt.ErrMalformed when unparseable.
	Read(name string, kind prompt.Kind) (*prompt.Document, error)

	// ReadRaw returns the raw serialized bytes of a document.
	ReadRaw(name string, kind prompt.Kind) ([]byte, error)

	// Write persists the document atomically: content is fully materialized
	// before any existing file is replaced. Fails with prompt.ErrExists when
	// overwrite is false and the target exists.
	Write(doc *prompt.Document, overwrite bool) error

	// Delete copies the document into a timestamped backup, then removes the
	// original. When the backup step fails the original is untouched and the
	// error wraps prompt.ErrBackupFailed.
	Delete(name string, kind prompt.Kind) (*BackupRecord, error)

	// List returns the names of stored documents of the given kind, ordered
	// by name.
	List(kind prompt.Kind) ([]string, error)
}
