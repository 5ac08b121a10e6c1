package prompt

import (
	"errors"
	"fmt"
	"os"
)

// Sentinel errors used for simple equality-style checks via errors.Is.
var (
	ErrNotFound = os.ErrNotExist // document or catalog entry does not exist
	ErrExists   = os.ErrExist    // target document already exists

	// ErrMalformed indicates a document whose header block could not be
	// parsed. Prefer returning a typed MalformedDocumentError that unwraps to
	// this sentinel when callers may need structured information.
	ErrMalformed = errors.New("malformed document")

	// ErrKindMismatch indicates a merge between documents of different kinds.
	ErrKindMismatch = errors.New("document kind mismatch")

	// ErrNoSource indicates an update-from-source request against a document
	// that does not record a source_url header.
	ErrNoSource = errors.New("document has no source url")

	ErrFetchFailed  = errors.New("fetch failed")
	ErrFetchTimeout = errors.New("fetch timeout")

	// ErrCatalogUnavailable indicates the catalog could not be fetched and no
	// cached snapshot exists to fall back to.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrBackupFailed indicates the backup step of a delete did not complete.
	// The original document is untouched when this is returned.
	ErrBackupFailed = errors.New("backup failed")

	// ErrReadOnly is returned by mutating operations when the manager runs in
	// read-only mode.
	ErrReadOnly = errors.New("read-only mode")
)

// MalformedDocumentError carries the document name and a human reason for
// callers that need richer diagnostic information.
type MalformedDocumentError struct {
	Name   string
	Reason string
	Cause  error
}

func (e *MalformedDocumentError) Error() string {
	msg := "malformed document"
	if e.Name != "" {
		msg = fmt.Sprintf("malformed document %q", e.Name)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedDocumentError) Is(target error) bool { return target == ErrMalformed }
func (e *MalformedDocumentError) Unwrap() error        { return e.Cause }

// NewMalformedError constructs a typed MalformedDocumentError.
func NewMalformedError(name, reason string, cause error) error {
	return &MalformedDocumentError{Name: name, Reason: reason, Cause: cause}
}

// NotFoundError identifies the missing document by name and kind.
type NotFoundError struct {
	Name string
	Kind Kind
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError constructs a typed NotFoundError.
func NewNotFoundError(name string, kind Kind) error {
	return &NotFoundError{Name: name, Kind: kind}
}

// ExistsError identifies the conflicting document by name and kind.
type ExistsError struct {
	Name string
	Kind Kind
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

func (e *ExistsError) Is(target error) bool { return target == ErrExists }

// NewExistsError constructs a typed ExistsError.
func NewExistsError(name string, kind Kind) error {
	return &ExistsError{Name: name, Kind: kind}
}

// KindMismatchError reports the two kinds that disagreed during a merge.
type KindMismatchError struct {
	Local  Kind
	Remote Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("kind mismatch: local is %s, remote is %s", e.Local, e.Remote)
}

func (e *KindMismatchError) Is(target error) bool { return target == ErrKindMismatch }

// FetchError wraps a failed HTTP fetch. StatusCode is zero for transport
// failures.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status=%d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }
func (e *FetchError) Unwrap() error        { return e.Cause }

// BackupError wraps a failure to copy a document into its backup location
// before removal.
type BackupError struct {
	Name  string
	Path  string
	Cause error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup %q to %s: %v", e.Name, e.Path, e.Cause)
}

func (e *BackupError) Is(target error) bool { return target == ErrBackupFailed }
func (e *BackupError) Unwrap() error        { return e.Cause }

// Convenience predicates

// IsNotFound reports whether err represents a missing document or entry.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsMalformed reports whether err is (or wraps) a malformed-document condition.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformed) }

// IsFetchFailure reports whether err came from the HTTP fetch collaborator,
// either a failed response or a timeout.
func IsFetchFailure(err error) bool {
	return errors.Is(err, ErrFetchFailed) || errors.Is(err, ErrFetchTimeout)
}
