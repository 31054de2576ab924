// Package store persists the roster state as named JSON blobs. The roster is
// small (one event's worth of teams) and mutates through a single writer, so
// each save rewrites the whole blob instead of row-level updates.
package store

import "context"

// SchemaVersion is stamped on every blob write. A version mismatch on read
// means the payload shape changed and the blob must not be decoded blindly.
const SchemaVersion = 1

// Blob names.
const (
	BlobTeams        = "teams"
	BlobMine         = "mine"
	BlobSettings     = "settings"
	BlobSnapshots    = "snapshots"
	BlobObservations = "observations"
)

// Store defines the persistence interface for roster blobs. GetBlob returns
// a NotFoundError for names never written; callers treat that as first run.
type Store interface {
	GetBlob(ctx context.Context, name string) ([]byte, error)
	PutBlob(ctx context.Context, name string, data []byte) error
	DeleteBlob(ctx context.Context, name string) error

	Migrate(ctx context.Context) error
	Close() error
}
