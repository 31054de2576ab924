package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS blobs (
	name       TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	data       BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetBlob(ctx context.Context, name string) ([]byte, error) {
	var version int
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT version, data FROM blobs WHERE name = ?`, name,
	).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &resilience.NotFoundError{Kind: "blob", Key: name}
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get blob %s", name)
	}
	if version != SchemaVersion {
		return nil, eris.Errorf("sqlite: blob %s has schema version %d, want %d", name, version, SchemaVersion)
	}
	return data, nil
}

func (s *SQLiteStore) PutBlob(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (name, version, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET version = excluded.version, data = excluded.data, updated_at = excluded.updated_at`,
		name, SchemaVersion, data, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put blob %s", name)
}

func (s *SQLiteStore) DeleteBlob(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE name = ?`, name)
	return eris.Wrapf(err, "sqlite: delete blob %s", name)
}
