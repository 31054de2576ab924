package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresGetBlob(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT version, data FROM blobs`).
		WithArgs(BlobTeams).
		WillReturnRows(pgxmock.NewRows([]string{"version", "data"}).AddRow(SchemaVersion, []byte(`{"755":{}}`)))

	got, err := s.GetBlob(context.Background(), BlobTeams)
	require.NoError(t, err)
	assert.JSONEq(t, `{"755":{}}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetBlobMissing(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT version, data FROM blobs`).
		WithArgs(BlobMine).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetBlob(context.Background(), BlobMine)
	assert.True(t, resilience.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetBlobVersionMismatch(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT version, data FROM blobs`).
		WithArgs(BlobTeams).
		WillReturnRows(pgxmock.NewRows([]string{"version", "data"}).AddRow(99, []byte(`{}`)))

	_, err := s.GetBlob(context.Background(), BlobTeams)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestPostgresPutBlob(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(`INSERT INTO blobs`).
		WithArgs(BlobSettings, SchemaVersion, []byte(`{"target":"755"}`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.PutBlob(context.Background(), BlobSettings, []byte(`{"target":"755"}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutBlobError(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(`INSERT INTO blobs`).
		WithArgs(BlobTeams, SchemaVersion, []byte(`{}`), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := s.PutBlob(context.Background(), BlobTeams, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put blob teams")
}

func TestPostgresDeleteBlob(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(`DELETE FROM blobs`).
		WithArgs(BlobObservations).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, s.DeleteBlob(context.Background(), BlobObservations))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS blobs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
