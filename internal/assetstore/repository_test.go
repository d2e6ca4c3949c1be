package assetstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgramRepository(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(id, "acme-corp", time.Now())
	mock.ExpectQuery("SELECT \\* FROM programs WHERE id = \\$1").WithArgs(id).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgramRepository(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(id, "acme-corp", time.Now())
	mock.ExpectQuery("INSERT INTO programs").WillReturnRows(rows)

	got, err := repo.Create(context.Background(), map[string]any{"id": id, "name": "acme-corp"})
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHostRepository_Upsert_GeneratesOnConflictDoUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHostRepository(db)

	id := uuid.New()
	programID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "program_id", "hostname", "in_scope", "cname_chain", "created_at"}).
		AddRow(id, programID, "app.example.com", true, []byte(`[]`), time.Now())

	mock.ExpectQuery(`INSERT INTO hosts .* ON CONFLICT \(program_id, hostname\) DO UPDATE SET`).
		WillReturnRows(rows)

	got, err := repo.Upsert(context.Background(),
		map[string]any{"id": id, "program_id": programID, "hostname": "app.example.com", "in_scope": true},
		[]string{"program_id", "hostname"},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "app.example.com", got.Hostname)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHostRepository(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT count\(\*\) FROM hosts WHERE program_id = \$1`).WillReturnRows(rows)

	n, err := repo.Count(context.Background(), map[string]any{"program_id": uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHostRepository(db)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM hosts WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}
