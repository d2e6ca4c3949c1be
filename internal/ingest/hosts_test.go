package ingest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostRow(id, programID uuid.UUID, hostname string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "program_id", "hostname", "in_scope", "cname_chain", "created_at"}).
		AddRow(id, programID, hostname, true, []byte(`[]`), time.Now())
}

// A runner yielding ["api.example.com", "api.example.com",
// "www.example.com"] produces exactly two Host rows, with total=3 and
// two newly created entities on the first run.
func TestHostBatchProcessor_DuplicatesCollapseToOneRow(t *testing.T) {
	db, mock := newMockDB(t)
	programID := uuid.New()
	apiID, wwwID := uuid.New(), uuid.New()

	lookup := `SELECT \* FROM hosts WHERE hostname = \$1 AND program_id = \$2 LIMIT 1`

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))

	// api.example.com: first occurrence misses and inserts.
	mock.ExpectQuery(lookup).WithArgs("api.example.com", programID).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO hosts`).WillReturnRows(hostRow(apiID, programID, "api.example.com"))
	// api.example.com again: the lookup now hits, nothing is written.
	mock.ExpectQuery(lookup).WithArgs("api.example.com", programID).WillReturnRows(hostRow(apiID, programID, "api.example.com"))
	// www.example.com: misses and inserts.
	mock.ExpectQuery(lookup).WithArgs("www.example.com", programID).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO hosts`).WillReturnRows(hostRow(wwwID, programID, "www.example.com"))

	mock.ExpectExec(`RELEASE SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	records := []DiscoveredHost{
		{Hostname: "api.example.com"},
		{Hostname: "api.example.com"},
		{Hostname: "www.example.com"},
	}
	result, err := Ingest(context.Background(), db, programID, records, 50, HostBatchProcessor(nil))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.OKBatches)
	assert.Equal(t, 0, result.FailedBatches)
	assert.Equal(t, []uuid.UUID{apiID, wwwID}, result.Created, "only first-seen hosts count as new")
	assert.Equal(t, []string{"api.example.com", "www.example.com"}, result.CreatedTargets,
		"downstream events need the hostnames themselves, not row ids")
	require.NoError(t, mock.ExpectationsWereMet())
}

// Rerunning the same stream finds every host already present and creates
// nothing; ingestion is idempotent across runs.
func TestHostBatchProcessor_RerunCreatesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	programID := uuid.New()
	apiID := uuid.New()

	lookup := `SELECT \* FROM hosts WHERE hostname = \$1 AND program_id = \$2 LIMIT 1`

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(lookup).WithArgs("api.example.com", programID).WillReturnRows(hostRow(apiID, programID, "api.example.com"))
	mock.ExpectExec(`RELEASE SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	result, err := Ingest(context.Background(), db, programID, []DiscoveredHost{{Hostname: "api.example.com"}}, 50, HostBatchProcessor(nil))
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A hostname that fails normalization is dropped silently, not written
// and not an error.
func TestHostBatchProcessor_InvalidHostnameSkipped(t *testing.T) {
	db, mock := newMockDB(t)
	programID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`RELEASE SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	result, err := Ingest(context.Background(), db, programID, []DiscoveredHost{{Hostname: "not a hostname"}}, 50, HostBatchProcessor(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Empty(t, result.Created)
	require.NoError(t, mock.ExpectationsWereMet())
}
