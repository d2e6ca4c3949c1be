package assetstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestServiceRepository_GetOrCreateWithTech_MergesExistingMap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	ipID := uuid.New()
	serviceID := uuid.New()

	existingRow := sqlmock.NewRows([]string{"id", "ip_id", "scheme", "port", "technologies", "favicon_hash", "websocket", "created_at"}).
		AddRow(serviceID, ipID, "https", 443, []byte(`{"nginx":true}`), nil, false, time.Now())
	mock.ExpectQuery("SELECT \\* FROM services WHERE ip_id = .* AND port = .* LIMIT 1").
		WithArgs(ipID, 443).
		WillReturnRows(existingRow)

	updatedRow := sqlmock.NewRows([]string{"id", "ip_id", "scheme", "port", "technologies", "favicon_hash", "websocket", "created_at"}).
		AddRow(serviceID, ipID, "https", 443, []byte(`{"nginx":true,"php":"8.2"}`), nil, false, time.Now())
	mock.ExpectQuery("UPDATE services SET technologies = .* WHERE id = .* RETURNING \\*").
		WillReturnRows(updatedRow)

	updated, err := repo.GetOrCreateWithTech(context.Background(), ipID, "https", 443, model.JSONMap{"php": "8.2"})
	require.NoError(t, err)
	assert.Equal(t, true, updated.Technologies["nginx"])
	assert.Equal(t, "8.2", updated.Technologies["php"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepository_GetOrCreateWithTech_CreatesWhenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	ipID := uuid.New()
	mock.ExpectQuery("SELECT \\* FROM services").
		WillReturnError(sql.ErrNoRows)

	createdRow := sqlmock.NewRows([]string{"id", "ip_id", "scheme", "port", "technologies", "favicon_hash", "websocket", "created_at"}).
		AddRow(uuid.New(), ipID, "http", 80, []byte(`{"apache":true}`), nil, false, time.Now())
	mock.ExpectQuery("INSERT INTO services").
		WillReturnRows(createdRow)

	created, err := repo.GetOrCreateWithTech(context.Background(), ipID, "http", 80, model.JSONMap{"apache": true})
	require.NoError(t, err)
	assert.Equal(t, true, created.Technologies["apache"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEndpointRepository_UpsertWithMethod_OneRowPerMethod(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEndpointRepository(db)

	hostID, serviceID, endpointID := uuid.New(), uuid.New(), uuid.New()

	row := sqlmock.NewRows([]string{"id", "host_id", "service_id", "path", "normalized_path", "method", "status_code", "created_at"}).
		AddRow(endpointID, hostID, serviceID, "/users/2", "/users/{id}", "POST", 201, time.Now())
	mock.ExpectQuery(`INSERT INTO endpoints .* ON CONFLICT \(service_id, normalized_path, method\) DO UPDATE SET path = EXCLUDED.path, status_code = EXCLUDED.status_code`).
		WillReturnRows(row)

	code := 201
	updated, err := repo.UpsertWithMethod(context.Background(), hostID, serviceID, "/users/2", model.MethodPost, "", &code)
	require.NoError(t, err)
	assert.Equal(t, model.MethodPost, updated.Method)
	assert.Equal(t, "/users/{id}", updated.NormalizedPath, "the id segment is templated before the upsert")

	require.NoError(t, mock.ExpectationsWereMet())
}
