package assetstore

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersists(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	mock.ExpectBegin()
	mock.ExpectCommit()

	uow, err := Enter(context.Background(), db)
	require.NoError(t, err)
	defer uow.Close()

	require.NoError(t, uow.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_CloseRollsBackWithoutCommit(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	mock.ExpectBegin()
	mock.ExpectRollback()

	uow, err := Enter(context.Background(), db)
	require.NoError(t, err)
	uow.Close()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_SavepointLifecycle(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`RELEASE SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	uow, err := Enter(context.Background(), db)
	require.NoError(t, err)
	defer uow.Close()

	require.NoError(t, uow.CreateSavepoint(context.Background(), "batch_0"))
	require.NoError(t, uow.ReleaseSavepoint(context.Background(), "batch_0"))
	require.NoError(t, uow.Commit())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RollbackToSavepointOnBatchFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT "batch_0"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	uow, err := Enter(context.Background(), db)
	require.NoError(t, err)
	defer uow.Close()

	require.NoError(t, uow.CreateSavepoint(context.Background(), "batch_0"))
	require.NoError(t, uow.RollbackToSavepoint(context.Background(), "batch_0"))
	assert.NoError(t, uow.Commit(), "a rolled-back batch must not abort the surrounding transaction")

	require.NoError(t, mock.ExpectationsWereMet())
}
