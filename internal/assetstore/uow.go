// Package assetstore is the typed asset-graph repository layer: CRUD,
// upsert, and bulk-upsert over the entities in internal/asset/model, plus
// a savepoint-capable unit of work used by internal/ingest. It runs on
// jmoiron/sqlx over the pgx/v5 stdlib driver.
package assetstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/reconerr"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

const subsystem = "AssetStore"

// UnitOfWork is a scoped acquisition of one database transaction with
// guaranteed release on every exit path and named-savepoint support.
// Entering without calling Commit rolls back.
type UnitOfWork struct {
	db        *sqlx.DB
	tx        *sqlx.Tx
	committed bool
}

// Enter begins a transaction against db. Callers must defer Close() (or
// call Commit) immediately after a successful Enter.
func Enter(ctx context.Context, db *sqlx.DB) (*UnitOfWork, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("assetstore: begin transaction: %w", err)
	}
	return &UnitOfWork{db: db, tx: tx}, nil
}

// Tx exposes the underlying transaction for repository calls.
func (u *UnitOfWork) Tx() *sqlx.Tx { return u.tx }

// Commit commits the transaction. Safe to call at most once.
func (u *UnitOfWork) Commit() error {
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("assetstore: commit: %w", err)
	}
	u.committed = true
	return nil
}

// Close rolls back the transaction if it was never committed. Intended
// to be deferred right after Enter; rollback is the default outcome.
func (u *UnitOfWork) Close() {
	if u.committed {
		return
	}
	if err := u.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		logging.Warn(subsystem, "rollback on close failed: %v", err)
	}
}

// CreateSavepoint issues SAVEPOINT name.
func (u *UnitOfWork) CreateSavepoint(ctx context.Context, name string) error {
	_, err := u.tx.ExecContext(ctx, fmt.Sprintf("SAVEPOINT %q", name))
	return err
}

// ReleaseSavepoint issues RELEASE SAVEPOINT name, discarding the
// savepoint on success (the batch's writes remain part of the
// transaction).
func (u *UnitOfWork) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := u.tx.ExecContext(ctx, fmt.Sprintf("RELEASE SAVEPOINT %q", name))
	return err
}

// RollbackToSavepoint issues ROLLBACK TO SAVEPOINT name, undoing every
// statement since the savepoint was created without aborting the whole
// transaction.
func (u *UnitOfWork) RollbackToSavepoint(ctx context.Context, name string) error {
	_, err := u.tx.ExecContext(ctx, fmt.Sprintf("ROLLBACK TO SAVEPOINT %q", name))
	return err
}

// asUniqueViolation wraps err into reconerr's UniqueConstraintViolation
// when it is a Postgres unique-constraint violation (SQLSTATE 23505) and
// returns any other err unchanged.
func asUniqueViolation(fields []string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return reconerr.UniqueConstraintViolation(fields, err)
	}
	return err
}
