// Package ingest partitions a finite stream of tool records into
// fixed-size batches, writes each batch under its own named savepoint,
// and never lets one bad batch abort the run.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/assetstore"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

const subsystem = "Ingestor"

// DefaultBatchSize mirrors internal/config.DefaultBatchSize without
// importing it, keeping this package usable standalone.
const DefaultBatchSize = 50

// BatchProcessor applies tool-specific ingestion logic to one batch of
// raw records inside an open UnitOfWork, appending any newly created
// entity ids to result.
type BatchProcessor[T any] func(ctx context.Context, uow *assetstore.UnitOfWork, programID uuid.UUID, batch []T, result *Result) error

// Result is the outcome of one ingestion run: the caller's per-batch
// processor reports newly created entities into Created as it goes, and
// Ingest fills in the batch counters once the run finishes. Only newly
// created entities are listed; re-ingesting known assets adds nothing.
// CreatedTargets carries the string values of the new entities
// (hostnames, addresses, paths) so downstream events can hand real
// targets to the next tool rather than opaque row ids.
type Result struct {
	Total          int
	OKBatches      int
	FailedBatches  int
	Created        []uuid.UUID
	CreatedTargets []string
}

// record notes one newly created entity and, when value is non-empty,
// its downstream-usable string form.
func (r *Result) record(id uuid.UUID, value string) {
	r.Created = append(r.Created, id)
	if value != "" {
		r.CreatedTargets = append(r.CreatedTargets, value)
	}
}

// Ingest opens a UnitOfWork against db, partitions records into batches
// of batchSize (DefaultBatchSize if <= 0), and runs process against each
// batch under its own named savepoint. A batch that returns an error is
// rolled back to its savepoint and counted as failed; later batches still
// run. The whole run commits once at the end regardless of per-batch
// outcomes.
func Ingest[T any](ctx context.Context, db *sqlx.DB, programID uuid.UUID, records []T, batchSize int, process BatchProcessor[T]) (*Result, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	result := &Result{Total: len(records)}

	logging.Info(subsystem, "starting ingestion program=%s total_results=%d", programID, result.Total)

	uow, err := assetstore.Enter(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("ingest: open unit of work: %w", err)
	}
	defer uow.Close()

	for batchIndex, batch := range chunks(records, batchSize) {
		savepoint := fmt.Sprintf("batch_%d", batchIndex)
		if err := uow.CreateSavepoint(ctx, savepoint); err != nil {
			return nil, fmt.Errorf("ingest: create savepoint %s: %w", savepoint, err)
		}

		if err := process(ctx, uow, programID, batch, result); err != nil {
			if rbErr := uow.RollbackToSavepoint(ctx, savepoint); rbErr != nil {
				return nil, fmt.Errorf("ingest: rollback to savepoint %s after batch error: %w", savepoint, rbErr)
			}
			result.FailedBatches++
			logging.Error(subsystem, err, "batch %d failed (size=%d)", batchIndex, len(batch))
			continue
		}

		if err := uow.ReleaseSavepoint(ctx, savepoint); err != nil {
			return nil, fmt.Errorf("ingest: release savepoint %s: %w", savepoint, err)
		}
		result.OKBatches++
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("ingest: commit: %w", err)
	}

	logging.Info(subsystem, "ingestion completed program=%s total=%d batches_ok=%d batches_failed=%d",
		programID, result.Total, result.OKBatches, result.FailedBatches)

	return result, nil
}

// chunks splits data into slices of at most size elements each.
func chunks[T any](data []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]T
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		out = append(out, data[i:end])
	}
	return out
}
