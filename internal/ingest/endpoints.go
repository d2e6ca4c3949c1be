package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/assetstore"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/normalize"
)

// ProbedEndpoint is the shape an HTTP-probing tool (httpx, katana) yields
// per line.
type ProbedEndpoint struct {
	HostID       uuid.UUID
	IPID         uuid.UUID
	Scheme       string
	Port         int
	Path         string
	Method       model.HTTPMethod
	StatusCode   *int
	Technologies model.JSONMap
}

// EndpointBatchProcessor returns a BatchProcessor that resolves each
// probed endpoint's Service (merging technologies rather than
// overwriting) and Endpoint (one row per service, normalized path and
// method), reporting only endpoints created for the first time.
func EndpointBatchProcessor() BatchProcessor[ProbedEndpoint] {
	return func(ctx context.Context, uow *assetstore.UnitOfWork, programID uuid.UUID, batch []ProbedEndpoint, result *Result) error {
		services := assetstore.NewServiceRepository(uow.Tx())
		endpoints := assetstore.NewEndpointRepository(uow.Tx())

		for _, probe := range batch {
			service, err := services.GetOrCreateWithTech(ctx, probe.IPID, probe.Scheme, probe.Port, probe.Technologies)
			if err != nil {
				return fmt.Errorf("ingest: resolve service for %s:%d: %w", probe.Scheme, probe.Port, err)
			}

			normalizedPath := normalize.Path(probe.Path)
			_, lookupErr := endpoints.GetByFields(ctx, map[string]any{
				"service_id":      service.ID,
				"normalized_path": normalizedPath,
				"method":          probe.Method,
			})
			isNew := lookupErr != nil

			endpoint, err := endpoints.UpsertWithMethod(ctx, probe.HostID, service.ID, probe.Path, probe.Method, normalizedPath, probe.StatusCode)
			if err != nil {
				return fmt.Errorf("ingest: upsert endpoint %s: %w", probe.Path, err)
			}
			if isNew {
				result.record(endpoint.ID, probe.Path)
			}
		}
		return nil
	}
}
