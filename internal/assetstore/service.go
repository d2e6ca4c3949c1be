package assetstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/normalize"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/idgen"
)

// GetOrCreateWithTech locates the unique (ip_id, port) Service row; if
// present, merges tech into its existing technology map (new keys
// override, matching never-losing-data semantics) and writes back only
// when the merge actually changed something, otherwise inserts a new row
// with the given map.
func (r *ServiceRepository) GetOrCreateWithTech(ctx context.Context, ipID uuid.UUID, scheme string, port int, tech model.JSONMap) (*model.Service, error) {
	existing, err := r.GetByFields(ctx, map[string]any{"ip_id": ipID, "port": port})
	if err != nil {
		created, createErr := r.Create(ctx, map[string]any{
			"id":           idgen.New(),
			"ip_id":        ipID,
			"scheme":       scheme,
			"port":         port,
			"technologies": mergeTech(model.JSONMap{}, tech),
			"websocket":    false,
		})
		if createErr != nil {
			return nil, fmt.Errorf("assetstore: create service: %w", createErr)
		}
		return created, nil
	}

	merged := mergeTech(existing.Technologies, tech)
	if techEqual(existing.Technologies, merged) {
		return existing, nil
	}

	updated, err := r.Update(ctx, existing.ID, map[string]any{"technologies": merged})
	if err != nil {
		return nil, fmt.Errorf("assetstore: merge service technologies: %w", err)
	}
	return updated, nil
}

func mergeTech(existing, incoming model.JSONMap) model.JSONMap {
	merged := make(model.JSONMap, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

func techEqual(a, b model.JSONMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// UpsertWithMethod computes normalizedPath when empty, then upserts the
// Endpoint on (service_id, normalized_path, method): one row per method,
// so the set of methods observed for a normalized path is the set of
// rows sharing it. On conflict only path and status_code are refreshed;
// two observations differing only in raw path collapse onto one row.
func (r *EndpointRepository) UpsertWithMethod(ctx context.Context, hostID, serviceID uuid.UUID, path string, method model.HTTPMethod, normalizedPath string, statusCode *int) (*model.Endpoint, error) {
	if normalizedPath == "" {
		normalizedPath = normalize.Path(path)
	}

	row, err := r.Upsert(ctx, map[string]any{
		"id":              idgen.New(),
		"host_id":         hostID,
		"service_id":      serviceID,
		"path":            path,
		"normalized_path": normalizedPath,
		"method":          method,
		"status_code":     statusCode,
	}, []string{"service_id", "normalized_path", "method"}, []string{"path", "status_code"})
	if err != nil {
		return nil, fmt.Errorf("assetstore: upsert endpoint: %w", err)
	}
	return row, nil
}
