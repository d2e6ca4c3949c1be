package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/assetstore"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/normalize"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/scope"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/idgen"
)

// DiscoveredHost is the shape a subdomain-discovery tool (subfinder,
// amass) yields per line: a bare hostname, optionally with a CNAME chain
// already resolved by the tool.
type DiscoveredHost struct {
	Hostname   string
	CNAMEChain []string
}

// HostBatchProcessor returns a BatchProcessor that normalizes each
// hostname, evaluates it against the program's current scope rules
// before linking it as a Host, and records newly created host ids.
func HostBatchProcessor(rules []model.ScopeRule) BatchProcessor[DiscoveredHost] {
	return func(ctx context.Context, uow *assetstore.UnitOfWork, programID uuid.UUID, batch []DiscoveredHost, result *Result) error {
		repo := assetstore.NewHostRepository(uow.Tx())

		for _, raw := range batch {
			hostname, ok := normalize.Hostname(raw.Hostname)
			if !ok {
				continue
			}

			inScope := scope.IsInScope(hostname, rules)

			existing, err := repo.GetByFields(ctx, map[string]any{"program_id": programID, "hostname": hostname})
			if err == nil {
				if existing.InScope != inScope {
					if _, updateErr := repo.Update(ctx, existing.ID, map[string]any{"in_scope": inScope}); updateErr != nil {
						return fmt.Errorf("ingest: update host scope for %s: %w", hostname, updateErr)
					}
				}
				continue
			}

			created, err := repo.Create(ctx, map[string]any{
				"id":          idgen.New(),
				"program_id":  programID,
				"hostname":    hostname,
				"in_scope":    inScope,
				"cname_chain": model.StringSlice(raw.CNAMEChain),
			})
			if err != nil {
				return fmt.Errorf("ingest: create host %s: %w", hostname, err)
			}
			result.record(created.ID, hostname)
		}
		return nil
	}
}
