package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/assetstore"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/normalize"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/reconerr"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/scope"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/idgen"
)

// FragmentBatchProcessor returns a BatchProcessor over the common
// AssetFragment projection every Tool's Record reduces to, so scan
// services can feed any tool's output stream through one ingestion path
// instead of one per tool. It dispatches on which fields a fragment
// carries: host, then ip/host-ip link, then service, then endpoint,
// then dns record, then leak.
func FragmentBatchProcessor(rules []model.ScopeRule) BatchProcessor[toolrunner.AssetFragment] {
	return func(ctx context.Context, uow *assetstore.UnitOfWork, programID uuid.UUID, batch []toolrunner.AssetFragment, result *Result) error {
		hosts := assetstore.NewHostRepository(uow.Tx())
		ips := assetstore.NewIPAddressRepository(uow.Tx())
		hostIPs := assetstore.NewHostIPRepository(uow.Tx())
		services := assetstore.NewServiceRepository(uow.Tx())
		endpoints := assetstore.NewEndpointRepository(uow.Tx())
		dnsRecords := assetstore.NewDNSRecordRepository(uow.Tx())
		leaks := assetstore.NewLeakRepository(uow.Tx())

		for _, frag := range batch {
			var hostID uuid.UUID
			if frag.Hostname != "" {
				id, err := ingestHost(ctx, hosts, programID, frag, rules, result)
				if err != nil {
					return err
				}
				hostID = id
			}

			var ipID uuid.UUID
			if frag.IP != "" {
				id, err := ingestIP(ctx, ips, hostIPs, programID, hostID, frag, rules, result)
				if err != nil {
					return err
				}
				ipID = id
			}

			var serviceID uuid.UUID
			if frag.Port != 0 {
				svc, err := services.GetOrCreateWithTech(ctx, ipID, frag.Scheme, frag.Port, model.JSONMap(frag.Technologies))
				if err != nil {
					return fmt.Errorf("ingest: service for %s:%d: %w", frag.Scheme, frag.Port, err)
				}
				serviceID = svc.ID
			}

			if frag.Path != "" && serviceID != uuid.Nil {
				normalizedPath := normalize.Path(frag.Path)
				_, lookupErr := endpoints.GetByFields(ctx, map[string]any{
					"service_id":      serviceID,
					"normalized_path": normalizedPath,
					"method":          frag.Method,
				})
				isNew := lookupErr != nil

				ep, err := endpoints.UpsertWithMethod(ctx, hostID, serviceID, frag.Path, frag.Method, normalizedPath, frag.StatusCode)
				if err != nil {
					return fmt.Errorf("ingest: endpoint %s: %w", frag.Path, err)
				}
				if isNew {
					result.record(ep.ID, frag.Path)
				}
			}

			if frag.DNSType != "" && frag.DNSValue != "" && hostID != uuid.Nil {
				if err := ingestDNSRecord(ctx, dnsRecords, hostID, frag, result); err != nil {
					return err
				}
			}

			if frag.Secret != "" {
				created, err := leaks.Create(ctx, map[string]any{
					"id":         idgen.New(),
					"program_id": programID,
					"content":    frag.Secret,
				})
				if err != nil {
					return fmt.Errorf("ingest: leak from %s: %w", frag.Source, err)
				}
				// A leak has no downstream target form; only its id is
				// recorded.
				result.record(created.ID, "")
			}
		}
		return nil
	}
}

func ingestHost(ctx context.Context, hosts *assetstore.HostRepository, programID uuid.UUID, frag toolrunner.AssetFragment, rules []model.ScopeRule, result *Result) (uuid.UUID, error) {
	hostname, ok := normalize.Hostname(frag.Hostname)
	if !ok {
		return uuid.Nil, nil
	}
	inScope := scope.IsInScope(hostname, rules)

	existing, err := hosts.GetByFields(ctx, map[string]any{"program_id": programID, "hostname": hostname})
	if err == nil {
		if existing.InScope != inScope {
			if _, updateErr := hosts.Update(ctx, existing.ID, map[string]any{"in_scope": inScope}); updateErr != nil {
				return uuid.Nil, fmt.Errorf("ingest: update host scope for %s: %w", hostname, updateErr)
			}
		}
		return existing.ID, nil
	}

	created, err := hosts.Create(ctx, map[string]any{
		"id":          idgen.New(),
		"program_id":  programID,
		"hostname":    hostname,
		"in_scope":    inScope,
		"cname_chain": model.StringSlice(frag.CNAMEChain),
	})
	if err == nil {
		result.record(created.ID, hostname)
		return created.ID, nil
	}
	if kind, ok := reconerr.KindOf(err); !ok || kind != reconerr.KindUniqueConstraintViolation {
		return uuid.Nil, fmt.Errorf("ingest: create host %s: %w", hostname, err)
	}

	// Two concurrent tool services discovered the same host between our
	// lookup and our insert; the other insert won, so fetch what it wrote
	// instead of failing the batch over a race.
	var winner *model.Host
	backoff := retry.WithMaxRetries(3, retry.NewConstant(10*time.Millisecond))
	retryErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
		existing, lookupErr := hosts.GetByFields(ctx, map[string]any{"program_id": programID, "hostname": hostname})
		if lookupErr != nil {
			return retry.RetryableError(lookupErr)
		}
		winner = existing
		return nil
	})
	if retryErr != nil {
		return uuid.Nil, fmt.Errorf("ingest: create host %s: %w", hostname, err)
	}
	return winner.ID, nil
}

func ingestIP(ctx context.Context, ips *assetstore.IPAddressRepository, hostIPs *assetstore.HostIPRepository, programID, hostID uuid.UUID, frag toolrunner.AssetFragment, rules []model.ScopeRule, result *Result) (uuid.UUID, error) {
	inScope := scope.IsInScope(frag.IP, rules)
	existing, err := ips.GetByFields(ctx, map[string]any{"program_id": programID, "address": frag.IP})
	var ipID uuid.UUID
	if err == nil {
		ipID = existing.ID
	} else {
		created, createErr := ips.Create(ctx, map[string]any{
			"id":         idgen.New(),
			"program_id": programID,
			"address":    frag.IP,
			"version":    ipVersion(frag.IP),
			"in_scope":   inScope,
		})
		if createErr != nil {
			return uuid.Nil, fmt.Errorf("ingest: create ip %s: %w", frag.IP, createErr)
		}
		result.record(created.ID, frag.IP)
		ipID = created.ID
	}

	if hostID == uuid.Nil {
		return ipID, nil
	}

	if _, err := hostIPs.GetByFields(ctx, map[string]any{"host_id": hostID, "ip_id": ipID}); err != nil {
		created, createErr := hostIPs.Create(ctx, map[string]any{
			"id":      idgen.New(),
			"host_id": hostID,
			"ip_id":   ipID,
			"source":  frag.Source,
		})
		if createErr != nil {
			return uuid.Nil, fmt.Errorf("ingest: link host/ip %s/%s: %w", hostID, ipID, createErr)
		}
		result.record(created.ID, "")
	}
	return ipID, nil
}

func ingestDNSRecord(ctx context.Context, dnsRecords *assetstore.DNSRecordRepository, hostID uuid.UUID, frag toolrunner.AssetFragment, result *Result) error {
	existing, err := dnsRecords.GetByFields(ctx, map[string]any{"host_id": hostID, "type": frag.DNSType, "value": frag.DNSValue})
	if err == nil {
		// A record first seen before the wildcard probe ran can be
		// upgraded, never downgraded: a later non-wildcard observation
		// does not clear the flag.
		if frag.DNSWildcard && !existing.IsWildcard {
			if _, updateErr := dnsRecords.Update(ctx, existing.ID, map[string]any{"is_wildcard": true}); updateErr != nil {
				return fmt.Errorf("ingest: flag wildcard dns record for host %s: %w", hostID, updateErr)
			}
		}
		return nil
	}
	created, err := dnsRecords.Create(ctx, map[string]any{
		"id":          idgen.New(),
		"host_id":     hostID,
		"type":        frag.DNSType,
		"value":       frag.DNSValue,
		"is_wildcard": frag.DNSWildcard,
	})
	if err != nil {
		return fmt.Errorf("ingest: dns record %s %s for host %s: %w", frag.DNSType, frag.DNSValue, hostID, err)
	}
	// The record's hostname was already recorded as a target when its
	// Host row was ingested; only the id is new here.
	result.record(created.ID, "")
	return nil
}

func ipVersion(addr string) model.IPVersion {
	for _, c := range addr {
		if c == ':' {
			return model.IPv6
		}
	}
	return model.IPv4
}
