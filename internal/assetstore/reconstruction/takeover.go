// Package reconstruction holds read-side queries that reconstruct
// higher-level signal from the asset graph without being materialized
// views themselves (the store's real views belong to the schema, not
// this module). Subdomain takeover detection is deliberately two
// distinct queries, never unified: the substring and dangling-CNAME
// signals are independent and each has its own false-positive profile.
package reconstruction

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
)

// vulnerableCNAMEFingerprints are substrings of CNAME targets known to be
// served by providers vulnerable to subdomain takeover when the backing
// resource has been deprovisioned (e.g. "github.io", "herokudns.com"). An
// operator-maintained list in production; a fixed seed here.
var vulnerableCNAMEFingerprints = []string{
	"github.io",
	"herokudns.com",
	"herokuapp.com",
	"s3.amazonaws.com",
	"cloudfront.net",
	"azurewebsites.net",
	"trafficmanager.net",
	"wordpress.com",
	"shopify.com",
	"fastly.net",
	"ghost.io",
}

// TakeoverCandidate is one row returned by either reconstruction query.
type TakeoverCandidate struct {
	HostID     string `db:"host_id"`
	Hostname   string `db:"hostname"`
	CNAMEValue string `db:"value"`
}

// ReconstructSubstringTakeover finds hosts whose CNAME target contains a
// known vulnerable-provider fingerprint, regardless of whether the
// pointed-to resource is still resolvable. Named distinctly from
// ReconstructDanglingCNAME because the two signals are independent: a
// fingerprint match can be a false positive if the resource is still
// claimed, while a dangling CNAME can point to a provider never seen
// before.
func ReconstructSubstringTakeover(ctx context.Context, db *sqlx.DB, programID string) ([]TakeoverCandidate, error) {
	query := `
		SELECT h.id AS host_id, h.hostname AS hostname, d.value AS value
		FROM hosts h
		JOIN dns_records d ON d.host_id = h.id
		WHERE h.program_id = $1 AND d.type = 'CNAME'`

	var rows []TakeoverCandidate
	if err := db.SelectContext(ctx, &rows, query, programID); err != nil {
		return nil, fmt.Errorf("reconstruction: substring takeover query: %w", err)
	}

	out := make([]TakeoverCandidate, 0, len(rows))
	for _, row := range rows {
		if matchesFingerprint(row.CNAMEValue) {
			out = append(out, row)
		}
	}
	return out, nil
}

func matchesFingerprint(cnameValue string) bool {
	lower := strings.ToLower(cnameValue)
	for _, fp := range vulnerableCNAMEFingerprints {
		if strings.Contains(lower, fp) {
			return true
		}
	}
	return false
}

// ReconstructDanglingCNAME finds hosts that have a CNAME record but no
// corresponding A or AAAA record for the same host: the CNAME resolves
// nowhere the system has recorded, a stronger (but rarer) signal than a
// provider-fingerprint match.
func ReconstructDanglingCNAME(ctx context.Context, db *sqlx.DB, programID string) ([]TakeoverCandidate, error) {
	query := `
		SELECT h.id AS host_id, h.hostname AS hostname, c.value AS value
		FROM hosts h
		JOIN dns_records c ON c.host_id = h.id AND c.type = 'CNAME'
		WHERE h.program_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM dns_records a
			WHERE a.host_id = h.id AND a.type IN ('A', 'AAAA')
		)`

	var rows []TakeoverCandidate
	if err := db.SelectContext(ctx, &rows, query, programID); err != nil {
		return nil, fmt.Errorf("reconstruction: dangling cname query: %w", err)
	}
	return rows, nil
}

// WildcardRecords returns every DNSRecord flagged as a wildcard answer
// for the given program, the query behind the v_wildcard_dns view.
func WildcardRecords(ctx context.Context, db *sqlx.DB, programID string) ([]model.DNSRecord, error) {
	query := `
		SELECT d.*
		FROM dns_records d
		JOIN hosts h ON h.id = d.host_id
		WHERE h.program_id = $1 AND d.is_wildcard = true`

	var rows []model.DNSRecord
	if err := db.SelectContext(ctx, &rows, query, programID); err != nil {
		return nil, fmt.Errorf("reconstruction: wildcard records query: %w", err)
	}
	return rows, nil
}
