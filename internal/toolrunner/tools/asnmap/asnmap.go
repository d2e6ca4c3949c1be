// Package asnmap adapts ProjectDiscovery's asnmap, used in the discovery
// stage to resolve a target (domain, IP, or org name) to its owning
// autonomous system and announced CIDR blocks.
package asnmap

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	Input string   `json:"input"`
	ASN   string   `json:"as_number"`
	Org   string   `json:"as_name"`
	CIDRs []string `json:"as_range,omitempty"`
}

type adapter struct{}

// New returns the asnmap Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "asnmap" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"asnmap", "-silent", "-json", "-i", params.Target}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.ASN == "" {
		return nil, false
	}
	if len(l.CIDRs) > 0 {
		return toolrunner.CIDRRecord{CIDR: l.CIDRs[0], ASN: l.ASN, Source: "asnmap"}, true
	}
	return toolrunner.ASNRecord{ASN: l.ASN, Org: l.Org, Source: "asnmap"}, true
}
