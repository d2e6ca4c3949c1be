// Package tlsx adapts ProjectDiscovery's tlsx, used to pull certificate
// Subject Alternative Names during the analysis stage (a cheap source of
// additional in-scope hostnames per the confidence scorer's SAN signal).
package tlsx

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	Host string   `json:"host"`
	SAN  []string `json:"san,omitempty"`
}

type adapter struct{}

// New returns the tlsx Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "tlsx" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"tlsx", "-host", params.Target, "-san", "-silent", "-json"}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || len(l.SAN) == 0 {
		return nil, false
	}
	return toolrunner.CertSANRecord{Hostname: l.Host, SAN: l.SAN[0], Source: "tlsx"}, true
}
