// Package mapcidr adapts ProjectDiscovery's mapcidr, used in the
// enumeration stage to expand a CIDR block into its constituent
// addresses. Output is one bare IP per line.
package mapcidr

import (
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type adapter struct{}

// New returns the mapcidr Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "mapcidr" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"mapcidr", "-cidr", params.Target, "-silent"}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	ip := strings.TrimSpace(raw)
	if ip == "" {
		return nil, false
	}
	return toolrunner.IPRecord{IP: ip, Source: "mapcidr"}, true
}
