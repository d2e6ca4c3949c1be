// Package subfinder adapts ProjectDiscovery's subfinder, the
// discovery-stage passive subdomain enumerator.
package subfinder

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	Host   string `json:"host"`
	Input  string `json:"input"`
	Source string `json:"source"`
}

type adapter struct{}

// New returns the subfinder Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "subfinder" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"subfinder", "-d", params.Target, "-silent", "-json", "-all"}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.Host == "" {
		return nil, false
	}
	return toolrunner.HostRecord{Hostname: l.Host, Source: l.Source}, true
}
