// Package naabu adapts ProjectDiscovery's naabu, the port scanner used
// for TCP service discovery ahead of httpx.
package naabu

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	Host string `json:"host"`
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

type adapter struct{}

// New returns the naabu Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "naabu" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	argv := []string{"naabu", "-silent", "-json", "-l", "-", "-top-ports", "1000"}
	targets := params.Targets
	if len(targets) == 0 && params.Target != "" {
		targets = []string{params.Target}
	}
	return argv, &toolrunner.StdinPayload{Lines: targets}
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.Port == 0 {
		return nil, false
	}
	scheme := "tcp"
	return toolrunner.ServiceRecord{Hostname: l.Host, IP: l.IP, Scheme: scheme, Port: l.Port, Source: "naabu"}, true
}
