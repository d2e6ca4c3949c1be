// Package smap adapts smap, the passive Shodan-backed port/service
// scanner used in the enumeration stage as a quieter alternative to an
// active naabu sweep.
package smap

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type port struct {
	Port    int    `json:"port"`
	Proto   string `json:"proto"`
	Service string `json:"service"`
}

type line struct {
	IP    string `json:"ip"`
	Ports []port `json:"ports"`
}

type adapter struct{}

// New returns the smap Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "smap" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	argv := []string{"smap", "-json", "-i", "-"}
	targets := params.Targets
	if len(targets) == 0 && params.Target != "" {
		targets = []string{params.Target}
	}
	return argv, &toolrunner.StdinPayload{Lines: targets}
}

// ParseLine parses one smap result object. smap emits one JSON object
// per host with a nested ports array; this adapter surfaces the first
// open port as the enumeration signal and leaves the rest to the
// following naabu/httpx pass.
func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.IP == "" || len(l.Ports) == 0 {
		return nil, false
	}
	p := l.Ports[0]
	scheme := "tcp"
	if p.Service == "http" || p.Service == "https" {
		scheme = p.Service
	}
	return toolrunner.ServiceRecord{IP: l.IP, Scheme: scheme, Port: p.Port, Source: "smap"}, true
}
