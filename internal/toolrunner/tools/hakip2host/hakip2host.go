// Package hakip2host adapts hakluke/hakip2host, the enumeration-stage
// reverse-PTR resolver: given a list of IPs on stdin, it emits
// "ip host1 host2 ..." lines for every PTR hit.
package hakip2host

import (
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type adapter struct{}

// New returns the hakip2host Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "hakip2host" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	targets := params.Targets
	if len(targets) == 0 && params.Target != "" {
		targets = []string{params.Target}
	}
	return []string{"hakip2host"}, &toolrunner.StdinPayload{Lines: targets}
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return nil, false
	}
	return toolrunner.IPRecord{IP: fields[0], Hostname: fields[1], Source: "hakip2host"}, true
}
