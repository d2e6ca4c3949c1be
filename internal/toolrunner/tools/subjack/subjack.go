// Package subjack adapts haccer/subjack, the validation-stage subdomain
// takeover fingerprinter. It complements the substring-takeover
// reconstruction in internal/assetstore/reconstruction by confirming a
// dangling CNAME actually fingerprints as vulnerable rather than merely
// matching a known provider's domain suffix.
package subjack

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	Host       string `json:"host"`
	Cname      string `json:"cname"`
	Vulnerable bool   `json:"vulnerable"`
}

type adapter struct{}

// New returns the subjack Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "subjack" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	argv := []string{"subjack", "-w", "-", "-t", "50", "-timeout", "30", "-ssl", "-json"}
	targets := params.Targets
	if len(targets) == 0 && params.Target != "" {
		targets = []string{params.Target}
	}
	return argv, &toolrunner.StdinPayload{Lines: targets}
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.Host == "" {
		return nil, false
	}
	return toolrunner.TakeoverCandidateRecord{
		Hostname:   l.Host,
		CNAMEValue: l.Cname,
		Vulnerable: l.Vulnerable,
		Source:     "subjack",
	}, true
}
