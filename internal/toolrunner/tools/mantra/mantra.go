// Package mantra adapts MrEmpy/mantra, the analysis-stage secret-pattern
// scanner run over crawled JS assets and response bodies.
package mantra

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	URL     string `json:"url"`
	Match   string `json:"match"`
	Pattern string `json:"pattern_name"`
}

type adapter struct{}

// New returns the mantra Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "mantra" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"mantra", "-u", params.Target, "-silent", "-json"}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.Match == "" {
		return nil, false
	}
	return toolrunner.SecretLeakRecord{URL: l.URL, Secret: l.Match, Source: "mantra:" + l.Pattern}, true
}
