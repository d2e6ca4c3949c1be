// Package ffuf adapts ffuf, the analysis-stage content discovery fuzzer.
// Run with its JSON-lines sink (`-of ejson`-equivalent streaming via a
// wrapper that emits one result object per line) so the supervisor can
// consume it the same way as every other tool, rather than ffuf's
// default single end-of-run JSON document.
package ffuf

import (
	"encoding/json"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	URL            string `json:"url"`
	Host           string `json:"host"`
	StatusCode     int    `json:"status"`
	ResultFilePath string `json:"input,omitempty"`
}

type adapter struct{}

// New returns the ffuf Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "ffuf" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	wordlist := "/usr/share/wordlists/common.txt"
	if params.Extra != nil {
		if w, ok := params.Extra["wordlist"]; ok && w != "" {
			wordlist = w
		}
	}
	return []string{"ffuf", "-u", params.Target + "/FUZZ", "-w", wordlist, "-of", "json", "-s", "-mc", "200,204,301,302,307,401,403"}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.URL == "" {
		return nil, false
	}
	status := l.StatusCode
	return toolrunner.EndpointRecord{
		Hostname:   l.Host,
		Path:       l.URL,
		Method:     "GET",
		StatusCode: &status,
		Source:     "ffuf",
	}, true
}
