// Package katana adapts ProjectDiscovery's katana, the analysis-stage
// crawler used for fast link discovery (distinct from the headless
// browser crawler in internal/toolrunner/tools/crawler, which executes
// JS and handles SPA navigation). Its JSON-line wire shape is shared with
// the headless crawler's RPC ScanResult.
package katana

import (
	"encoding/json"
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type wireRequest struct {
	Method   string `json:"method"`
	Endpoint string `json:"endpoint"`
}

type wireResponse struct {
	StatusCode int `json:"status_code"`
}

type line struct {
	Request  wireRequest  `json:"request"`
	Response wireResponse `json:"response"`
}

type adapter struct{}

// New returns the katana Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "katana" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"katana", "-u", params.Target, "-silent", "-jsonl", "-d", "3"}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.Request.Endpoint == "" {
		return nil, false
	}
	method := l.Request.Method
	if method == "" {
		method = "GET"
	}
	status := l.Response.StatusCode
	return toolrunner.EndpointRecord{
		Path:       l.Request.Endpoint,
		Method:     model.HTTPMethod(strings.ToUpper(method)),
		StatusCode: &status,
		Source:     "katana",
	}, true
}
