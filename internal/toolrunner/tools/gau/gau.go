// Package gau adapts lc/gau ("get all urls"), the analysis-stage archive
// URL harvester (Wayback Machine, Common Crawl, OTX, URLScan). Output is
// one bare URL per line, no JSON.
package gau

import (
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type adapter struct{}

// New returns the gau Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "gau" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"gau", "--subs", params.Target}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return nil, false
	}
	return toolrunner.JSURLRecord{URL: url, Source: "gau"}, true
}
