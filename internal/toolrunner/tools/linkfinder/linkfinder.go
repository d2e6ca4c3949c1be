// Package linkfinder adapts GerbenJavado/LinkFinder, the analysis-stage
// JS-endpoint extractor run over assets katana/gau surface.
package linkfinder

import (
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type adapter struct{}

// New returns the linkfinder Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "linkfinder" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"linkfinder", "-i", params.Target, "-o", "cli"}, nil
}

func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, false
	}
	return toolrunner.EndpointRecord{Path: path, Method: "GET", Source: "linkfinder"}, true
}
