// Package httpx adapts ProjectDiscovery's httpx, the analysis-stage HTTP
// probe responsible for confirming live services and fingerprinting tech.
package httpx

import (
	"encoding/json"
	"strconv"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

type line struct {
	URL        string   `json:"url"`
	Host       string   `json:"host"`
	IP         string   `json:"ip"`
	Port       string   `json:"port"`
	Scheme     string   `json:"scheme"`
	StatusCode int      `json:"status_code"`
	Tech       []string `json:"tech,omitempty"`
	Path       string   `json:"path,omitempty"`
}

type adapter struct{}

// New returns the httpx Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "httpx" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	argv := []string{"httpx", "-silent", "-json", "-l", "-", "-tech-detect", "-status-code", "-follow-redirects"}
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
	port := 80
	if l.Port != "" {
		if p, err := strconv.Atoi(l.Port); err == nil {
			port = p
		}
	} else if l.Scheme == "https" {
		port = 443
	}
	tech := make(map[string]any, len(l.Tech))
	for _, t := range l.Tech {
		tech[t] = true
	}
	status := l.StatusCode
	path := l.Path
	if path == "" {
		path = "/"
	}
	return toolrunner.EndpointRecord{
		Hostname:     l.Host,
		IP:           l.IP,
		Scheme:       l.Scheme,
		Port:         port,
		Path:         path,
		Method:       "GET",
		StatusCode:   &status,
		Technologies: tech,
		Source:       "httpx",
	}, true
}
