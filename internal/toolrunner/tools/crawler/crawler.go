// Package crawler adapts the internal headless-browser crawler, the one
// tool in the roster that is a long-lived worker process rather than a
// short-lived subprocess. It talks the same Supervisor line-stream
// contract as every other tool: a request line on stdin, a stream of
// JSON ScanResult lines on stdout until a {"done":true} sentinel. Every
// Scan call owns its own Supervisor.Run invocation, its own pipes, and
// its own StateMachine; there is no shared mutable bridge between
// concurrent scans.
package crawler

import (
	"encoding/json"
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

// request is the single JSON line written to the crawler process's
// stdin to start a scan.
type request struct {
	URL      string `json:"url"`
	MaxDepth int    `json:"max_depth"`
}

// wireRequest/wireResponse mirror katana's JSONL wire shape exactly, so
// downstream consumers need only one decoder for both crawlers.
type wireRequest struct {
	Method   string            `json:"method"`
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     string            `json:"body,omitempty"`
	Raw      string            `json:"raw,omitempty"`
}

type wireResponse struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// scanResult is one line of crawler output: either a request/response
// pair, a terminal error, or the {"done":true} sentinel that ends the
// stream.
type scanResult struct {
	Request   *wireRequest  `json:"request,omitempty"`
	Response  *wireResponse `json:"response,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Done bool `json:"done,omitempty"`

	// State fields are populated by the crawler process itself (it runs
	// the browser and therefore owns the DOM/cookie/storage inspection);
	// this adapter only consumes them to drive the StateMachine.
	NormalizedURL string         `json:"normalized_url,omitempty"`
	DOMCounts     map[string]int `json:"dom_counts,omitempty"`
	CookiesHash   string         `json:"cookies_hash,omitempty"`
	StorageHash   string         `json:"storage_hash,omitempty"`
	Depth         int            `json:"depth,omitempty"`
	PathLength    int            `json:"path_length,omitempty"`
}

type adapter struct {
	sm *StateMachine
}

// New returns the headless-crawler Tool adapter. The adapter is a
// SessionTool: its visited sets live in the StateMachine, so callers
// take a fresh Session per scan and concurrent scans never share dedup
// state.
func New() toolrunner.SessionTool {
	return &adapter{sm: NewStateMachine(DefaultLimits)}
}

// Session returns a fresh adapter with empty visited sets for one scan.
func (a *adapter) Session() toolrunner.Tool {
	return &adapter{sm: NewStateMachine(DefaultLimits)}
}

func (a *adapter) Name() string { return "crawler" }

func (a *adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	maxDepth := DefaultLimits.MaxDepth
	if v, ok := params.Extra["max_depth"]; ok {
		maxDepth = parseIntOr(v, maxDepth)
	}
	req, _ := json.Marshal(request{URL: params.Target, MaxDepth: maxDepth})
	return []string{"reconcrawler"}, &toolrunner.StdinPayload{Lines: []string{string(req)}}
}

// ParseLine interprets one crawler output line. A {"done":true} sentinel
// and a malformed line are both treated as a parse-skip: the stream
// simply ends or drops the line, it never raises. Every
// kept line is additionally run through the StateMachine's VisitState: a
// page whose state was already seen (same fingerprint or semantic key),
// or that lies beyond the depth or path-length limit, yields no Record
// even though the line parsed cleanly. Action clusters are not consulted
// here.
func (a *adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	var res scanResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, false
	}
	if res.Done || res.Error != nil {
		return nil, false
	}
	if res.Request == nil || res.Request.Endpoint == "" {
		return nil, false
	}

	state := pageState{
		NormalizedURL: res.NormalizedURL,
		DOMShape:      domShapeVector(res.DOMCounts),
		CookiesHash:   res.CookiesHash,
		StorageHash:   res.StorageHash,
	}
	if state.NormalizedURL == "" {
		state.NormalizedURL = res.Request.Endpoint
	}
	if a.sm.VisitState(state, res.Depth, res.PathLength) {
		return nil, false
	}

	method := strings.ToUpper(res.Request.Method)
	if method == "" {
		method = "GET"
	}
	var status int
	if res.Response != nil {
		status = res.Response.StatusCode
	}

	return toolrunner.EndpointRecord{
		Path:       res.Request.Endpoint,
		Method:     model.HTTPMethod(method),
		StatusCode: &status,
		Source:     "crawler",
	}, true
}

func parseIntOr(s string, fallback int) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}
