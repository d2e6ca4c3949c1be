// Command reconcrawler is the external worker process internal/toolrunner's
// crawler adapter drives over stdin/stdout. It implements
// the wire contract exactly: one JSON request line in, a stream of JSON
// scanResult lines out, terminated by {"done":true}.
//
// This binary is a minimal reference implementation of that contract, not a
// headless browser: it performs a single HTTP fetch of the requested URL
// and reports the one request/response pair it observed. A production
// deployment swaps this process for a real browser-driven crawler (e.g.
// chromedp) without touching internal/toolrunner/tools/crawler at all,
// since the adapter only ever speaks the wire protocol.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

type request struct {
	URL      string `json:"url"`
	MaxDepth int    `json:"max_depth"`
}

type wireRequest struct {
	Method   string            `json:"method"`
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers,omitempty"`
}

type wireResponse struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers,omitempty"`
}

type scanResult struct {
	Request   *wireRequest  `json:"request,omitempty"`
	Response  *wireResponse `json:"response,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Done bool `json:"done,omitempty"`

	NormalizedURL string         `json:"normalized_url,omitempty"`
	DOMCounts     map[string]int `json:"dom_counts,omitempty"`
	CookiesHash   string         `json:"cookies_hash,omitempty"`
	StorageHash   string         `json:"storage_hash,omitempty"`
	Depth         int            `json:"depth,omitempty"`
	PathLength    int            `json:"path_length,omitempty"`
}

func main() {
	reader := bufio.NewReader(os.Stdin)
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		logging.Error("crawlerd", err, "read request")
		os.Exit(1)
	}

	var req request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		emit(writer, scanResult{Error: &struct {
			Message string `json:"message"`
		}{Message: fmt.Sprintf("malformed request: %v", err)}})
		emit(writer, scanResult{Done: true})
		return
	}

	result := fetch(req)
	emit(writer, result)
	emit(writer, scanResult{Done: true})
}

func fetch(req request) scanResult {
	client := &http.Client{Timeout: 30 * time.Second}
	httpReq, err := http.NewRequest(http.MethodGet, req.URL, nil)
	if err != nil {
		return scanResult{Error: &struct {
			Message string `json:"message"`
		}{Message: err.Error()}}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return scanResult{Error: &struct {
			Message string `json:"message"`
		}{Message: err.Error()}}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return scanResult{
		Request: &wireRequest{
			Method:   http.MethodGet,
			Endpoint: req.URL,
		},
		Response: &wireResponse{
			StatusCode: resp.StatusCode,
			Headers:    headers,
		},
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		NormalizedURL: req.URL,
		Depth:         0,
		PathLength:    len(req.URL),
	}
}

func emit(w *bufio.Writer, res scanResult) {
	line, err := json.Marshal(res)
	if err != nil {
		logging.Error("crawlerd", err, "marshal result")
		return
	}
	w.Write(line)
	w.WriteByte('\n')
	w.Flush()
}
