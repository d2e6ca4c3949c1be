// Package dnsx adapts ProjectDiscovery's dnsx, the validation-stage DNS
// resolver. It runs in three modes, one per validation edge: basic
// (A/AAAA/CNAME liveness), deep (the full record-type sweep) and ptr
// (reverse resolution of IPs). Each mode is driven with a target list on
// stdin rather than a single argv target, since resolving one host at a
// time would forgo dnsx's internal batching.
//
// The basic and deep modes run a second, smaller dnsx pass after the
// scan: for every answered hostname they resolve a randomized
// non-existent sibling, and a record is flagged wildcard iff the sibling
// answered identically.
package dnsx

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/supervisor"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

const subsystem = "DNSX"

// probeTimeout bounds the wildcard second pass; it resolves at most one
// sibling per answered hostname, so it is far cheaper than the scan
// itself.
const probeTimeout = 120 * time.Second

// Mode selects which validation edge an adapter instance serves.
type Mode string

const (
	ModeBasic Mode = "basic"
	ModeDeep  Mode = "deep"
	ModePTR   Mode = "ptr"
)

type line struct {
	Host  string   `json:"host"`
	A     []string `json:"a,omitempty"`
	AAAA  []string `json:"aaaa,omitempty"`
	CNAME []string `json:"cname,omitempty"`
	PTR   []string `json:"ptr,omitempty"`
	MX    []string `json:"mx,omitempty"`
	NS    []string `json:"ns,omitempty"`
	TXT   []string `json:"txt,omitempty"`
	SOA   []string `json:"soa,omitempty"`
}

type adapter struct {
	mode Mode
}

// NewBasic returns the dnsx adapter for A/AAAA/CNAME liveness checks.
func NewBasic() toolrunner.Tool { return adapter{mode: ModeBasic} }

// NewDeep returns the dnsx adapter for the full record-type sweep.
func NewDeep() toolrunner.Tool { return adapter{mode: ModeDeep} }

// NewPTR returns the dnsx adapter for reverse (PTR) resolution of IPs.
func NewPTR() toolrunner.Tool { return adapter{mode: ModePTR} }

func (a adapter) Name() string { return "dnsx_" + string(a.mode) }

func (a adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	argv := []string{"dnsx", "-silent", "-json", "-l", "-"}
	switch a.mode {
	case ModeBasic:
		argv = append(argv, "-a", "-aaaa", "-cname")
	case ModeDeep:
		argv = append(argv, "-a", "-aaaa", "-cname", "-mx", "-ns", "-txt", "-soa")
	case ModePTR:
		argv = append(argv, "-ptr")
	}
	targets := params.Targets
	if len(targets) == 0 && params.Target != "" {
		targets = []string{params.Target}
	}
	return argv, &toolrunner.StdinPayload{Lines: targets}
}

// ParseLine returns only the first resource record found on the line;
// dnsx emits one JSON object per host with all requested record types
// inlined, and the batch ingestor dedups on (hostname, type, value)
// anyway.
func (a adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	records := parseRecords(raw, a.Name())
	if len(records) == 0 {
		return nil, false
	}
	return records[0], true
}

// parseRecords decodes every resource record on one dnsx output line, in
// a fixed type order. ParseLine surfaces the first; the wildcard probe
// needs them all to compare answers.
func parseRecords(raw, source string) []toolrunner.DNSRecordRecord {
	var l line
	if err := json.Unmarshal([]byte(raw), &l); err != nil || l.Host == "" {
		return nil
	}
	var out []toolrunner.DNSRecordRecord
	for _, rr := range []struct {
		kind model.DNSRecordType
		vals []string
	}{
		{model.DNSTypeA, l.A},
		{model.DNSTypeAAAA, l.AAAA},
		{model.DNSTypeCNAME, l.CNAME},
		{model.DNSTypePTR, l.PTR},
		{model.DNSTypeMX, l.MX},
		{model.DNSTypeNS, l.NS},
		{model.DNSTypeTXT, l.TXT},
		{model.DNSTypeSOA, l.SOA},
	} {
		for _, val := range rr.vals {
			out = append(out, toolrunner.DNSRecordRecord{Hostname: l.Host, Type: rr.kind, Value: val, Source: source})
		}
	}
	return out
}

// Refine is the wildcard second pass: for every hostname that produced a
// DNS record, resolve a randomized non-existent sibling under the same
// parent and flag the original record wildcard iff the sibling answered
// with the identical (type, value). Best-effort: a probe that cannot run
// (binary missing, timeout) leaves the fragments unflagged rather than
// failing the scan.
func (a adapter) Refine(ctx context.Context, fragments []toolrunner.AssetFragment) []toolrunner.AssetFragment {
	if a.mode == ModePTR {
		return fragments
	}

	siblings := make(map[string]string)
	for _, frag := range fragments {
		if frag.DNSType == "" || frag.Hostname == "" {
			continue
		}
		if _, ok := siblings[frag.Hostname]; !ok {
			siblings[frag.Hostname] = siblingHostname(frag.Hostname)
		}
	}
	if len(siblings) == 0 {
		return fragments
	}

	targets := make([]string, 0, len(siblings))
	for _, sibling := range siblings {
		targets = append(targets, sibling)
	}

	argv, stdin := a.BuildArgv(toolrunner.Params{Targets: targets})
	lines, statusCh := supervisor.Run(ctx, argv, strings.Join(stdin.Lines, "\n"), probeTimeout)

	// answered[sibling] holds every (type, value) the resolver returned
	// for a name that should not exist.
	answered := make(map[string]map[string]struct{})
	for raw := range lines {
		for _, rec := range parseRecords(raw, a.Name()) {
			if answered[rec.Hostname] == nil {
				answered[rec.Hostname] = make(map[string]struct{})
			}
			answered[rec.Hostname][string(rec.Type)+"|"+rec.Value] = struct{}{}
		}
	}
	if status := <-statusCh; status.Err != nil {
		logging.Debug(subsystem, "wildcard probe skipped: %v", status.Err)
		return fragments
	}

	for i, frag := range fragments {
		if frag.DNSType == "" || frag.Hostname == "" {
			continue
		}
		hits, ok := answered[siblings[frag.Hostname]]
		if !ok {
			continue
		}
		if _, identical := hits[string(frag.DNSType)+"|"+frag.DNSValue]; identical {
			fragments[i].DNSWildcard = true
		}
	}
	return fragments
}

// siblingHostname builds a randomized name under host's parent domain
// that cannot plausibly exist, so any answer for it is a wildcard
// answer. For an apex domain the probe name is a random child instead.
func siblingHostname(host string) string {
	label := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	if i := strings.IndexByte(host, '.'); i > 0 && strings.Contains(host[i+1:], ".") {
		return label + host[i:]
	}
	return label + "." + host
}
