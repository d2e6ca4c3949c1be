// Package toolrunner defines the contract every recon-tool adapter
// implements: argv construction from typed parameters and a
// per-line parser that projects a tool's raw output into a sealed set of
// Record variants. The supervisor that actually spawns and streams the
// subprocess lives in internal/toolrunner/supervisor; this package only
// knows how to build a command line and interpret its output.
package toolrunner

import (
	"context"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
)

// Params is the typed input to a tool invocation. Most tools consume a
// single Target; a few (dnsx, httpx, naabu) are fed a list via stdin
// instead, in which case BuildArgv returns a StdinPayload built from
// Targets.
type Params struct {
	ProgramID string
	Target    string
	Targets   []string
	Extra     map[string]string
}

// StdinPayload is the optional data a tool reads from its own stdin
// rather than argv (e.g. dnsx/httpx/naabu's "-l -" host-list mode).
type StdinPayload struct {
	Lines []string
}

// Tool is implemented once per external scanner. BuildArgv never touches
// the filesystem or environment beyond returning strings; ParseLine is
// pure and side-effect free so it can be unit tested against recorded
// tool output without spawning anything.
type Tool interface {
	Name() string
	BuildArgv(params Params) ([]string, *StdinPayload)
	ParseLine(line string) (Record, bool)
}

// SessionTool is implemented by the few tools whose ParseLine carries
// per-invocation state (the headless crawler's visited sets). Callers
// that run a Tool concurrently must call Session once per invocation and
// drive the returned instance instead, so two scans never share state.
type SessionTool interface {
	Tool
	Session() Tool
}

// RefinerTool is implemented by tools that need a second pass over the
// collected fragments before ingestion. The dnsx adapter uses it for the
// wildcard probe: resolving a randomized non-existent sibling of each
// answered hostname and flagging records the sibling answered
// identically. Refine is best-effort and never fails the scan.
type RefinerTool interface {
	Tool
	Refine(ctx context.Context, fragments []AssetFragment) []AssetFragment
}

// RecordKind discriminates the sealed set of Record implementations.
type RecordKind string

const (
	KindHost              RecordKind = "host"
	KindIP                RecordKind = "ip"
	KindCIDR              RecordKind = "cidr"
	KindASN               RecordKind = "asn"
	KindService           RecordKind = "service"
	KindEndpoint          RecordKind = "endpoint"
	KindDNSRecord         RecordKind = "dns_record"
	KindCertSAN           RecordKind = "cert_san"
	KindTakeoverCandidate RecordKind = "takeover_candidate"
	KindSecretLeak        RecordKind = "secret_leak"
	KindJSURL             RecordKind = "js_url"
)

// AssetFragment is the flattened shape every Record variant can project
// itself into, consumed directly by the ingest BatchProcessors in
// internal/ingest. Fields unrelated to a given Record's kind are left
// zero-valued.
type AssetFragment struct {
	Hostname     string
	CNAMEChain   []string
	IP           string
	ASN          string
	ASNOrg       string
	CIDR         string
	Scheme       string
	Port         int
	Path         string
	Method       model.HTTPMethod
	StatusCode   *int
	Technologies map[string]any
	DNSType      model.DNSRecordType
	DNSValue     string
	DNSWildcard  bool
	CertSAN      string
	Secret       string
	URL          string
	Source       string
}

// Record is the sealed interface every parsed output line satisfies.
type Record interface {
	Kind() RecordKind
	AsAsset() (AssetFragment, bool)
}
