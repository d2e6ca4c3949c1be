package toolrunner

import "github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"

// HostRecord is emitted by subfinder/amass/crawler-adjacent tools that
// discover a bare hostname, optionally with its resolved CNAME chain.
type HostRecord struct {
	Hostname   string
	CNAMEChain []string
	Source     string
}

func (r HostRecord) Kind() RecordKind { return KindHost }

func (r HostRecord) AsAsset() (AssetFragment, bool) {
	if r.Hostname == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{Hostname: r.Hostname, CNAMEChain: r.CNAMEChain, Source: r.Source}, true
}

// IPRecord is emitted by mapcidr/hakip2host/smap when they expand a CIDR
// or resolve a host to one or more addresses.
type IPRecord struct {
	IP       string
	Hostname string
	Source   string
}

func (r IPRecord) Kind() RecordKind { return KindIP }

func (r IPRecord) AsAsset() (AssetFragment, bool) {
	if r.IP == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{IP: r.IP, Hostname: r.Hostname, Source: r.Source}, true
}

// CIDRRecord is emitted by asnmap when it resolves an ASN to its
// announced network blocks.
type CIDRRecord struct {
	CIDR   string
	ASN    string
	Source string
}

func (r CIDRRecord) Kind() RecordKind { return KindCIDR }

func (r CIDRRecord) AsAsset() (AssetFragment, bool) {
	if r.CIDR == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{CIDR: r.CIDR, ASN: r.ASN, Source: r.Source}, true
}

// ASNRecord is emitted by asnmap when it resolves a target to its owning
// autonomous system.
type ASNRecord struct {
	ASN    string
	Org    string
	Source string
}

func (r ASNRecord) Kind() RecordKind { return KindASN }

func (r ASNRecord) AsAsset() (AssetFragment, bool) {
	if r.ASN == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{ASN: r.ASN, ASNOrg: r.Org, Source: r.Source}, true
}

// ServiceRecord is emitted by naabu/httpx/smap when they confirm a
// listening service on a host:port, optionally with fingerprinted tech.
type ServiceRecord struct {
	Hostname     string
	IP           string
	Scheme       string
	Port         int
	Technologies map[string]any
	Source       string
}

func (r ServiceRecord) Kind() RecordKind { return KindService }

func (r ServiceRecord) AsAsset() (AssetFragment, bool) {
	if r.Port == 0 {
		return AssetFragment{}, false
	}
	return AssetFragment{
		Hostname: r.Hostname, IP: r.IP, Scheme: r.Scheme, Port: r.Port,
		Technologies: r.Technologies, Source: r.Source,
	}, true
}

// EndpointRecord is emitted by httpx/katana/ffuf when they confirm a
// reachable path on a service, optionally with the resolved IP and any
// fingerprinted technologies for the service behind it.
type EndpointRecord struct {
	Hostname     string
	IP           string
	Scheme       string
	Port         int
	Path         string
	Method       model.HTTPMethod
	StatusCode   *int
	Technologies map[string]any
	Source       string
}

func (r EndpointRecord) Kind() RecordKind { return KindEndpoint }

func (r EndpointRecord) AsAsset() (AssetFragment, bool) {
	if r.Path == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{
		Hostname: r.Hostname, IP: r.IP, Scheme: r.Scheme, Port: r.Port, Path: r.Path,
		Method: r.Method, StatusCode: r.StatusCode, Technologies: r.Technologies, Source: r.Source,
	}, true
}

// DNSRecordRecord is emitted by dnsx for each resolved resource record.
// Wildcard is set by the post-scan sibling probe, not by the initial
// resolution pass.
type DNSRecordRecord struct {
	Hostname string
	Type     model.DNSRecordType
	Value    string
	Wildcard bool
	Source   string
}

func (r DNSRecordRecord) Kind() RecordKind { return KindDNSRecord }

func (r DNSRecordRecord) AsAsset() (AssetFragment, bool) {
	if r.Hostname == "" || r.Value == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{Hostname: r.Hostname, DNSType: r.Type, DNSValue: r.Value, DNSWildcard: r.Wildcard, Source: r.Source}, true
}

// CertSANRecord is emitted by tlsx for each Subject Alternative Name on
// a certificate observed during the handshake.
type CertSANRecord struct {
	Hostname string
	SAN      string
	Source   string
}

func (r CertSANRecord) Kind() RecordKind { return KindCertSAN }

func (r CertSANRecord) AsAsset() (AssetFragment, bool) {
	if r.SAN == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{Hostname: r.Hostname, CertSAN: r.SAN, Source: r.Source}, true
}

// TakeoverCandidateRecord is emitted by subjack when a dangling CNAME
// fingerprint matches a known vulnerable provider.
type TakeoverCandidateRecord struct {
	Hostname   string
	CNAMEValue string
	Vulnerable bool
	Source     string
}

func (r TakeoverCandidateRecord) Kind() RecordKind { return KindTakeoverCandidate }

func (r TakeoverCandidateRecord) AsAsset() (AssetFragment, bool) {
	if !r.Vulnerable || r.Hostname == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{Hostname: r.Hostname, DNSValue: r.CNAMEValue, Source: r.Source}, true
}

// SecretLeakRecord is emitted by mantra when it matches a secret pattern
// in a response body or JS file.
type SecretLeakRecord struct {
	URL    string
	Secret string
	Source string
}

func (r SecretLeakRecord) Kind() RecordKind { return KindSecretLeak }

func (r SecretLeakRecord) AsAsset() (AssetFragment, bool) {
	if r.Secret == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{URL: r.URL, Secret: r.Secret, Source: r.Source}, true
}

// JSURLRecord is emitted by gau/linkfinder/katana when they surface a
// JavaScript asset URL worth feeding back into mantra/linkfinder.
type JSURLRecord struct {
	URL    string
	Source string
}

func (r JSURLRecord) Kind() RecordKind { return KindJSURL }

func (r JSURLRecord) AsAsset() (AssetFragment, bool) {
	if r.URL == "" {
		return AssetFragment{}, false
	}
	return AssetFragment{URL: r.URL, Source: r.Source}, true
}
