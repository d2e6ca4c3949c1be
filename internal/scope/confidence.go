package scope

// SignalKind identifies one input to the confidence scorer.
type SignalKind string

const (
	SignalDomainRule   SignalKind = "domain_rule"
	SignalSANCert      SignalKind = "san_cert"
	SignalPTR          SignalKind = "ptr_record"
	SignalASN          SignalKind = "asn_match"
	SignalReverseWHOIS SignalKind = "reverse_whois"
	SignalCNAMEChain   SignalKind = "cname_chain"
	SignalCDNEdge      SignalKind = "cdn_edge"
)

// signalWeights are the fixed per-signal weights.
var signalWeights = map[SignalKind]float64{
	SignalDomainRule:   1.0,
	SignalSANCert:      0.6,
	SignalPTR:          0.5,
	SignalASN:          0.4,
	SignalReverseWHOIS: 0.3,
	SignalCNAMEChain:   0.3,
	SignalCDNEdge:      0.2,
}

// DefaultConfidenceThreshold is the default split point between
// "confident" and "uncertain" results.
const DefaultConfidenceThreshold = 0.6

// Signals is the set of signals observed for one target, keyed by kind so
// a caller can set a signal present without worrying about duplicates.
type Signals map[SignalKind]bool

// Set marks kind as observed for this target.
func (s Signals) Set(kind SignalKind) {
	s[kind] = true
}

// ConfidenceResult is the outcome of scoring one target.
type ConfidenceResult struct {
	Target    string
	Score     float64
	Signals   Signals
	IsInScope bool
}

// Score computes confidence = min(1, Σ weight_i · signal_i) over the
// supplied signals. IsInScope is true iff SignalDomainRule is present;
// other signals affect Score but never that boolean.
func Score(target string, signals Signals) ConfidenceResult {
	var total float64
	for kind, present := range signals {
		if !present {
			continue
		}
		total += signalWeights[kind]
	}
	if total > 1 {
		total = 1
	}
	return ConfidenceResult{
		Target:    target,
		Score:     total,
		Signals:   signals,
		IsInScope: signals[SignalDomainRule],
	}
}

// IsConfident reports whether result clears threshold.
func IsConfident(result ConfidenceResult, threshold float64) bool {
	return result.Score >= threshold
}

// Partition splits results into confident and uncertain groups at
// threshold.
func Partition(results []ConfidenceResult, threshold float64) (confident, uncertain []ConfidenceResult) {
	for _, r := range results {
		if IsConfident(r, threshold) {
			confident = append(confident, r)
		} else {
			uncertain = append(uncertain, r)
		}
	}
	return confident, uncertain
}
