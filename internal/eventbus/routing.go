package eventbus

// eventToQueue is the static routing table: every event name maps to
// exactly one stage queue, with unlisted names falling back to Analysis.
var eventToQueue = map[string]Queue{
	"subfinder_scan_requested": Discovery,
	"subdomain_discovered":     Discovery,
	"asnmap_scan_requested":    Discovery,
	"asn_discovered":           Discovery,
	"cidr_discovered":          Discovery,

	"mapcidr_scan_requested":    Enumeration,
	"ips_expanded":              Enumeration,
	"cidr_sliced":               Enumeration,
	"ips_aggregated":            Enumeration,
	"hakip2host_scan_requested": Enumeration,
	"smap_scan_requested":       Enumeration,
	"smap_results":              Enumeration,
	"ports_discovered":          Enumeration,

	"dnsx_basic_scan_requested": Validation,
	"dnsx_deep_scan_requested":  Validation,
	"dnsx_ptr_scan_requested":   Validation,
	"dnsx_filtered_hosts":       Validation,
	"dnsx_basic_results_batch":  Validation,
	"dnsx_deep_results_batch":   Validation,
	"dnsx_ptr_results_batch":    Validation,

	"httpx_scan_requested":      Analysis,
	"host_discovered":           Analysis,
	"scan_results_batch":        Analysis,
	"tlsx_scan_requested":       Analysis,
	"tlsx_results_batch":        Analysis,
	"cert_san_discovered":       Analysis,
	"gau_scan_requested":        Analysis,
	"gau_discovered":            Analysis,
	"katana_scan_requested":     Analysis,
	"katana_results_batch":      Analysis,
	"js_files_discovered":       Analysis,
	"linkfinder_scan_requested": Analysis,
	"mantra_scan_requested":     Analysis,
	"mantra_results_batch":      Analysis,
	"ffuf_scan_requested":       Analysis,
	"ffuf_results_batch":        Analysis,
	"subjack_scan_requested":    Analysis,
	"subjack_results_batch":     Analysis,
	"naabu_scan_requested":      Analysis,
	"naabu_results_batch":       Analysis,
}

// RouteEvent returns the queue a named event routes to, defaulting to
// Analysis for any event name the table doesn't list.
func RouteEvent(eventName string) Queue {
	if q, ok := eventToQueue[eventName]; ok {
		return q
	}
	return Analysis
}

// AllQueues returns the four fixed pipeline-stage queues.
func AllQueues() []Queue {
	return []Queue{Discovery, Enumeration, Validation, Analysis}
}

// ConfidenceToPriority mirrors QueueConfig.confidence_to_priority: a
// 0-10 integer priority band. scoreFor uses this band as the priority
// term of the Redis score, so confidences in the same band share one
// priority level.
func ConfidenceToPriority(confidence float64) int {
	p := int(confidence * 10)
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return p
}
