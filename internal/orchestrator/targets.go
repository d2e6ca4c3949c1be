package orchestrator

import "github.com/Nakamo312/BugBountyMCP-sub001/internal/eventbus"

// targetFields is the fixed precedence order for target lists in event
// payloads: first non-empty field wins.
var targetFields = []string{"subdomains", "urls", "hosts", "ips", "targets"}

// ExtractTargets returns the first non-empty target list found in evt's
// Fields under the fixed precedence order, falling back to evt.Target
// (a single-value event) when none of the list fields are present.
func ExtractTargets(evt eventbus.Event) []string {
	for _, field := range targetFields {
		raw, ok := evt.Fields[field]
		if !ok {
			continue
		}
		if list := asStringSlice(raw); len(list) > 0 {
			return list
		}
	}
	if evt.Target != "" {
		return []string{evt.Target}
	}
	return nil
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
