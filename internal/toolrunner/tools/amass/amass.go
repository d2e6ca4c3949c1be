// Package amass adapts OWASP Amass's graph-output enumeration mode, a
// discovery-stage alternative to subfinder with passive and active
// sources. Its output grammar is
//
//	source_entity (type) --> relationship --> target_entity (type)
package amass

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

var graphPattern = regexp.MustCompile(`^(.+?)\s+\((\w+)\)\s+-->\s+(\w+)\s+-->\s+(.+?)\s+\((\w+)\)$`)

type adapter struct{}

// New returns the amass Tool adapter.
func New() toolrunner.Tool { return adapter{} }

func (adapter) Name() string { return "amass" }

func (adapter) BuildArgv(params toolrunner.Params) ([]string, *toolrunner.StdinPayload) {
	return []string{"amass", "enum", "-d", params.Target, "-silent"}, nil
}

// ParseLine classifies one graph line into at most one entity, keyed on
// the relationship and the source/target entity types.
func (adapter) ParseLine(raw string) (toolrunner.Record, bool) {
	m := graphPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, false
	}
	sourceEntity, sourceType, relationship, targetEntity, targetType := m[1], m[2], m[3], m[4], m[5]

	if targetType == "FQDN" {
		switch relationship {
		case "node", "cname_record", "mx_record":
			return toolrunner.HostRecord{Hostname: targetEntity, Source: "amass"}, true
		}
	}

	if targetType == "IPAddress" {
		switch relationship {
		case "a_record", "aaaa_record":
			return toolrunner.IPRecord{IP: targetEntity, Hostname: sourceEntity, Source: "amass"}, true
		}
	}

	if targetType == "Netblock" {
		return toolrunner.CIDRRecord{CIDR: targetEntity, Source: "amass"}, true
	}
	if sourceType == "Netblock" {
		return toolrunner.CIDRRecord{CIDR: sourceEntity, Source: "amass"}, true
	}

	if sourceType == "ASN" {
		if n, err := strconv.Atoi(sourceEntity); err == nil && n > 0 {
			return toolrunner.ASNRecord{ASN: sourceEntity, Source: "amass"}, true
		}
	}

	if sourceType == "FQDN" {
		return toolrunner.HostRecord{Hostname: sourceEntity, Source: "amass"}, true
	}

	return nil, false
}
