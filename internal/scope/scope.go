// Package scope implements the exclude-first, include-required scope
// check and the weighted confidence scorer. Both operate over in-memory
// ScopeRule slices; the caller is responsible for loading a program's
// rules from the asset store.
package scope

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
)

// IsInScope applies exclude-first, include-required semantics to target
// against rules:
//  1. No rules at all → in scope.
//  2. Any matching EXCLUDE rule → out of scope, regardless of includes.
//  3. No INCLUDE rule present → in scope.
//  4. Otherwise, in scope iff some INCLUDE rule matches.
func IsInScope(target string, rules []model.ScopeRule) bool {
	if len(rules) == 0 {
		return true
	}

	host := extractHost(target)
	if host == "" {
		return false
	}

	for _, rule := range rules {
		if rule.Action == model.ActionExclude && matchesRule(target, host, rule) {
			return false
		}
	}

	hasInclude := false
	for _, rule := range rules {
		if rule.Action == model.ActionInclude {
			hasInclude = true
			break
		}
	}
	if !hasInclude {
		return true
	}

	for _, rule := range rules {
		if rule.Action == model.ActionInclude && matchesRule(target, host, rule) {
			return true
		}
	}
	return false
}

// FilterInScope partitions targets into in-scope and out-of-scope slices.
func FilterInScope(targets []string, rules []model.ScopeRule) (inScope, outOfScope []string) {
	for _, t := range targets {
		if IsInScope(t, rules) {
			inScope = append(inScope, t)
		} else {
			outOfScope = append(outOfScope, t)
		}
	}
	return inScope, outOfScope
}

// extractHost pulls the hostname out of target, which may be a bare
// domain, an IP literal, or a full URL.
func extractHost(target string) string {
	raw := target
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func matchesRule(target, host string, rule model.ScopeRule) bool {
	switch rule.Kind {
	case model.RuleDomain:
		return host == rule.Pattern
	case model.RuleWildcard:
		return matchesWildcard(host, rule.Pattern)
	case model.RuleRegex:
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(target)
	case model.RuleCIDR:
		return matchesCIDR(host, rule.Pattern)
	default:
		return false
	}
}

// matchesWildcard implements `*` ↦ `.*`, anchored, over the hostname.
func matchesWildcard(host, pattern string) bool {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	re, err := regexp.Compile("^" + escaped + "$")
	if err != nil {
		return false
	}
	return re.MatchString(host)
}

// matchesCIDR reports IP membership, only applicable when host parses as
// an address.
func matchesCIDR(host, pattern string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	_, ipNet, err := net.ParseCIDR(pattern)
	if err != nil {
		return false
	}
	return ipNet.Contains(ip)
}
