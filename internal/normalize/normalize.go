// Package normalize canonicalizes hostnames and URL paths, and provides
// generic key-based deduplication and content hashing for the batch
// ingestor.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var domainRegexp = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// Hostname lower-cases host, strips a trailing dot and surrounding
// whitespace, and validates it against the domain regex. ok is false when
// the result does not look like a domain and should not be emitted.
func Hostname(host string) (normalized string, ok bool) {
	h := strings.ToLower(strings.TrimSpace(host))
	h = strings.TrimSuffix(h, ".")
	if !domainRegexp.MatchString(h) {
		return "", false
	}
	return h, true
}

var (
	uuidSegment    = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	hexSegment     = regexp.MustCompile(`^[0-9a-f]{24,}$`)
	numericSegment = regexp.MustCompile(`^[0-9]+$`)
	base64Segment  = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}={0,2}$`)
	duplicateSlash = regexp.MustCompile(`/{2,}`)
)

// idPlaceholder is substituted for any path segment that looks like an
// opaque identifier, so endpoints differing only by id collapse to one
// normalized path.
const idPlaceholder = "{id}"

// Path computes the templated form of raw used as the Endpoint dedup
// key: id-like segments become "{id}", query parameter names are
// kept (sorted, values dropped), duplicate slashes collapse, and any
// trailing slash is stripped except for the root.
func Path(raw string) string {
	u, err := url.Parse(raw)
	var pathPart, rawQuery string
	if err == nil {
		pathPart = u.Path
		rawQuery = u.RawQuery
	} else {
		pathPart = raw
	}

	pathPart = duplicateSlash.ReplaceAllString(pathPart, "/")
	if pathPart == "" {
		pathPart = "/"
	}

	segments := strings.Split(pathPart, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if looksLikeID(seg) {
			segments[i] = idPlaceholder
		}
	}
	normalizedPath := strings.Join(segments, "/")
	if len(normalizedPath) > 1 {
		normalizedPath = strings.TrimSuffix(normalizedPath, "/")
		if normalizedPath == "" {
			normalizedPath = "/"
		}
	}

	if rawQuery == "" {
		return normalizedPath
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil || len(values) == 0 {
		return normalizedPath
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return normalizedPath + "?" + strings.Join(names, "&")
}

func looksLikeID(seg string) bool {
	lower := strings.ToLower(seg)
	if uuidSegment.MatchString(lower) {
		return true
	}
	if hexSegment.MatchString(lower) {
		return true
	}
	if numericSegment.MatchString(seg) {
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			return true
		}
	}
	if base64Segment.MatchString(seg) {
		return true
	}
	return false
}

// DedupByKey returns items preserving first occurrence per key, the way
// the batch ingestor deduplicates a raw record stream before writing.
func DedupByKey[T any, K comparable](items []T, keyFn func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		key := keyFn(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}
	return result
}

// HashContent returns the hex-encoded SHA-256 digest of content, used for
// RawBody content addressing.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashString is a convenience wrapper over HashContent for UTF-8 string
// input.
func HashString(s string) string {
	return HashContent([]byte(s))
}

// DedupHosts compares hosts by their lower-cased, trimmed form, dropping
// blanks and duplicates while returning the first occurrence of each
// unchanged (original case and spacing). This
// is the ingestor's bulk host pre-filter ahead of per-host scope
// evaluation.
func DedupHosts(hosts []string) []string {
	seen := make(map[string]struct{}, len(hosts))
	result := make([]string, 0, len(hosts))
	for _, h := range hosts {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, h)
	}
	return result
}
