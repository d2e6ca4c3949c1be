// Package model holds the asset-graph entities: programs, hosts, IPs,
// services, endpoints and the scan metadata hung off them. Every entity is
// identified by an opaque 128-bit id (pkg/idgen) and all timestamps
// are UTC. Entities below Program are created exclusively by the batch
// ingestor (internal/ingest); updates are idempotent upserts, deletions
// happen only by program cascade or operator purge.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RuleType enumerates the ways a ScopeRule can match a target.
type RuleType string

const (
	RuleDomain   RuleType = "domain"
	RuleWildcard RuleType = "wildcard"
	RuleRegex    RuleType = "regex"
	RuleCIDR     RuleType = "cidr"
)

// ScopeAction is whether a matching rule includes or excludes its target.
type ScopeAction string

const (
	ActionInclude ScopeAction = "include"
	ActionExclude ScopeAction = "exclude"
)

// InputKind enumerates the shapes a RootInput's seed value can take.
type InputKind string

const (
	InputDomain InputKind = "domain"
	InputIP     InputKind = "ip"
	InputURL    InputKind = "url"
)

// IPVersion distinguishes IPv4 from IPv6 addresses.
type IPVersion string

const (
	IPv4 IPVersion = "v4"
	IPv6 IPVersion = "v6"
)

// HTTPMethod is one of the methods an Endpoint has been observed to accept.
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodDelete  HTTPMethod = "DELETE"
	MethodPatch   HTTPMethod = "PATCH"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// ParamLocation is where an InputParameter was observed.
type ParamLocation string

const (
	LocationQuery  ParamLocation = "query"
	LocationBody   ParamLocation = "body"
	LocationHeader ParamLocation = "header"
	LocationCookie ParamLocation = "cookie"
	LocationPath   ParamLocation = "path"
)

// DNSRecordType enumerates the DNS RR types the system tracks.
type DNSRecordType string

const (
	DNSTypeA     DNSRecordType = "A"
	DNSTypeAAAA  DNSRecordType = "AAAA"
	DNSTypeCNAME DNSRecordType = "CNAME"
	DNSTypeMX    DNSRecordType = "MX"
	DNSTypeTXT   DNSRecordType = "TXT"
	DNSTypeNS    DNSRecordType = "NS"
	DNSTypeSOA   DNSRecordType = "SOA"
	DNSTypePTR   DNSRecordType = "PTR"
)

// Severity is a Finding's vulnerability-type severity band.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// ScanStatus is a ScannerExecution's lifecycle state.
type ScanStatus string

const (
	ScanPending   ScanStatus = "pending"
	ScanRunning   ScanStatus = "running"
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
	ScanCancelled ScanStatus = "cancelled"
)

// JSONMap round-trips an arbitrary JSON object through a jsonb column via
// database/sql/driver, letting sqlx scan it directly into a Go map without
// an intermediate []byte.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(m))
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("model.JSONMap: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("model.JSONMap: %w", err)
	}
	*m = out
	return nil
}

// StringSlice round-trips a JSON array column through a Go []string.
// Scan decodes JSON only; a Postgres text[] literal such as {a,b} is not
// parsed.
type StringSlice []string

// Value implements driver.Valuer, encoding as a JSON array for portability
// across the jsonb-backed columns this schema otherwise uses.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(src any) error {
	if src == nil {
		*s = StringSlice{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("model.StringSlice: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*s = StringSlice{}
		return nil
	}
	out := StringSlice{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("model.StringSlice: %w", err)
	}
	*s = out
	return nil
}

// Program is the root of ownership for a bug-bounty engagement. Deleting a
// Program cascades to every entity below it.
type Program struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// ScopeRule is one inclusion/exclusion rule owned by a Program, evaluated
// with exclude-first semantics by internal/scope.
type ScopeRule struct {
	ID        uuid.UUID   `db:"id"`
	ProgramID uuid.UUID   `db:"program_id"`
	Kind      RuleType    `db:"kind"`
	Pattern   string      `db:"pattern"`
	Action    ScopeAction `db:"action"`
}

// RootInput is a seed target supplied at Program registration.
type RootInput struct {
	ID        uuid.UUID `db:"id"`
	ProgramID uuid.UUID `db:"program_id"`
	Value     string    `db:"value"`
	Kind      InputKind `db:"kind"`
}

// Host is a discovered hostname, unique per (program_id, hostname).
type Host struct {
	ID         uuid.UUID   `db:"id"`
	ProgramID  uuid.UUID   `db:"program_id"`
	Hostname   string      `db:"hostname"`
	InScope    bool        `db:"in_scope"`
	CNAMEChain StringSlice `db:"cname_chain"`
	CreatedAt  time.Time   `db:"created_at"`
}

// IPAddress is a discovered IP, unique per (program_id, address).
type IPAddress struct {
	ID        uuid.UUID `db:"id"`
	ProgramID uuid.UUID `db:"program_id"`
	Address   string    `db:"address"`
	Version   IPVersion `db:"version"`
	InScope   bool      `db:"in_scope"`
	CreatedAt time.Time `db:"created_at"`
}

// HostIP is a many-to-many Host↔IPAddress join, unique per (host_id, ip_id).
type HostIP struct {
	ID     uuid.UUID `db:"id"`
	HostID uuid.UUID `db:"host_id"`
	IPID   uuid.UUID `db:"ip_id"`
	Source string    `db:"source"`
}

// Service is an HTTP(S) listener on an IP, unique per (ip_id, port).
// Technologies is monotonically merged: a later scan's keys add to or
// override the map, never replacing it wholesale.
type Service struct {
	ID           uuid.UUID `db:"id"`
	IPID         uuid.UUID `db:"ip_id"`
	Scheme       string    `db:"scheme"`
	Port         int       `db:"port"`
	Technologies JSONMap   `db:"technologies"`
	FaviconHash  *string   `db:"favicon_hash"`
	Websocket    bool      `db:"websocket"`
	CreatedAt    time.Time `db:"created_at"`
}

// Endpoint is a logical HTTP route: one row per (service_id,
// normalized_path, method). The set of methods observed for a given
// normalized path is the set of rows sharing (service_id,
// normalized_path); two observations differing only in raw path collapse
// onto the same row, keeping the latest path and status code.
type Endpoint struct {
	ID             uuid.UUID  `db:"id"`
	HostID         uuid.UUID  `db:"host_id"`
	ServiceID      uuid.UUID  `db:"service_id"`
	Path           string     `db:"path"`
	NormalizedPath string     `db:"normalized_path"`
	Method         HTTPMethod `db:"method"`
	StatusCode     *int       `db:"status_code"`
	CreatedAt      time.Time  `db:"created_at"`
}

// InputParameter is a query/body/header/cookie/path parameter observed on
// an Endpoint.
type InputParameter struct {
	ID           uuid.UUID     `db:"id"`
	EndpointID   uuid.UUID     `db:"endpoint_id"`
	ServiceID    uuid.UUID     `db:"service_id"`
	Name         string        `db:"name"`
	Location     ParamLocation `db:"location"`
	ParamType    string        `db:"param_type"`
	Reflected    bool          `db:"reflected"`
	IsArray      bool          `db:"is_array"`
	ExampleValue *string       `db:"example_value"`
}

// Header is one HTTP response header captured against an Endpoint.
type Header struct {
	ID         uuid.UUID `db:"id"`
	EndpointID uuid.UUID `db:"endpoint_id"`
	Name       string    `db:"name"`
	Value      string    `db:"value"`
}

// RawBody is a captured HTTP response body for one endpoint, stored with
// its SHA-256 digest.
type RawBody struct {
	ID         uuid.UUID `db:"id"`
	EndpointID uuid.UUID `db:"endpoint_id"`
	Content    []byte    `db:"content"`
	SHA256     string    `db:"sha256"`
}

// DNSRecord is one resource record for a Host, unique per (host_id, type,
// value). IsWildcard is set when the authoritative resolver answered
// identically for a randomized non-existent sibling hostname.
type DNSRecord struct {
	ID         uuid.UUID     `db:"id"`
	HostID     uuid.UUID     `db:"host_id"`
	Type       DNSRecordType `db:"type"`
	Value      string        `db:"value"`
	TTL        *int          `db:"ttl"`
	Priority   *int          `db:"priority"`
	IsWildcard bool          `db:"is_wildcard"`
}

// ScannerTemplate is a named, reusable tool invocation configuration.
type ScannerTemplate struct {
	ID              uuid.UUID `db:"id"`
	Name            string    `db:"name"`
	Tool            string    `db:"tool"`
	CommandTemplate string    `db:"command_template"`
	Category        string    `db:"category"`
	Enabled         bool      `db:"enabled"`
}

// ScannerExecution records one run of a ScannerTemplate against an
// Endpoint.
type ScannerExecution struct {
	ID           uuid.UUID  `db:"id"`
	ProgramID    uuid.UUID  `db:"program_id"`
	TemplateID   *uuid.UUID `db:"template_id"`
	EndpointID   uuid.UUID  `db:"endpoint_id"`
	Status       ScanStatus `db:"status"`
	ErrorMessage *string    `db:"error_message"`
	StartedAt    time.Time  `db:"started_at"`
	FinishedAt   *time.Time `db:"finished_at"`
}

// VulnType is a named vulnerability-class definition used by Finding.
type VulnType struct {
	ID       uuid.UUID `db:"id"`
	Code     string    `db:"code"`
	Severity Severity  `db:"severity"`
	Category string    `db:"category"`
}

// Payload is an attack payload associated with a VulnType. The system
// never executes payloads; it only records and correlates them with
// Findings.
type Payload struct {
	ID          uuid.UUID   `db:"id"`
	VulnTypeID  uuid.UUID   `db:"vuln_type_id"`
	Payload     string      `db:"payload"`
	Description *string     `db:"description"`
	Tags        StringSlice `db:"tags"`
}

// Finding is one vulnerability observation, optionally tied to an
// Endpoint, InputParameter, Payload and ScannerExecution.
type Finding struct {
	ID            uuid.UUID  `db:"id"`
	ProgramID     uuid.UUID  `db:"program_id"`
	VulnTypeID    uuid.UUID  `db:"vuln_type_id"`
	EndpointID    *uuid.UUID `db:"endpoint_id"`
	ParameterID   *uuid.UUID `db:"parameter_id"`
	PayloadID     *uuid.UUID `db:"payload_id"`
	ExecutionID   *uuid.UUID `db:"execution_id"`
	Description   string     `db:"description"`
	Evidence      JSONMap    `db:"evidence"`
	Verified      bool       `db:"verified"`
	FalsePositive bool       `db:"false_positive"`
	CreatedAt     time.Time  `db:"created_at"`
}

// Leak is an information disclosure observation, optionally tied to an
// Endpoint.
type Leak struct {
	ID            uuid.UUID  `db:"id"`
	ProgramID     uuid.UUID  `db:"program_id"`
	EndpointID    *uuid.UUID `db:"endpoint_id"`
	Content       string     `db:"content"`
	Verified      bool       `db:"verified"`
	FalsePositive bool       `db:"false_positive"`
	CreatedAt     time.Time  `db:"created_at"`
}
