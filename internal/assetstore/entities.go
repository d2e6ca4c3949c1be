package assetstore

import "github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"

// Each concrete repository binds baseRepository to one entity's table
// name, giving callers a named type instead of a bare generic
// instantiation.

type ProgramRepository struct{ baseRepository[model.Program] }

func NewProgramRepository(exec sqlxExecer) *ProgramRepository {
	return &ProgramRepository{newBaseRepository[model.Program](exec, "programs")}
}

type ScopeRuleRepository struct{ baseRepository[model.ScopeRule] }

func NewScopeRuleRepository(exec sqlxExecer) *ScopeRuleRepository {
	return &ScopeRuleRepository{newBaseRepository[model.ScopeRule](exec, "scope_rules")}
}

type RootInputRepository struct{ baseRepository[model.RootInput] }

func NewRootInputRepository(exec sqlxExecer) *RootInputRepository {
	return &RootInputRepository{newBaseRepository[model.RootInput](exec, "root_inputs")}
}

type HostRepository struct{ baseRepository[model.Host] }

func NewHostRepository(exec sqlxExecer) *HostRepository {
	return &HostRepository{newBaseRepository[model.Host](exec, "hosts")}
}

type IPAddressRepository struct{ baseRepository[model.IPAddress] }

func NewIPAddressRepository(exec sqlxExecer) *IPAddressRepository {
	return &IPAddressRepository{newBaseRepository[model.IPAddress](exec, "ip_addresses")}
}

type HostIPRepository struct{ baseRepository[model.HostIP] }

func NewHostIPRepository(exec sqlxExecer) *HostIPRepository {
	return &HostIPRepository{newBaseRepository[model.HostIP](exec, "host_ips")}
}

type ServiceRepository struct{ baseRepository[model.Service] }

func NewServiceRepository(exec sqlxExecer) *ServiceRepository {
	return &ServiceRepository{newBaseRepository[model.Service](exec, "services")}
}

type EndpointRepository struct{ baseRepository[model.Endpoint] }

func NewEndpointRepository(exec sqlxExecer) *EndpointRepository {
	return &EndpointRepository{newBaseRepository[model.Endpoint](exec, "endpoints")}
}

type InputParameterRepository struct{ baseRepository[model.InputParameter] }

func NewInputParameterRepository(exec sqlxExecer) *InputParameterRepository {
	return &InputParameterRepository{newBaseRepository[model.InputParameter](exec, "input_parameters")}
}

type HeaderRepository struct{ baseRepository[model.Header] }

func NewHeaderRepository(exec sqlxExecer) *HeaderRepository {
	return &HeaderRepository{newBaseRepository[model.Header](exec, "headers")}
}

type RawBodyRepository struct{ baseRepository[model.RawBody] }

func NewRawBodyRepository(exec sqlxExecer) *RawBodyRepository {
	return &RawBodyRepository{newBaseRepository[model.RawBody](exec, "raw_bodies")}
}

type DNSRecordRepository struct{ baseRepository[model.DNSRecord] }

func NewDNSRecordRepository(exec sqlxExecer) *DNSRecordRepository {
	return &DNSRecordRepository{newBaseRepository[model.DNSRecord](exec, "dns_records")}
}

type ScannerTemplateRepository struct{ baseRepository[model.ScannerTemplate] }

func NewScannerTemplateRepository(exec sqlxExecer) *ScannerTemplateRepository {
	return &ScannerTemplateRepository{newBaseRepository[model.ScannerTemplate](exec, "scanner_templates")}
}

type ScannerExecutionRepository struct{ baseRepository[model.ScannerExecution] }

func NewScannerExecutionRepository(exec sqlxExecer) *ScannerExecutionRepository {
	return &ScannerExecutionRepository{newBaseRepository[model.ScannerExecution](exec, "scanner_executions")}
}

type VulnTypeRepository struct{ baseRepository[model.VulnType] }

func NewVulnTypeRepository(exec sqlxExecer) *VulnTypeRepository {
	return &VulnTypeRepository{newBaseRepository[model.VulnType](exec, "vuln_types")}
}

type PayloadRepository struct{ baseRepository[model.Payload] }

func NewPayloadRepository(exec sqlxExecer) *PayloadRepository {
	return &PayloadRepository{newBaseRepository[model.Payload](exec, "payloads")}
}

type FindingRepository struct{ baseRepository[model.Finding] }

func NewFindingRepository(exec sqlxExecer) *FindingRepository {
	return &FindingRepository{newBaseRepository[model.Finding](exec, "findings")}
}

type LeakRepository struct{ baseRepository[model.Leak] }

func NewLeakRepository(exec sqlxExecer) *LeakRepository {
	return &LeakRepository{newBaseRepository[model.Leak](exec, "leaks")}
}
