package orchestrator

import (
	"github.com/jmoiron/sqlx"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/config"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/eventbus"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/amass"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/asnmap"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/crawler"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/dnsx"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/ffuf"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/gau"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/hakip2host"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/httpx"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/katana"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/linkfinder"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/mantra"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/mapcidr"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/naabu"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/smap"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/subfinder"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/subjack"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/tools/tlsx"
)

// BuildDefaultRegistry wires every tool in the roster to its stage queue
// (non-exhaustive: new tools slot in by adding a Bind): discovery finds names and
// network ranges, enumeration expands them into addresses and ports,
// validation confirms DNS resolution, analysis probes HTTP(S), crawls,
// and fingerprints. Each emission's event name comes straight out of
// internal/eventbus's routing table so downstream fan-out lands on its
// assigned queue.
func BuildDefaultRegistry(db *sqlx.DB, cfg config.Config) *Registry {
	reg := NewRegistry()

	reg.Bind(NewToolScanService(eventbus.Discovery, subfinder.New(), db, cfg,
		Emission{Event: "subdomain_discovered", Confidence: 0.7}))
	reg.Bind(NewToolScanService(eventbus.Discovery, amass.New(), db, cfg,
		Emission{Event: "subdomain_discovered", Confidence: 0.6}))
	reg.Bind(NewToolScanService(eventbus.Discovery, asnmap.New(), db, cfg,
		Emission{Event: "cidr_discovered", Confidence: 0.5},
		Emission{Event: "asn_discovered", Confidence: 0.5}))

	reg.Bind(NewToolScanService(eventbus.Enumeration, mapcidr.New(), db, cfg,
		Emission{Event: "ips_expanded", Confidence: 0.5}))
	reg.Bind(NewToolScanService(eventbus.Enumeration, hakip2host.New(), db, cfg,
		Emission{Event: "ips_expanded", Confidence: 0.5}))
	reg.Bind(NewToolScanService(eventbus.Enumeration, smap.New(), db, cfg,
		Emission{Event: "ports_discovered", Confidence: 0.5}))

	reg.Bind(NewToolScanService(eventbus.Validation, dnsx.NewBasic(), db, cfg,
		Emission{Event: "host_discovered", Confidence: 0.8}).
		Triggers("dnsx_basic_scan_requested", "dnsx_filtered_hosts"))
	reg.Bind(NewToolScanService(eventbus.Validation, dnsx.NewDeep(), db, cfg,
		Emission{Event: "host_discovered", Confidence: 0.8}).
		Triggers("dnsx_deep_scan_requested"))
	reg.Bind(NewToolScanService(eventbus.Validation, dnsx.NewPTR(), db, cfg,
		Emission{Event: "host_discovered", Confidence: 0.5}).
		Triggers("dnsx_ptr_scan_requested"))

	reg.Bind(NewToolScanService(eventbus.Analysis, httpx.New(), db, cfg,
		Emission{Event: "scan_results_batch", Confidence: 0.8}))
	reg.Bind(NewToolScanService(eventbus.Analysis, naabu.New(), db, cfg,
		Emission{Event: "ports_discovered", Confidence: 0.6}))
	reg.Bind(NewToolScanService(eventbus.Analysis, tlsx.New(), db, cfg,
		Emission{Event: "cert_san_discovered", Confidence: 0.6}))
	reg.Bind(NewToolScanService(eventbus.Analysis, gau.New(), db, cfg,
		Emission{Event: "js_files_discovered", Confidence: 0.4}))
	reg.Bind(NewToolScanService(eventbus.Analysis, katana.New(), db, cfg,
		Emission{Event: "js_files_discovered", Confidence: 0.5}))
	reg.Bind(NewToolScanService(eventbus.Analysis, crawler.New(), db, cfg,
		Emission{Event: "js_files_discovered", Confidence: 0.5}))
	reg.Bind(NewToolScanService(eventbus.Analysis, linkfinder.New(), db, cfg))
	reg.Bind(NewToolScanService(eventbus.Analysis, mantra.New(), db, cfg))
	reg.Bind(NewToolScanService(eventbus.Analysis, ffuf.New(), db, cfg))
	reg.Bind(NewToolScanService(eventbus.Analysis, subjack.New(), db, cfg))

	return reg
}
