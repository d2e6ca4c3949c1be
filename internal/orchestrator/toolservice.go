package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sony/gobreaker/v2"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/assetstore"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/config"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/eventbus"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/ingest"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/normalize"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner/supervisor"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

// Emission describes one downstream event a ToolScanService publishes
// after a successful run, annotated with a fixed confidence.
type Emission struct {
	Event      string
	Confidence float64
}

// ToolScanService is the generic scan-service shape every tool in the
// roster shares: extract targets from the triggering event,
// run the tool via the Process Supervisor, ingest its record stream via
// the Batch Ingestor, and emit the configured downstream events. One
// instance is registered per tool; only argv construction, parsing and
// the emitted event set differ between them.
type ToolScanService struct {
	name     string
	stage    eventbus.Queue
	tool     toolrunner.Tool
	db       *sqlx.DB
	cfg      config.Config
	emits    []Emission
	triggers map[string]struct{}
	breaker  *gobreaker.CircuitBreaker[[]toolrunner.AssetFragment]
}

// NewToolScanService wires tool into stage, reading its binary path and
// batch size from cfg and tripping a per-tool circuit breaker, so a
// missing or crash-looping binary stops being retried on every event
// instead of hammering a dead path.
func NewToolScanService(stage eventbus.Queue, tool toolrunner.Tool, db *sqlx.DB, cfg config.Config, emits ...Emission) *ToolScanService {
	name := tool.Name()
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: config.DefaultScanTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &ToolScanService{
		name:    name,
		stage:   stage,
		tool:    tool,
		db:      db,
		cfg:     cfg,
		emits:   emits,
		breaker: gobreaker.NewCircuitBreaker[[]toolrunner.AssetFragment](settings),
	}
}

func (s *ToolScanService) Name() string          { return s.name }
func (s *ToolScanService) Stage() eventbus.Queue { return s.stage }

// Triggers restricts the service to the named events. Without triggers a
// service handles every event on its stage queue; with them, events with
// any other name are acked untouched, so several variants of one tool
// (the three dnsx modes) can share a queue without all firing on every
// event.
func (s *ToolScanService) Triggers(events ...string) *ToolScanService {
	s.triggers = make(map[string]struct{}, len(events))
	for _, e := range events {
		s.triggers[e] = struct{}{}
	}
	return s
}

// Handle runs s.tool against evt's extracted targets and ingests its
// output. An empty target list is not an error; it simply means this
// event carried nothing this tool can act on.
func (s *ToolScanService) Handle(ctx context.Context, evt eventbus.Event) ([]eventbus.Event, error) {
	if len(s.triggers) > 0 {
		if _, ok := s.triggers[evt.Name]; !ok {
			return nil, nil
		}
	}

	targets := ExtractTargets(evt)
	if len(targets) == 0 {
		return nil, nil
	}

	programID, err := uuid.Parse(evt.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %s: invalid program_id %q: %w", s.name, evt.ProgramID, err)
	}

	rules, err := s.loadScopeRules(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %s: load scope rules: %w", s.name, err)
	}

	fragments, err := s.runTool(ctx, evt, targets)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, nil
	}

	result, err := ingest.Ingest(ctx, s.db, programID, fragments, s.cfg.BatchSize(s.name), ingest.FragmentBatchProcessor(rules))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %s: ingest: %w", s.name, err)
	}
	logging.Info(subsystem, "%s ingested total=%d ok_batches=%d failed_batches=%d created=%d",
		s.name, result.Total, result.OKBatches, result.FailedBatches, len(result.Created))

	return s.downstreamEvents(evt, result), nil
}

func (s *ToolScanService) loadScopeRules(ctx context.Context, programID uuid.UUID) ([]model.ScopeRule, error) {
	repo := assetstore.NewScopeRuleRepository(s.db)
	return repo.FindMany(ctx, map[string]any{"program_id": programID}, 0, 0, "")
}

func (s *ToolScanService) runTool(ctx context.Context, evt eventbus.Event, targets []string) ([]toolrunner.AssetFragment, error) {
	// Stateful tools (the crawler's visited sets) get a fresh session per
	// invocation so concurrent events through the same service stay
	// independent.
	tool := s.tool
	if st, ok := tool.(toolrunner.SessionTool); ok {
		tool = st.Session()
	}

	fragments, err := s.breaker.Execute(func() ([]toolrunner.AssetFragment, error) {
		params := toolrunner.Params{ProgramID: evt.ProgramID, Targets: targets, Target: targets[0]}
		argv, stdin := tool.BuildArgv(params)
		// The configured tool-path table overrides the adapter's binary
		// name, keyed by service name first (so "crawler" finds its
		// binary), then by the binary name itself (so the dnsx modes share
		// the "dnsx" entry).
		if len(argv) > 0 {
			if p, ok := s.cfg.ToolPaths[s.name]; ok && p != "" {
				argv[0] = p
			} else {
				argv[0] = s.cfg.ToolPath(argv[0])
			}
		}

		var stdinText string
		if stdin != nil {
			stdinText = strings.Join(stdin.Lines, "\n")
		}

		timeout := config.ClampTimeout(config.DefaultScanTimeout)
		lines, statusCh := supervisor.Run(ctx, argv, stdinText, timeout)

		var fragments []toolrunner.AssetFragment
		for line := range lines {
			record, ok := tool.ParseLine(line)
			if !ok {
				continue
			}
			if frag, ok := record.AsAsset(); ok {
				fragments = append(fragments, frag)
			}
		}

		status := <-statusCh
		if !status.Ok && status.Err != nil {
			return fragments, status.Err
		}
		if rt, ok := tool.(toolrunner.RefinerTool); ok {
			fragments = rt.Refine(ctx, fragments)
		}
		return fragments, nil
	})
	if err != nil {
		// A partial stream is still worth ingesting: the failure is
		// surfaced, but lines already parsed are real signal, not
		// discarded.
		if len(fragments) > 0 {
			logging.Warn(subsystem, "%s: %v, ingesting %d partial records", s.name, err, len(fragments))
			return fragments, nil
		}
		return nil, err
	}
	return fragments, nil
}

// downstreamEvents re-publishes the run's newly discovered targets. The
// payload carries the entities' string values (hostnames, addresses,
// paths) as reported by the ingest run, never row ids: the next tool in
// the chain feeds these straight onto its stdin or argv.
func (s *ToolScanService) downstreamEvents(trigger eventbus.Event, result *ingest.Result) []eventbus.Event {
	targets := normalize.DedupByKey(result.CreatedTargets, func(t string) string { return t })
	if len(s.emits) == 0 || len(targets) == 0 {
		return nil
	}
	events := make([]eventbus.Event, 0, len(s.emits))
	for _, emission := range s.emits {
		events = append(events, eventbus.Event{
			Name:       emission.Event,
			Source:     s.name,
			Confidence: emission.Confidence,
			ProgramID:  trigger.ProgramID,
			Fields:     map[string]any{"targets": targets},
		})
	}
	return events
}
