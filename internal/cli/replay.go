package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/assetstore"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/config"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/ingest"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
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
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

var (
	replayProgramID string
	replayToolName  string
	replayFile      string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-ingest a captured tool output file for operational recovery",
	Long: `replay re-runs batch ingestion against a file of tool output lines
captured from a previous run (e.g. a dead-lettered scan), without re-invoking
the external binary. This is the recovery path when a batch failed partway
through ingestion and the source lines are still on disk.`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayProgramID, "program", "", "program UUID the captured output belongs to")
	replayCmd.Flags().StringVar(&replayToolName, "tool", "", "name of the tool that produced the output (e.g. subfinder)")
	replayCmd.Flags().StringVar(&replayFile, "file", "", "path to the newline-delimited captured tool output")
	_ = replayCmd.MarkFlagRequired("program")
	_ = replayCmd.MarkFlagRequired("tool")
	_ = replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	programID, err := uuid.Parse(replayProgramID)
	if err != nil {
		return fmt.Errorf("cli: replay: invalid --program: %w", err)
	}

	tool, err := toolByName(replayToolName)
	if err != nil {
		return err
	}

	db, err := connectStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(replayFile)
	if err != nil {
		return fmt.Errorf("cli: replay: open %s: %w", replayFile, err)
	}
	defer f.Close()

	var fragments []toolrunner.AssetFragment
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		record, ok := tool.ParseLine(scanner.Text())
		if !ok {
			continue
		}
		if frag, ok := record.AsAsset(); ok {
			fragments = append(fragments, frag)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cli: replay: read %s: %w", replayFile, err)
	}
	if len(fragments) == 0 {
		logging.Warn("CLI", "replay: %s produced no ingestible fragments from %s", replayToolName, replayFile)
		return nil
	}

	rules, err := assetstore.NewScopeRuleRepository(db).FindMany(cmd.Context(), map[string]any{"program_id": programID}, 0, 0, "")
	if err != nil {
		return fmt.Errorf("cli: replay: load scope rules: %w", err)
	}

	result, err := ingest.Ingest(cmd.Context(), db, programID, fragments, cfg.BatchSize(replayToolName), ingest.FragmentBatchProcessor(rules))
	if err != nil {
		return fmt.Errorf("cli: replay: ingest: %w", err)
	}

	logging.Info("CLI", "replay: %s total=%d ok_batches=%d failed_batches=%d created=%d",
		replayToolName, result.Total, result.OKBatches, result.FailedBatches, len(result.Created))
	return nil
}

// toolByName resolves a tool roster entry by its registered name so replay
// can reuse the same ParseLine contract the orchestrator drives live.
func toolByName(name string) (toolrunner.Tool, error) {
	roster := []toolrunner.Tool{
		subfinder.New(), amass.New(), asnmap.New(),
		mapcidr.New(), hakip2host.New(), smap.New(),
		dnsx.NewBasic(), dnsx.NewDeep(), dnsx.NewPTR(),
		httpx.New(), naabu.New(), tlsx.New(), gau.New(), katana.New(), crawler.New(),
		linkfinder.New(), mantra.New(), ffuf.New(), subjack.New(),
	}
	for _, t := range roster {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cli: replay: unknown tool %q", name)
}
