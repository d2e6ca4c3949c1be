package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/config"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/eventbus"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/orchestrator"
	"github.com/Nakamo312/BugBountyMCP-sub001/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the orchestrator: subscribe every stage queue and dispatch scan services",
	Long: `serve starts one consumer per pipeline stage (discovery, enumeration,
validation, analysis), each bound to the scan services registered for it, and
runs until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := connectStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := connectBus(cfg)
	defer redisClient.Close()

	bus := eventbus.New(redisClient)
	registry := orchestrator.BuildDefaultRegistry(db, cfg)
	limits := orchestrator.StageConcurrency{
		eventbus.Discovery:   int64(cfg.StageConcurrency.Discovery),
		eventbus.Enumeration: int64(cfg.StageConcurrency.Enumeration),
		eventbus.Validation:  int64(cfg.StageConcurrency.Validation),
		eventbus.Analysis:    int64(cfg.StageConcurrency.Analysis),
	}
	orch := orchestrator.New(bus, registry, limits)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("CLI", "orchestrator starting, stage concurrency=%+v", cfg.StageConcurrency)
	err = orch.Run(ctx)
	if err != nil && ctx.Err() == nil {
		return err
	}
	logging.Info("CLI", "orchestrator shut down cleanly")
	return nil
}
