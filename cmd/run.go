package cmd

import (
	"context"
	"fmt"

	"inventory-recon/core/config"
	"inventory-recon/core/logger"
	"inventory-recon/core/sink"
	"inventory-recon/core/stats"
	"inventory-recon/core/storage"
	"inventory-recon/feature/pipeline"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reconciliation pipeline",
	Long: `Reads the transaction logs, the sku catalog and the market price snapshots,
reconciles them and writes the enriched dataset and all reports.

Skipped records never fail the run; only missing or unreadable inputs and
unwritable outputs do.`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	RootCmd.AddCommand(runCmd)
}

// setup loads the configuration and builds the run logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	l, _ = logger.WithRunID(l)
	return cfg, l, nil
}

// buildSink returns the local output sink, fanned out to object storage when
// uploads are enabled.
func buildSink(fs afero.Fs, cfg *config.Config) (sink.Sink, error) {
	local := sink.NewLocal(fs, cfg.Output.Dir)
	if !cfg.Output.Upload {
		return local, nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return sink.Multi{local, sink.NewObject(client, cfg.Storage.Bucket, cfg.Output.Prefix)}, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	fs := afero.NewOsFs()
	out, err := buildSink(fs, cfg)
	if err != nil {
		return err
	}

	l.Info("Starting reconciliation run", zap.Bool("upload", cfg.Output.Upload))

	report, err := pipeline.New(fs, cfg, out, stats.New(l)).Run(contextOf(cmd))
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printRunReport(l, report)
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
