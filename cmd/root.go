package cmd

import (
	"fmt"
	"os"

	"inventory-recon/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands.
// Without a subcommand it runs the full pipeline.
var RootCmd = &cobra.Command{
	Use:   "inventory-recon",
	Short: "Inventory transaction reconciliation",
	Long: `inventory-recon reconciles transaction logs, the sku catalog and market
price snapshots into an enriched, priced transaction dataset and its reports.

All inputs are read from the conventional data/ layout and all outputs are
written to outputs/. See "inventory-recon check" to verify the inputs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runPipeline,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
