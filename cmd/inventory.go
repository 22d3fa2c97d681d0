package cmd

import (
	"fmt"

	"inventory-recon/core/sink"
	"inventory-recon/core/stats"
	"inventory-recon/feature/pipeline"
	"inventory-recon/feature/reports"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for inventory command
	inventoryCutoff string
	inventorySKUs   []string
)

// inventoryCmd computes the ending inventory of selected skus.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Compute the ending inventory of selected skus",
	Long: `Reconciles the inputs and sums the signed quantity per sku of every
transaction strictly before the cutoff date.

Examples:
  # Configured cutoff and skus
  inventory-recon inventory

  # Custom cutoff and skus
  inventory-recon inventory --cutoff 2024-07-01 --sku WINE-OPU-001 --sku BRBN-MAK-024`,
	Args: cobra.NoArgs,
	RunE: runInventory,
}

func init() {
	RootCmd.AddCommand(inventoryCmd)

	inventoryCmd.Flags().StringVar(&inventoryCutoff, "cutoff", "", "Exclusive cutoff date (YYYY-MM-DD), defaults to reports.inventory_cutoff")
	inventoryCmd.Flags().StringSliceVar(&inventorySKUs, "sku", nil, "Sku to include (repeatable), defaults to reports.inventory_skus")
}

func runInventory(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	if inventoryCutoff != "" {
		cfg.Reports.InventoryCutoff = inventoryCutoff
	}
	if len(inventorySKUs) > 0 {
		cfg.Reports.InventorySKUs = inventorySKUs
	}
	cutoff, err := cfg.Reports.Cutoff()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	out, err := buildSink(fs, cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(fs, cfg, out, stats.New(l))
	enriched, err := p.Enrich()
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	balances := reports.InventorySnapshot(enriched.Result.Rows, cutoff, cfg.Reports.InventorySKUs)
	if _, err := p.Write(contextOf(cmd), []sink.Table{reports.InventoryTable(balances)}); err != nil {
		return err
	}

	l.Info("Inventory snapshot computed",
		zap.Time("cutoff", cutoff),
		zap.Strings("skus", cfg.Reports.InventorySKUs),
		zap.Int("balances", len(balances)),
	)
	printInventory(balances)
	return nil
}
