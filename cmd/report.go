package cmd

import (
	"fmt"

	"inventory-recon/feature/pipeline"
	"inventory-recon/feature/reports"

	"go.uber.org/zap"
)

// printRunReport prints a formatted run report using logger.
func printRunReport(l *zap.Logger, report *pipeline.Report) {
	s := report.Summary

	l.Info("Reconciliation report",
		zap.Int("orders", s.Orders),
		zap.Int("transactions", s.Transactions),
		zap.Int("matched", s.Matched),
		zap.Int("unmatched_orders", s.UnmatchedOrders),
		zap.Int("unmatched_transactions", s.UnmatchedTransactions),
		zap.Int("unknown_sku", s.UnknownSKU),
		zap.Int("no_prior_price", s.NoPriorPrice),
		zap.Int("enriched", s.Enriched),
	)

	if s.DuplicateOrders > 0 || s.DuplicateTransactions > 0 {
		l.Warn("Duplicate trace ids were resolved first-seen",
			zap.Int("duplicate_orders", s.DuplicateOrders),
			zap.Int("duplicate_transactions", s.DuplicateTransactions),
		)
	}

	// Show a sample of the brand ranking (max 5 for logger)
	brands := report.Reports.Brands
	maxShow := 5
	if len(brands) < maxShow {
		maxShow = len(brands)
	}
	for i := 0; i < maxShow; i++ {
		l.Info("Brand ranking",
			zap.Int("rank", i+1),
			zap.String("brand", brands[i].BrandName),
			zap.Float64("transaction_value", brands[i].Value),
		)
	}
	if len(brands) > maxShow {
		l.Info("Additional brands not shown", zap.Int("count", len(brands)-maxShow))
	}

	fmt.Println(reports.BrandSummary(report.Reports.TopBrands))
	fmt.Println("\n=== Run Metrics ===")
	fmt.Printf("Enriched Transactions: %d\n", s.Enriched)
	fmt.Printf("Join Gaps: %d\n", s.UnmatchedOrders+s.UnmatchedTransactions+s.UnknownSKU+s.NoPriorPrice)
	fmt.Printf("Outputs: %d\n", len(report.Outputs))
	fmt.Printf("Execution Time: %s\n", report.Duration.String())
}

// printInventory prints an inventory snapshot as a fixed-width table.
func printInventory(balances []reports.InventoryBalance) {
	fmt.Println("\n=== Ending Inventory ===")
	fmt.Printf("%-16s %16s\n", "SKU", "ENDING INVENTORY")
	for _, b := range balances {
		fmt.Printf("%-16s %16d\n", b.SKU, b.EndingInventory)
	}
}
