package reports

import (
	"fmt"

	"inventory-recon/core/model"
	"inventory-recon/core/sink"
	"inventory-recon/core/stats"

	"go.uber.org/zap"
)

// Stage is the stats stage name of the report generator.
const Stage = "reports"

// Set holds every aggregate view of a run.
type Set struct {
	TopRegions []RegionVolume     `json:"top_regions"`
	Brands     []BrandProfit      `json:"brands"`
	TopBrands  []BrandProfit      `json:"top_brands"`
	Inventory  []InventoryBalance `json:"inventory"`
}

// Generate computes all views from the enriched rows.
func Generate(rows []model.EnrichedTransaction, cfg Config, c *stats.Collector) (*Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report config: %w", err)
	}
	cutoff, _ := cfg.Cutoff()

	set := &Set{
		TopRegions: TopRegionPerSKU(rows),
		Brands:     MostProfitableBrands(rows, cfg.Window()),
		Inventory:  InventorySnapshot(rows, cutoff, cfg.InventorySKUs),
	}
	set.TopBrands = TopBrands(set.Brands, cfg.TopBrands)

	c.Add(Stage, TopRegionTableName, len(set.TopRegions))
	c.Add(Stage, BrandsTableName, len(set.Brands))
	c.Add(Stage, InventoryTableName, len(set.Inventory))

	c.Logger().Info(BrandSummary(set.TopBrands),
		zap.Int("year", cfg.BrandYear),
		zap.Int("max_week", cfg.BrandMaxWeek),
		zap.String("side", cfg.BrandSide),
	)
	return set, nil
}

// Tables renders every view in output order.
func (s *Set) Tables() []sink.Table {
	return []sink.Table{
		TopRegionTable(s.TopRegions),
		BrandTable(TopBrandsTableName, s.TopBrands),
		BrandTable(BrandsTableName, s.Brands),
		InventoryTable(s.Inventory),
	}
}
