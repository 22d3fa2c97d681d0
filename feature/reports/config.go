package reports

import (
	"fmt"
	"time"

	"inventory-recon/core/model"
)

// Config holds configuration for the aggregate reports.
type Config struct {
	// BrandYear is the calendar year of the brand profitability window.
	BrandYear int `mapstructure:"brand_year" default:"2024"`
	// BrandMaxWeek is the last ISO week (inclusive) of the window.
	BrandMaxWeek int `mapstructure:"brand_max_week" default:"21"`
	// BrandSide restricts the window to one side; empty keeps both.
	BrandSide string `mapstructure:"brand_side" default:"sell"`
	// TopBrands is how many brands go into the short ranking.
	TopBrands int `mapstructure:"top_brands" default:"2"`
	// InventoryCutoff is the exclusive end date (YYYY-MM-DD) of the snapshot.
	InventoryCutoff string `mapstructure:"inventory_cutoff" default:"2025-02-01"`
	// InventorySKUs lists the skus of the snapshot, in output order.
	InventorySKUs []string `mapstructure:"inventory_skus" default:"WINE-OPU-001,WINE-OPU-003,WINE-LAF-004,WHKY-GLE-018,BRBN-MAK-024"`
}

// Window returns the brand profitability window.
func (c Config) Window() BrandWindow {
	return BrandWindow{Year: c.BrandYear, MaxWeek: c.BrandMaxWeek, Side: model.Side(c.BrandSide)}
}

// Cutoff parses InventoryCutoff as a UTC date or timestamp.
func (c Config) Cutoff() (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.DateTime, time.RFC3339} {
		if t, err := time.Parse(layout, c.InventoryCutoff); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid inventory cutoff %q", c.InventoryCutoff)
}

// Validate checks that the report settings are usable.
func (c Config) Validate() error {
	if c.BrandMaxWeek < 1 || c.BrandMaxWeek > 53 {
		return fmt.Errorf("brand_max_week must be between 1 and 53, got %d", c.BrandMaxWeek)
	}
	switch model.Side(c.BrandSide) {
	case "", model.SideBuy, model.SideSell:
	default:
		return fmt.Errorf("brand_side must be buy, sell or empty, got %q", c.BrandSide)
	}
	if c.TopBrands < 1 {
		return fmt.Errorf("top_brands must be positive, got %d", c.TopBrands)
	}
	if _, err := c.Cutoff(); err != nil {
		return err
	}
	return nil
}
