package prices

// Config holds configuration for market price snapshot discovery and parsing.
type Config struct {
	// Dir is the directory holding the snapshot files.
	Dir string `mapstructure:"dir" default:"data/market_prices"`
	// Pattern is the glob matching snapshot files inside Dir.
	Pattern string `mapstructure:"pattern" default:"market_prices_*"`
	// QuoteIDColumn holds the composite quote identifier.
	QuoteIDColumn string `mapstructure:"quote_id_column" default:"quote_id"`
	// PriceColumn holds the price in USD.
	PriceColumn string `mapstructure:"price_column" default:"price_usd"`
	// TimestampColumn holds the observation time.
	TimestampColumn string `mapstructure:"timestamp_column" default:"timestamp"`
	// SKUPattern extracts the sku from the quote identifier; the first
	// capture group is the sku.
	SKUPattern string `mapstructure:"sku_pattern" default:"^(.*?)-\\d+$"`
}
