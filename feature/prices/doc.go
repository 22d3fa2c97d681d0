// Package prices reads market price snapshots and normalizes them into
// MarketPriceRecords.
//
// Snapshots are CSV or Parquet files with at least a quote identifier, a price
// and a timestamp column. The sku is the quote identifier without its trailing
// numeric segment:
//
//	WINE-OPU-001-20240301  ->  WINE-OPU-001
//
// Rows whose sku cannot be extracted, or whose price or timestamp does not
// parse, are dropped and counted. A file that cannot be decoded at all is
// skipped; a file that cannot be opened fails the read.
package prices
