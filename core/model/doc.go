// Package model holds the record types that flow between the readers, the
// reconciliation engine and the report generator.
//
// # Records
//
//   - LogEntry: one parsed log statement (ORDER, TRANSACTION, RESULT, RESPONSE)
//   - OrderEvent / TransactionEvent: typed views of ORDER and TRANSACTION entries
//   - SkuRecord: one flattened catalog row keyed by sku
//   - MarketPriceRecord: one cleaned price observation
//   - EnrichedTransaction: the joined output row
//
// All timestamps are UTC.
package model
