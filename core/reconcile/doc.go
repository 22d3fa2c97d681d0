// Package reconcile joins order and transaction events into enriched,
// priced transactions.
//
// # Stages
//
// Reconcile runs four stages over fully materialized inputs:
//
// 1. Match: orders and transactions are indexed by trace id. The first event
// seen for a trace id is kept and later ones are counted as data quality
// violations. Only trace ids with both an order and a transaction continue.
//
// 2. Metadata join: each pair is looked up in the Catalog by sku. Pairs with an
// unknown sku are dropped as join gaps.
//
// 3. As-of price join: PriceIndex partitions prices by sku and sorts each
// partition by timestamp once. Every row then binary searches its sku's
// timeline for the latest price at or before the transaction time. Rows with
// no such price are dropped; a later price is never used.
//
// 4. Features: transaction value (signed quantity times price), calendar year,
// quarter and ISO week of the transaction time.
//
// Every drop is counted by the stats.Collector under Stage, and Result carries
// a Summary of the same coverage numbers.
//
// # Usage Example
//
//	result := reconcile.Reconcile(reconcile.Inputs{
//	    Orders:       events.Orders,
//	    Transactions: events.Transactions,
//	    Catalog:      cat,
//	    Prices:       prices,
//	}, collector)
//
//	table := reconcile.Table(result, cat.Columns)
package reconcile
