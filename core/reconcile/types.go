package reconcile

import "inventory-recon/core/model"

// Stage is the stats stage name of the engine.
const Stage = "reconcile"

// Drop reasons recorded by the engine.
const (
	ReasonDuplicateTraceID     = "duplicate_trace_id"
	ReasonUnmatchedOrder       = "unmatched_order"
	ReasonUnmatchedTransaction = "unmatched_transaction"
	ReasonUnknownSKU           = "unknown_sku"
	ReasonNoPriorPrice         = "no_prior_price"
)

// Catalog resolves sku attributes.
type Catalog interface {
	// Lookup returns the flattened record for sku.
	Lookup(sku string) (model.SkuRecord, bool)
}

// Inputs bundles the materialized reader outputs of a run.
type Inputs struct {
	// Orders are the ORDER events in read order.
	Orders []model.OrderEvent

	// Transactions are the TRANSACTION events in read order.
	Transactions []model.TransactionEvent

	// Catalog resolves sku attributes.
	Catalog Catalog

	// Prices are the cleaned market price observations in read order.
	Prices []model.MarketPriceRecord
}

// Result is the output of a reconciliation run.
type Result struct {
	// Rows are the enriched transactions sorted by timestamp, then trace id.
	Rows []model.EnrichedTransaction `json:"rows"`

	// Summary provides coverage counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate coverage statistics for a reconciliation run.
type Summary struct {
	// Orders is the number of distinct order trace ids.
	Orders int `json:"orders"`

	// Transactions is the number of distinct transaction trace ids.
	Transactions int `json:"transactions"`

	// DuplicateOrders counts ORDER events dropped for a repeated trace id.
	DuplicateOrders int `json:"duplicate_orders"`

	// DuplicateTransactions counts TRANSACTION events dropped for a repeated trace id.
	DuplicateTransactions int `json:"duplicate_transactions"`

	// Matched counts trace ids with both an order and a transaction.
	Matched int `json:"matched"`

	// UnmatchedOrders counts orders without a transaction.
	UnmatchedOrders int `json:"unmatched_orders"`

	// UnmatchedTransactions counts transactions without an order.
	UnmatchedTransactions int `json:"unmatched_transactions"`

	// UnknownSKU counts matched pairs whose sku is not in the catalog.
	UnknownSKU int `json:"unknown_sku"`

	// NoPriorPrice counts rows without a price at or before the transaction.
	NoPriorPrice int `json:"no_prior_price"`

	// Enriched is the number of output rows.
	Enriched int `json:"enriched"`
}
