// Package reports derives the aggregate views of a run from the enriched
// transactions.
//
// # Views
//
//   - TopRegionPerSKU: per sku and calendar quarter, the region with the most
//     transactions. Ties go to the region name, then the region id, in
//     ascending order.
//   - MostProfitableBrands: brands ranked by summed transaction value inside a
//     BrandWindow (by default sells in ISO weeks 1 to 21 of 2024). Ties go to
//     the brand name.
//   - InventorySnapshot: the net signed quantity per sku of all transactions
//     strictly before a cutoff, for a caller-provided list of skus.
//
// Every view is deterministic for a given input so repeated runs produce
// byte-identical files.
package reports
