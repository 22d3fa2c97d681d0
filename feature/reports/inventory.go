package reports

import (
	"sort"
	"strconv"
	"time"

	"inventory-recon/core/model"
	"inventory-recon/core/sink"
)

// InventoryTableName is the output name of the inventory snapshot.
const InventoryTableName = "inventory_snapshot"

// InventoryBalance is the net signed quantity of one sku.
type InventoryBalance struct {
	SKU             string `json:"sku"`
	EndingInventory int    `json:"ending_inventory"`
	Transactions    int    `json:"transactions"`
}

// InventorySnapshot sums the signed quantity per sku over all rows strictly
// before cutoff. Balances are returned in the order of skus; skus without
// transactions are omitted. An empty skus list returns every sku in ascending
// order.
func InventorySnapshot(rows []model.EnrichedTransaction, cutoff time.Time, skus []string) []InventoryBalance {
	totals := make(map[string]*InventoryBalance)
	for _, r := range rows {
		if !r.Timestamp.Before(cutoff) {
			continue
		}
		b, ok := totals[r.SKU]
		if !ok {
			b = &InventoryBalance{SKU: r.SKU}
			totals[r.SKU] = b
		}
		b.EndingInventory += r.Quantity
		b.Transactions++
	}

	if len(skus) == 0 {
		for sku := range totals {
			skus = append(skus, sku)
		}
		sort.Strings(skus)
	}

	out := make([]InventoryBalance, 0, len(skus))
	seen := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		if _, dup := seen[sku]; dup {
			continue
		}
		seen[sku] = struct{}{}
		if b, ok := totals[sku]; ok {
			out = append(out, *b)
		}
	}
	return out
}

// InventoryTable renders the inventory snapshot.
func InventoryTable(balances []InventoryBalance) sink.Table {
	t := sink.Table{
		Name:   InventoryTableName,
		Header: []string{"sku", "ending_inventory", "transactions"},
		Rows:   make([][]string, 0, len(balances)),
	}
	for _, b := range balances {
		t.Rows = append(t.Rows, []string{b.SKU, strconv.Itoa(b.EndingInventory), strconv.Itoa(b.Transactions)})
	}
	return t
}
