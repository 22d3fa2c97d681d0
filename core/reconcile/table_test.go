package reconcile

import (
	"testing"
	"time"

	"inventory-recon/core/model"
	"inventory-recon/core/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	result := Reconcile(Inputs{
		Orders:       []model.OrderEvent{order("T1", "S1", model.SideBuy, 3, base)},
		Transactions: []model.TransactionEvent{tx("T1", base.Add(30*time.Second))},
		Catalog:      mapCatalog{"S1": sku("S1", "Opus One", "Napa")},
		Prices:       []model.MarketPriceRecord{price("S1", -time.Hour, 12.5)},
	}, stats.New(nil))

	tbl := Table(result, []string{"brand_name", "region_name"})
	assert.Equal(t, "final_clean_dataset.csv", tbl.FileName())
	assert.Equal(t, []string{
		"trace_id", "sku", "side", "quantity", "order_time", "timestamp",
		"brand_name", "region_name",
		"market_price", "price_time", "transaction_value", "year", "quarter", "week",
	}, tbl.Header)

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{
		"T1", "S1", "buy", "-3", "2024-03-01 12:00:00", "2024-03-01 12:00:30",
		"Opus One", "Napa",
		"12.5", "2024-03-01 11:00:00", "-37.5", "2024", "2024Q1", "9",
	}, tbl.Rows[0])

	// No raw amount or detail text leaks into the projection.
	assert.NotContains(t, tbl.Header, "amount")
	assert.NotContains(t, tbl.Header, "detail")
}
