package prices

import (
	"inventory-recon/core/model"
	"inventory-recon/core/sink"
	"inventory-recon/core/utils"
)

// TableName is the output name of the cleaned market data.
const TableName = "market_data"

// Table renders cleaned price records in read order.
func Table(records []model.MarketPriceRecord) sink.Table {
	t := sink.Table{
		Name:   TableName,
		Header: []string{"quote_id", "sku", "price_usd", "timestamp", "source"},
		Rows:   make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.QuoteID,
			r.SKU,
			utils.FormatFloat(r.Price),
			model.FormatTime(r.Timestamp),
			r.Source,
		})
	}
	return t
}
