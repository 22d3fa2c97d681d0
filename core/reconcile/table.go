package reconcile

import (
	"strconv"

	"inventory-recon/core/model"
	"inventory-recon/core/sink"
	"inventory-recon/core/utils"
)

// TableName is the output name of the enriched dataset.
const TableName = "final_clean_dataset"

// Header returns the enriched dataset header for the given catalog columns.
func Header(columns []string) []string {
	header := []string{"trace_id", "sku", "side", "quantity", "order_time", "timestamp"}
	header = append(header, columns...)
	return append(header, "market_price", "price_time", "transaction_value", "year", "quarter", "week")
}

// Table renders the enriched rows. columns are the catalog attribute columns
// in output order.
func Table(result *Result, columns []string) sink.Table {
	t := sink.Table{
		Name:   TableName,
		Header: Header(columns),
		Rows:   make([][]string, 0, len(result.Rows)),
	}

	for _, r := range result.Rows {
		row := make([]string, 0, len(t.Header))
		row = append(row,
			r.TraceID,
			r.SKU,
			string(r.Side),
			strconv.Itoa(r.Quantity),
			model.FormatTime(r.OrderTime),
			model.FormatTime(r.Timestamp),
		)
		for _, col := range columns {
			row = append(row, r.Attributes.Get(col))
		}
		row = append(row,
			utils.FormatFloat(r.MarketPrice),
			model.FormatTime(r.PriceTime),
			utils.FormatFloat(r.TransactionValue),
			strconv.Itoa(r.Year),
			r.QuarterLabel(),
			strconv.Itoa(r.Week),
		)
		t.Rows = append(t.Rows, row)
	}
	return t
}
