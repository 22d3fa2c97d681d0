package reports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"inventory-recon/core/model"
	"inventory-recon/core/sink"
	"inventory-recon/core/utils"
	"inventory-recon/feature/catalog"
)

// Output names of the brand rankings.
const (
	TopBrandsTableName = "two_most_profitable_brands"
	BrandsTableName    = "most_profitable_brands"
)

// BrandWindow selects the transactions that count towards brand profit.
type BrandWindow struct {
	Year    int
	MaxWeek int
	// Side restricts the window to one side; empty keeps both.
	Side model.Side
}

// Contains reports whether r falls inside the window.
func (w BrandWindow) Contains(r model.EnrichedTransaction) bool {
	if r.Year != w.Year || r.Week > w.MaxWeek {
		return false
	}
	return w.Side == "" || r.Side == w.Side
}

// BrandProfit is the summed transaction value of one brand.
type BrandProfit struct {
	BrandID      string  `json:"brand_id"`
	BrandName    string  `json:"brand_name"`
	Transactions int     `json:"transactions"`
	Value        float64 `json:"transaction_value"`
}

// MostProfitableBrands ranks brands by summed transaction value inside w,
// highest first. Ties are broken by brand name, then brand id.
func MostProfitableBrands(rows []model.EnrichedTransaction, w BrandWindow) []BrandProfit {
	index := make(map[idName]*BrandProfit)

	for _, r := range rows {
		if !w.Contains(r) {
			continue
		}
		key := idName{
			id:   r.Attributes.Get(catalog.ColumnBrandID),
			name: r.Attributes.Get(catalog.ColumnBrandName),
		}
		b, ok := index[key]
		if !ok {
			b = &BrandProfit{BrandID: key.id, BrandName: key.name}
			index[key] = b
		}
		b.Transactions++
		b.Value += r.TransactionValue
	}

	out := make([]BrandProfit, 0, len(index))
	for _, b := range index {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		if out[i].BrandName != out[j].BrandName {
			return out[i].BrandName < out[j].BrandName
		}
		return out[i].BrandID < out[j].BrandID
	})
	return out
}

// TopBrands returns the first n entries of a ranking.
func TopBrands(ranking []BrandProfit, n int) []BrandProfit {
	if n > len(ranking) {
		n = len(ranking)
	}
	return ranking[:n]
}

// BrandSummary renders a one-line description of the top of a ranking.
func BrandSummary(top []BrandProfit) string {
	if len(top) == 0 {
		return "No brand has transactions inside the profitability window."
	}
	names := make([]string, len(top))
	values := make([]string, len(top))
	for i, b := range top {
		names[i] = b.BrandName
		values[i] = "$" + utils.FormatFloat(b.Value)
	}
	return fmt.Sprintf("The top %d most profitable brands are %s with total revenues of %s.",
		len(top), strings.Join(names, " and "), strings.Join(values, " and "))
}

// BrandTable renders a brand ranking under name.
func BrandTable(name string, ranking []BrandProfit) sink.Table {
	t := sink.Table{
		Name:   name,
		Header: []string{"rank", "brand_id", "brand_name", "transactions", "transaction_value"},
		Rows:   make([][]string, 0, len(ranking)),
	}
	for i, b := range ranking {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			b.BrandID,
			b.BrandName,
			strconv.Itoa(b.Transactions),
			utils.FormatFloat(b.Value),
		})
	}
	return t
}
