package reconcile

import (
	"sort"
	"time"

	"inventory-recon/core/model"
)

// PriceIndex holds one ascending price timeline per sku.
type PriceIndex struct {
	series map[string][]model.MarketPriceRecord
}

// NewPriceIndex partitions prices by sku and sorts each partition by
// timestamp. The sort is stable, so among equal timestamps the record read
// last is rightmost and wins a lookup.
func NewPriceIndex(prices []model.MarketPriceRecord) *PriceIndex {
	series := make(map[string][]model.MarketPriceRecord)
	for _, p := range prices {
		series[p.SKU] = append(series[p.SKU], p)
	}

	for _, s := range series {
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].Timestamp.Before(s[j].Timestamp)
		})
	}

	return &PriceIndex{series: series}
}

// Lookup returns the latest price for sku with timestamp <= t.
func (ix *PriceIndex) Lookup(sku string, t time.Time) (model.MarketPriceRecord, bool) {
	s := ix.series[sku]

	// First index strictly after t; the candidate is just before it.
	i := sort.Search(len(s), func(i int) bool {
		return s[i].Timestamp.After(t)
	})
	if i == 0 {
		return model.MarketPriceRecord{}, false
	}
	return s[i-1], true
}

// Len returns the number of prices indexed for sku.
func (ix *PriceIndex) Len(sku string) int {
	return len(ix.series[sku])
}
