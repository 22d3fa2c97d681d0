package reports

import (
	"sort"
	"strconv"

	"inventory-recon/core/model"
	"inventory-recon/core/sink"
	"inventory-recon/feature/catalog"
)

// TopRegionTableName is the output name of the top region view.
const TopRegionTableName = "top_region_per_sku"

// RegionVolume is the transaction volume of one region for a sku and quarter.
type RegionVolume struct {
	SKU          string `json:"sku"`
	Year         int    `json:"year"`
	Quarter      int    `json:"quarter"`
	RegionID     string `json:"region_id"`
	RegionName   string `json:"region_name"`
	Transactions int    `json:"transactions"`
	Quantity     int    `json:"quantity"`
}

type quarterKey struct {
	sku     string
	year    int
	quarter int
}

// idName identifies a region or brand.
type idName struct {
	id   string
	name string
}

// TopRegionPerSKU returns, for each (sku, year, quarter), the region with the
// highest transaction count. The result is sorted by sku, year and quarter.
func TopRegionPerSKU(rows []model.EnrichedTransaction) []RegionVolume {
	groups := make(map[quarterKey]map[idName]*RegionVolume)

	for _, r := range rows {
		qk := quarterKey{sku: r.SKU, year: r.Year, quarter: r.Quarter}
		rk := idName{
			id:   r.Attributes.Get(catalog.ColumnRegionID),
			name: r.Attributes.Get(catalog.ColumnRegionName),
		}

		regions, ok := groups[qk]
		if !ok {
			regions = make(map[idName]*RegionVolume)
			groups[qk] = regions
		}
		v, ok := regions[rk]
		if !ok {
			v = &RegionVolume{SKU: r.SKU, Year: r.Year, Quarter: r.Quarter, RegionID: rk.id, RegionName: rk.name}
			regions[rk] = v
		}
		v.Transactions++
		v.Quantity += r.Quantity
	}

	out := make([]RegionVolume, 0, len(groups))
	for _, regions := range groups {
		var best *RegionVolume
		for _, v := range regions {
			if best == nil || beats(v, best) {
				best = v
			}
		}
		out = append(out, *best)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SKU != out[j].SKU {
			return out[i].SKU < out[j].SKU
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Quarter < out[j].Quarter
	})
	return out
}

// beats orders by count, then region name with unnamed regions last, then id.
func beats(a, b *RegionVolume) bool {
	if a.Transactions != b.Transactions {
		return a.Transactions > b.Transactions
	}
	if (a.RegionName == "") != (b.RegionName == "") {
		return b.RegionName == ""
	}
	if a.RegionName != b.RegionName {
		return a.RegionName < b.RegionName
	}
	return a.RegionID < b.RegionID
}

// TopRegionTable renders the top region view.
func TopRegionTable(volumes []RegionVolume) sink.Table {
	t := sink.Table{
		Name:   TopRegionTableName,
		Header: []string{"sku", "year", "quarter", "region_id", "region_name", "transactions", "quantity"},
		Rows:   make([][]string, 0, len(volumes)),
	}
	for _, v := range volumes {
		t.Rows = append(t.Rows, []string{
			v.SKU,
			strconv.Itoa(v.Year),
			model.EnrichedTransaction{Year: v.Year, Quarter: v.Quarter}.QuarterLabel(),
			v.RegionID,
			v.RegionName,
			strconv.Itoa(v.Transactions),
			strconv.Itoa(v.Quantity),
		})
	}
	return t
}
