package reconcile

import (
	"sort"

	"inventory-recon/core/fault"
	"inventory-recon/core/model"
	"inventory-recon/core/stats"

	"go.uber.org/zap"
)

// pair is one matched order and transaction.
type pair struct {
	order model.OrderEvent
	tx    model.TransactionEvent
}

// Reconcile matches, joins, prices and enriches the inputs. It never fails:
// every record that cannot be carried through is counted and dropped.
func Reconcile(in Inputs, c *stats.Collector) *Result {
	var summary Summary

	pairs := match(in.Orders, in.Transactions, c, &summary)
	prices := NewPriceIndex(in.Prices)

	rows := make([]model.EnrichedTransaction, 0, len(pairs))
	for _, p := range pairs {
		attrs, ok := in.Catalog.Lookup(p.order.SKU)
		if !ok {
			summary.UnknownSKU++
			c.Record(Stage, fault.KindJoinGap, ReasonUnknownSKU,
				zap.String("trace_id", p.order.TraceID),
				zap.String("sku", p.order.SKU),
			)
			continue
		}

		price, ok := prices.Lookup(p.order.SKU, p.tx.Timestamp)
		if !ok {
			summary.NoPriorPrice++
			c.Record(Stage, fault.KindJoinGap, ReasonNoPriorPrice,
				zap.String("trace_id", p.order.TraceID),
				zap.String("sku", p.order.SKU),
				zap.Time("timestamp", p.tx.Timestamp),
			)
			continue
		}

		rows = append(rows, enrich(p, attrs, price))
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].Timestamp.Before(rows[j].Timestamp)
		}
		return rows[i].TraceID < rows[j].TraceID
	})

	summary.Enriched = len(rows)
	c.Add(Stage, "enriched", len(rows))
	c.Logger().Info("Reconciliation finished",
		zap.Int("matched", summary.Matched),
		zap.Int("unmatched_orders", summary.UnmatchedOrders),
		zap.Int("unmatched_transactions", summary.UnmatchedTransactions),
		zap.Int("unknown_sku", summary.UnknownSKU),
		zap.Int("no_prior_price", summary.NoPriorPrice),
		zap.Int("enriched", summary.Enriched),
	)

	return &Result{Rows: rows, Summary: summary}
}

// match inner-joins orders and transactions on trace id, keeping the first
// event seen per trace id on each side. Pairs follow order event read order.
func match(orders []model.OrderEvent, txs []model.TransactionEvent, c *stats.Collector, summary *Summary) []pair {
	orderIndex := make(map[string]model.OrderEvent, len(orders))
	orderKeys := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, dup := orderIndex[o.TraceID]; dup {
			summary.DuplicateOrders++
			c.Record(Stage, fault.KindDataQuality, ReasonDuplicateTraceID,
				zap.String("trace_id", o.TraceID),
				zap.String("event", string(model.MessageOrder)),
			)
			continue
		}
		orderIndex[o.TraceID] = o
		orderKeys = append(orderKeys, o.TraceID)
	}

	txIndex := make(map[string]model.TransactionEvent, len(txs))
	for _, tx := range txs {
		if _, dup := txIndex[tx.TraceID]; dup {
			summary.DuplicateTransactions++
			c.Record(Stage, fault.KindDataQuality, ReasonDuplicateTraceID,
				zap.String("trace_id", tx.TraceID),
				zap.String("event", string(model.MessageTransaction)),
			)
			continue
		}
		txIndex[tx.TraceID] = tx

		if _, ok := orderIndex[tx.TraceID]; !ok {
			summary.UnmatchedTransactions++
			c.Record(Stage, fault.KindJoinGap, ReasonUnmatchedTransaction, zap.String("trace_id", tx.TraceID))
		}
	}

	summary.Orders = len(orderIndex)
	summary.Transactions = len(txIndex)

	pairs := make([]pair, 0, len(orderKeys))
	for _, key := range orderKeys {
		tx, ok := txIndex[key]
		if !ok {
			summary.UnmatchedOrders++
			c.Record(Stage, fault.KindJoinGap, ReasonUnmatchedOrder, zap.String("trace_id", key))
			continue
		}
		pairs = append(pairs, pair{order: orderIndex[key], tx: tx})
	}

	summary.Matched = len(pairs)
	c.Add(Stage, "matched", len(pairs))
	return pairs
}

// enrich builds the output row. The raw transaction amount is not carried.
func enrich(p pair, attrs model.SkuRecord, price model.MarketPriceRecord) model.EnrichedTransaction {
	ts := p.tx.Timestamp
	_, week := ts.ISOWeek()

	return model.EnrichedTransaction{
		TraceID:          p.order.TraceID,
		SKU:              p.order.SKU,
		Side:             p.order.Side,
		Quantity:         p.order.Quantity,
		OrderTime:        p.order.Timestamp,
		Timestamp:        ts,
		Attributes:       attrs,
		MarketPrice:      price.Price,
		PriceTime:        price.Timestamp,
		TransactionValue: float64(p.order.Quantity) * price.Price,
		Year:             ts.Year(),
		Quarter:          (int(ts.Month())-1)/3 + 1,
		Week:             week,
	}
}
