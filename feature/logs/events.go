package logs

import (
	"iter"
	"regexp"
	"strconv"
	"strings"

	"inventory-recon/core/fault"
	"inventory-recon/core/model"
	"inventory-recon/core/stats"

	"go.uber.org/zap"
)

// Drop reasons recorded during event extraction.
const (
	ReasonMalformedOrderDetail = "malformed_order_detail"
	ReasonZeroQuantity         = "zero_quantity"
)

var orderDetail = regexp.MustCompile(`(?i)(buy|sell)\s+(\S+)\s+(\d+)`)

// Events holds the typed events extracted from a log stream, in stream order.
type Events struct {
	Orders       []model.OrderEvent
	Transactions []model.TransactionEvent
}

// Extract consumes entries once and splits them into order and transaction
// events. ORDER entries whose detail lacks a side, sku or quantity are dropped.
// RESULT and RESPONSE entries are only counted.
func Extract(entries iter.Seq[model.LogEntry], c *stats.Collector) Events {
	var events Events
	for entry := range entries {
		switch entry.Type {
		case model.MessageOrder:
			order, reason := ParseOrder(entry)
			if reason != "" {
				c.Record(Stage, fault.KindParse, reason,
					zap.String("trace_id", entry.TraceID),
					zap.String("source", entry.Source),
					zap.Int("line", entry.Line),
					zap.String("detail", entry.Detail),
				)
				continue
			}
			events.Orders = append(events.Orders, order)
		case model.MessageTransaction:
			events.Transactions = append(events.Transactions, model.TransactionEvent{
				TraceID:   entry.TraceID,
				Amount:    entry.Detail,
				Timestamp: entry.Timestamp,
			})
		}
	}

	c.Add(Stage, "order_events", len(events.Orders))
	c.Add(Stage, "transaction_events", len(events.Transactions))
	return events
}

// ParseOrder extracts side, sku and quantity from an ORDER detail such as
// "sell WINE-OPU-001 12". The quantity is signed by side: buys are negative.
func ParseOrder(entry model.LogEntry) (model.OrderEvent, string) {
	m := orderDetail.FindStringSubmatch(entry.Detail)
	if m == nil {
		return model.OrderEvent{}, ReasonMalformedOrderDetail
	}

	qty, err := strconv.Atoi(m[3])
	if err != nil {
		return model.OrderEvent{}, ReasonMalformedOrderDetail
	}
	if qty == 0 {
		return model.OrderEvent{}, ReasonZeroQuantity
	}

	side := model.Side(strings.ToLower(m[1]))
	return model.OrderEvent{
		TraceID:   entry.TraceID,
		SKU:       m[2],
		Quantity:  side.Sign() * qty,
		Side:      side,
		Timestamp: entry.Timestamp,
	}, ""
}
