package model

import (
	"fmt"
	"time"
)

// MessageType is the statement kind carried in the second column of a log line.
type MessageType string

const (
	MessageOrder       MessageType = "ORDER"
	MessageTransaction MessageType = "TRANSACTION"
	MessageResult      MessageType = "RESULT"
	MessageResponse    MessageType = "RESPONSE"
)

// ParseMessageType returns the MessageType for s, or false if s is not a known type.
func ParseMessageType(s string) (MessageType, bool) {
	switch t := MessageType(s); t {
	case MessageOrder, MessageTransaction, MessageResult, MessageResponse:
		return t, true
	default:
		return "", false
	}
}

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Sign returns -1 for buys and +1 for sells.
func (s Side) Sign() int {
	if s == SideBuy {
		return -1
	}
	return 1
}

// LogEntry is a single parsed log statement.
type LogEntry struct {
	Timestamp time.Time
	Type      MessageType
	TraceID   string
	Detail    string

	// Source is the file the entry was read from.
	Source string
	// Line is the line number of the entry header within Source.
	Line int
}

// OrderEvent is the typed view of an ORDER entry.
// Quantity is signed: negative for buys, positive for sells.
type OrderEvent struct {
	TraceID   string
	SKU       string
	Quantity  int
	Side      Side
	Timestamp time.Time
}

// TransactionEvent is the typed view of a TRANSACTION entry.
type TransactionEvent struct {
	TraceID string
	// Amount is the raw detail text. It is never projected into outputs.
	Amount    string
	Timestamp time.Time
}

// SkuRecord is one flattened catalog row.
type SkuRecord struct {
	SKU    string
	Fields map[string]string
}

// Get returns the value of column, or "" when absent.
func (r SkuRecord) Get(column string) string {
	return r.Fields[column]
}

// MarketPriceRecord is one cleaned market price observation.
type MarketPriceRecord struct {
	SKU       string
	QuoteID   string
	Price     float64
	Timestamp time.Time
	Source    string
}

// EnrichedTransaction is one matched ORDER+TRANSACTION pair with catalog
// attributes, the as-of market price and derived features.
type EnrichedTransaction struct {
	TraceID   string
	SKU       string
	Side      Side
	Quantity  int
	OrderTime time.Time
	// Timestamp is the transaction time used for the as-of price lookup.
	Timestamp time.Time

	Attributes SkuRecord

	MarketPrice      float64
	PriceTime        time.Time
	TransactionValue float64

	Year    int
	Quarter int
	Week    int
}

// QuarterLabel formats the calendar quarter as "2024Q1".
func (e EnrichedTransaction) QuarterLabel() string {
	return fmt.Sprintf("%dQ%d", e.Year, e.Quarter)
}
