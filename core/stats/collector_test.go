package stats

import (
	"testing"

	"inventory-recon/core/fault"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollector_Counts(t *testing.T) {
	c := New(nil)

	c.Add("logs", "parsed", 3)
	c.Add("logs", "parsed", 2)
	c.Record("logs", fault.KindParse, "missing_timestamp")
	c.Record("logs", fault.KindParse, "missing_timestamp")
	c.Record("logs", fault.KindParse, "unknown_message_type")
	c.Record("reconcile", fault.KindJoinGap, "unknown_sku")

	assert.Equal(t, 5, c.Get("logs", "", "parsed"))
	assert.Equal(t, 2, c.Get("logs", fault.KindParse, "missing_timestamp"))
	assert.Equal(t, 3, c.Total("logs", fault.KindParse))
	assert.Equal(t, 1, c.Total("reconcile", fault.KindJoinGap))
	assert.Equal(t, 0, c.Total("prices", fault.KindParse))
}

func TestCollector_SnapshotIsSorted(t *testing.T) {
	c := New(zap.NewNop())
	c.Record("reconcile", fault.KindJoinGap, "unmatched_order")
	c.Add("catalog", "records", 1)
	c.Record("logs", fault.KindParse, "bad_timestamp")
	c.Record("catalog", fault.KindDataQuality, "duplicate_sku")

	snapshot := c.Snapshot()
	assert.Equal(t, []Counter{
		{Stage: "catalog", Reason: "records", Count: 1},
		{Stage: "catalog", Kind: fault.KindDataQuality, Reason: "duplicate_sku", Count: 1},
		{Stage: "logs", Kind: fault.KindParse, Reason: "bad_timestamp", Count: 1},
		{Stage: "reconcile", Kind: fault.KindJoinGap, Reason: "unmatched_order", Count: 1},
	}, snapshot)
}

func TestCollector_LogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(zap.New(core))

	c.Record("catalog", fault.KindDataQuality, "duplicate_sku", zap.String("sku", "S1"))
	c.Record("logs", fault.KindParse, "bad_timestamp")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "S1", entries[0].ContextMap()["sku"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)

	c.LogSummary()
	summaries := logs.FilterMessage("Stage summary").All()
	assert.Len(t, summaries, 2)
	assert.Equal(t, int64(1), summaries[0].ContextMap()["data_quality_violation.duplicate_sku"])
}
