// Package stats provides the counter collector that is passed explicitly
// through every pipeline stage.
//
// Stages record what they read, emitted and dropped. Drops are tagged with a
// fault.Kind and a short reason so that a run can report its coverage gaps
// without scraping the log stream.
package stats

import (
	"sort"

	"inventory-recon/core/fault"

	"go.uber.org/zap"
)

// Counter is a single named count in a Snapshot.
// Kind is empty for plain throughput counters.
type Counter struct {
	Stage  string     `json:"stage"`
	Kind   fault.Kind `json:"kind,omitempty"`
	Reason string     `json:"reason"`
	Count  int        `json:"count"`
}

type key struct {
	stage  string
	kind   fault.Kind
	reason string
}

// Collector accumulates per-stage counters and logs record-level failures.
// It is not safe for concurrent use.
type Collector struct {
	logger *zap.Logger
	counts map[key]int
}

// New creates a collector that logs through logger. A nil logger discards output.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		logger: logger,
		counts: make(map[key]int),
	}
}

// Logger returns the logger the collector writes to.
func (c *Collector) Logger() *zap.Logger {
	return c.logger
}

// Add increments a plain throughput counter (e.g. "parsed", "emitted").
func (c *Collector) Add(stage, name string, n int) {
	c.counts[key{stage: stage, reason: name}] += n
}

// Record counts one dropped or repaired record. Data quality violations are
// logged at warn level, everything else at debug.
func (c *Collector) Record(stage string, kind fault.Kind, reason string, fields ...zap.Field) {
	c.counts[key{stage: stage, kind: kind, reason: reason}]++

	fields = append([]zap.Field{
		zap.String("stage", stage),
		zap.String("kind", string(kind)),
		zap.String("reason", reason),
	}, fields...)

	if kind == fault.KindDataQuality {
		c.logger.Warn("Data quality violation", fields...)
		return
	}
	c.logger.Debug("Record dropped", fields...)
}

// Get returns a single counter. Use an empty kind for throughput counters.
func (c *Collector) Get(stage string, kind fault.Kind, reason string) int {
	return c.counts[key{stage: stage, kind: kind, reason: reason}]
}

// Total sums all counters of the given stage and kind.
func (c *Collector) Total(stage string, kind fault.Kind) int {
	total := 0
	for k, n := range c.counts {
		if k.stage == stage && k.kind == kind {
			total += n
		}
	}
	return total
}

// Snapshot returns all counters sorted by stage, kind and reason.
func (c *Collector) Snapshot() []Counter {
	out := make([]Counter, 0, len(c.counts))
	for k, n := range c.counts {
		out = append(out, Counter{Stage: k.stage, Kind: k.kind, Reason: k.reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return out[i].Stage < out[j].Stage
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

// LogSummary writes one info line per stage with all of its counters.
func (c *Collector) LogSummary() {
	snapshot := c.Snapshot()
	for i := 0; i < len(snapshot); {
		stage := snapshot[i].Stage
		fields := []zap.Field{zap.String("stage", stage)}
		for ; i < len(snapshot) && snapshot[i].Stage == stage; i++ {
			name := snapshot[i].Reason
			if snapshot[i].Kind != "" {
				name = string(snapshot[i].Kind) + "." + name
			}
			fields = append(fields, zap.Int(name, snapshot[i].Count))
		}
		c.logger.Info("Stage summary", fields...)
	}
}
