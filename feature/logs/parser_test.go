package logs

import (
	"strings"
	"testing"
	"time"

	"inventory-recon/core/fault"
	"inventory-recon/core/model"
	"inventory-recon/core/stats"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `2024-03-01 10:00:00 | ORDER | T1 | sell WINE-OPU-001 10
2024-03-01 10:00:05 | TRANSACTION | T1 | 200.00
  USD settled
garbage line
2024-13-01 10:00:00 | ORDER | T2 | buy X 1
2024-03-01 10:00:00 | PING | T3 | x

2024-03-01 10:00:00 | ORDER | T4
2024-03-01 10:00:00 | ORDER | T 5 | buy X 1
    orphan continuation
2024-03-01 10:01:00 | RESULT | T1 | ok | done
`

func newTestParser(t *testing.T) (*Parser, *stats.Collector) {
	t.Helper()
	c := stats.New(nil)
	p, err := NewParser(Config{TraceIDPattern: DefaultTraceIDPattern}, c)
	require.NoError(t, err)
	return p, c
}

func collect(seq func(func(model.LogEntry) bool)) []model.LogEntry {
	var out []model.LogEntry
	for e := range seq {
		out = append(out, e)
	}
	return out
}

func TestParse(t *testing.T) {
	p, c := newTestParser(t)

	entries := collect(p.Parse(strings.NewReader(sampleLog), "log_1.txt"))
	require.Len(t, entries, 3)

	assert.Equal(t, model.LogEntry{
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Type:      model.MessageOrder,
		TraceID:   "T1",
		Detail:    "sell WINE-OPU-001 10",
		Source:    "log_1.txt",
		Line:      1,
	}, entries[0])

	assert.Equal(t, model.MessageTransaction, entries[1].Type)
	assert.Equal(t, "200.00 USD settled", entries[1].Detail, "continuation line is folded into the detail")

	assert.Equal(t, model.MessageResult, entries[2].Type)
	assert.Equal(t, "ok | done", entries[2].Detail, "detail may contain the separator")
	assert.Equal(t, 11, entries[2].Line)

	assert.Equal(t, 10, c.Get(Stage, "", "lines"))
	assert.Equal(t, 3, c.Get(Stage, "", "entries"))
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonMissingTimestamp))
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonBadTimestamp))
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonUnknownMessageType))
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonTruncatedTraceID))
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonInvalidTraceID))
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonOrphanContinuation))
	assert.Equal(t, 6, c.Total(Stage, fault.KindParse))
}

func TestParse_IsLazy(t *testing.T) {
	p, c := newTestParser(t)

	var first model.LogEntry
	for e := range p.Parse(strings.NewReader(sampleLog), "log_1.txt") {
		first = e
		break
	}

	assert.Equal(t, "T1", first.TraceID)
	// The second header closes the first entry; nothing past it is read.
	assert.Equal(t, 2, c.Get(Stage, "", "lines"))
}

func TestParse_CRLFAndTrailingEntry(t *testing.T) {
	p, _ := newTestParser(t)

	input := "2024-03-01 10:00:00 | RESPONSE | abc-123 | 200 OK\r\n\tbody follows"
	entries := collect(p.Parse(strings.NewReader(input), "log_2.txt"))

	require.Len(t, entries, 1)
	assert.Equal(t, "200 OK body follows", entries[0].Detail)
	assert.Equal(t, "abc-123", entries[0].TraceID)
}

func TestParse_LineTooLong(t *testing.T) {
	p, c := newTestParser(t)

	input := "2024-03-01 10:00:00 | ORDER | T1 | sell WINE-OPU-001 10\n" +
		"2024-03-01 10:00:01 | RESPONSE | T1 | " + strings.Repeat("x", 2<<20) + "\n" +
		"2024-03-01 10:00:02 | TRANSACTION | T1 | 200.00\n" +
		"2024-03-01 10:00:03 | ORDER | T2 | buy WHKY-GLE-018 4\n"
	entries := collect(p.Parse(strings.NewReader(input), "log_3.txt"))

	require.Len(t, entries, 3)
	assert.Equal(t, model.MessageOrder, entries[0].Type)
	assert.Equal(t, model.MessageTransaction, entries[1].Type)
	assert.Equal(t, 3, entries[1].Line)
	assert.Equal(t, "T2", entries[2].TraceID)
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonLineTooLong))
	assert.Equal(t, 0, c.Get(Stage, fault.KindParse, ReasonUnreadableFile))
}

func TestNewParser_InvalidPattern(t *testing.T) {
	_, err := NewParser(Config{TraceIDPattern: "("}, stats.New(nil))
	assert.Error(t, err)
}

func TestParseFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "logs/log_1.txt", []byte("2024-03-01 10:00:00 | ORDER | T1 | sell S1 1\n"), 0o644))
	// No trailing newline: the next file must still start a new entry.
	require.NoError(t, afero.WriteFile(fs, "logs/log_2.txt", []byte("2024-03-01 10:00:01 | TRANSACTION | T1 | 5"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "logs/log_3.txt", []byte("2024-03-01 10:00:02 | ORDER | T2 | buy S1 2\n"), 0o644))

	p, c := newTestParser(t)
	entries := collect(p.ParseFiles(fs, []string{"logs/log_1.txt", "logs/log_2.txt", "logs/missing.txt", "logs/log_3.txt"}))

	require.Len(t, entries, 3)
	assert.Equal(t, "logs/log_2.txt", entries[1].Source)
	assert.Equal(t, "5", entries[1].Detail)
	assert.Equal(t, "T2", entries[2].TraceID)
	assert.Equal(t, 3, c.Get(Stage, "", "files"))
	assert.Equal(t, 1, c.Get(Stage, fault.KindParse, ReasonUnreadableFile))
}
