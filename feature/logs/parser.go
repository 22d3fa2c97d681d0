package logs

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strings"
	"time"

	"inventory-recon/core/fault"
	"inventory-recon/core/model"
	"inventory-recon/core/stats"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Stage is the stats stage name of the log parser.
const Stage = "logs"

// TimestampLayout is the layout of the leading log timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultTraceIDPattern accepts opaque ids such as UUIDs or "T-1001".
const DefaultTraceIDPattern = `^[A-Za-z0-9][A-Za-z0-9._:-]*$`

const (
	separator   = " | "
	maxLineSize = 1 << 20
)

var timestampPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)

// Drop reasons recorded by the parser.
const (
	ReasonMissingTimestamp   = "missing_timestamp"
	ReasonBadTimestamp       = "bad_timestamp"
	ReasonUnknownMessageType = "unknown_message_type"
	ReasonTruncatedTraceID   = "truncated_trace_id"
	ReasonInvalidTraceID     = "invalid_trace_id"
	ReasonOrphanContinuation = "orphan_continuation"
	ReasonLineTooLong        = "line_too_long"
	ReasonUnreadableFile     = "unreadable_file"
)

// Parser turns raw log lines into LogEntries.
type Parser struct {
	tracePattern *regexp.Regexp
	stats        *stats.Collector
}

// NewParser creates a parser recording drops into c.
func NewParser(cfg Config, c *stats.Collector) (*Parser, error) {
	pattern := cfg.TraceIDPattern
	if pattern == "" {
		pattern = DefaultTraceIDPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid trace id pattern %q: %w", pattern, err)
	}
	return &Parser{tracePattern: re, stats: c}, nil
}

// ParseFiles lazily parses each file in order. An unreadable file is logged,
// counted and skipped.
func (p *Parser) ParseFiles(fs afero.Fs, paths []string) iter.Seq[model.LogEntry] {
	return func(yield func(model.LogEntry) bool) {
		for _, path := range paths {
			f, err := fs.Open(path)
			if err != nil {
				p.stats.Logger().Error("Failed to open log file", zap.String("path", path), zap.Error(err))
				p.stats.Record(Stage, fault.KindParse, ReasonUnreadableFile, zap.String("source", path))
				continue
			}
			p.stats.Add(Stage, "files", 1)

			cont := true
			for entry := range p.Parse(f, path) {
				if !yield(entry) {
					cont = false
					break
				}
			}
			_ = f.Close()
			if !cont {
				return
			}
		}
	}
}

// Parse lazily parses one log stream. source names the stream in drop records.
// A line longer than the maximum line size is dropped on its own.
func (p *Parser) Parse(r io.Reader, source string) iter.Seq[model.LogEntry] {
	return func(yield func(model.LogEntry) bool) {
		br := bufio.NewReaderSize(r, 64*1024)

		var (
			pending *model.LogEntry
			lineNo  int
		)

		flush := func() bool {
			if pending == nil {
				return true
			}
			entry := *pending
			pending = nil
			p.stats.Add(Stage, "entries", 1)
			p.stats.Add(Stage, strings.ToLower(string(entry.Type)), 1)
			return yield(entry)
		}

		handle := func(line string, tooLong bool) bool {
			line = strings.TrimRight(line, " \t\r\n")
			if line == "" && !tooLong {
				return true
			}
			p.stats.Add(Stage, "lines", 1)

			if tooLong {
				if !flush() {
					return false
				}
				p.drop(ReasonLineTooLong, source, lineNo, line)
				return true
			}

			if line[0] == ' ' || line[0] == '\t' {
				if pending == nil {
					p.drop(ReasonOrphanContinuation, source, lineNo, line)
					return true
				}
				pending.Detail = strings.TrimSpace(pending.Detail + " " + strings.TrimSpace(line))
				return true
			}

			if !flush() {
				return false
			}

			entry, reason := p.parseHeader(line)
			if reason != "" {
				p.drop(reason, source, lineNo, line)
				return true
			}
			entry.Source = source
			entry.Line = lineNo
			pending = &entry
			return true
		}

		for {
			raw, tooLong, err := readLine(br, maxLineSize)
			if len(raw) > 0 || tooLong {
				lineNo++
				if !handle(string(raw), tooLong) {
					return
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				p.stats.Logger().Error("Failed to read log stream", zap.String("source", source), zap.Int("line", lineNo), zap.Error(err))
				p.stats.Record(Stage, fault.KindParse, ReasonUnreadableFile, zap.String("source", source))
				break
			}
		}
		flush()
	}
}

// readLine reads up to and including the next newline. Past limit bytes the
// rest of the line is discarded and tooLong is set; the returned head is kept.
func readLine(br *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
			} else {
				line = append(line, chunk...)
			}
		}
		if err != bufio.ErrBufferFull {
			return line, tooLong, err
		}
	}
}

// parseHeader splits a header line into its four parts. A non-empty reason
// means the line is malformed.
func (p *Parser) parseHeader(line string) (model.LogEntry, string) {
	prefix := timestampPrefix.FindString(line)
	if prefix == "" {
		return model.LogEntry{}, ReasonMissingTimestamp
	}
	ts, err := time.ParseInLocation(TimestampLayout, prefix, time.UTC)
	if err != nil {
		return model.LogEntry{}, ReasonBadTimestamp
	}

	rest, ok := strings.CutPrefix(line[len(prefix):], separator)
	if !ok {
		return model.LogEntry{}, ReasonUnknownMessageType
	}

	parts := strings.SplitN(rest, separator, 3)
	msgType, ok := model.ParseMessageType(strings.TrimSpace(parts[0]))
	if !ok {
		return model.LogEntry{}, ReasonUnknownMessageType
	}
	if len(parts) < 3 {
		return model.LogEntry{}, ReasonTruncatedTraceID
	}

	traceID := strings.TrimSpace(parts[1])
	if !p.tracePattern.MatchString(traceID) {
		return model.LogEntry{}, ReasonInvalidTraceID
	}

	return model.LogEntry{
		Timestamp: ts,
		Type:      msgType,
		TraceID:   traceID,
		Detail:    strings.TrimSpace(parts[2]),
	}, ""
}

func (p *Parser) drop(reason, source string, line int, text string) {
	if len(text) > 50 {
		text = text[:50] + "..."
	}
	p.stats.Record(Stage, fault.KindParse, reason,
		zap.String("source", source),
		zap.Int("line", line),
		zap.String("text", text),
	)
}
