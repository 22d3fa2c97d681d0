package prices

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"inventory-recon/core/fault"
	"inventory-recon/core/model"
	"inventory-recon/core/stats"
	"inventory-recon/core/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Stage is the stats stage name of the price reader.
const Stage = "prices"

// Drop reasons recorded by the reader.
const (
	ReasonUnextractableSKU = "unextractable_sku"
	ReasonBadTimestamp     = "bad_timestamp"
	ReasonBadPrice         = "bad_price"
	ReasonMissingColumn    = "missing_column"
	ReasonUnreadableFile   = "unreadable_file"
	ReasonUnsupportedFile  = "unsupported_file"
)

// row is one raw snapshot row before normalization. Timestamp is either a
// string or an already typed time.Time.
type row struct {
	quoteID   string
	price     any
	timestamp any
}

// formatError marks a file that cannot be decoded as a snapshot.
type formatError struct {
	reason string
	err    error
}

func (e *formatError) Error() string {
	return e.err.Error()
}

func (e *formatError) Unwrap() error {
	return e.err
}

// Reader normalizes snapshot rows into MarketPriceRecords.
type Reader struct {
	cfg     Config
	sku     *regexp.Regexp
	stats   *stats.Collector
	columns [3]string
}

// NewReader creates a Reader for cfg. Empty column names fall back to the
// defaults.
func NewReader(cfg Config, c *stats.Collector) (*Reader, error) {
	if cfg.SKUPattern == "" {
		cfg.SKUPattern = `^(.*?)-\d+$`
	}
	re, err := regexp.Compile(cfg.SKUPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid sku pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("sku pattern %q has no capture group", cfg.SKUPattern)
	}

	r := &Reader{cfg: cfg, sku: re, stats: c}
	r.columns = [3]string{
		orDefault(cfg.QuoteIDColumn, "quote_id"),
		orDefault(cfg.PriceColumn, "price_usd"),
		orDefault(cfg.TimestampColumn, "timestamp"),
	}
	return r, nil
}

// ReadFiles reads every snapshot in paths, in the given order, and
// concatenates the cleaned records.
func (r *Reader) ReadFiles(fs afero.Fs, paths []string) ([]model.MarketPriceRecord, error) {
	var out []model.MarketPriceRecord

	for _, path := range paths {
		rows, err := r.readFile(fs, path)
		if err != nil {
			if fe, ok := err.(*formatError); ok {
				r.stats.Record(Stage, fault.KindParse, fe.reason, zap.String("file", path), zap.Error(fe.err))
				continue
			}
			return nil, err
		}
		r.stats.Add(Stage, "files", 1)
		out = r.normalize(out, rows, path)
	}

	r.stats.Add(Stage, "records", len(out))
	return out, nil
}

func (r *Reader) readFile(fs afero.Fs, path string) ([]row, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fault.NewIOError("open file", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.decodeCSV(f)
	case ".parquet":
		return r.decodeParquet(f)
	default:
		return nil, &formatError{reason: ReasonUnsupportedFile, err: fmt.Errorf("unsupported snapshot format %q", filepath.Ext(path))}
	}
}

func (r *Reader) normalize(out []model.MarketPriceRecord, rows []row, source string) []model.MarketPriceRecord {
	for i, raw := range rows {
		r.stats.Add(Stage, "rows", 1)

		sku, ok := r.ExtractSKU(raw.quoteID)
		if !ok {
			r.stats.Record(Stage, fault.KindParse, ReasonUnextractableSKU,
				zap.String("file", source), zap.Int("row", i), zap.String("quote_id", raw.quoteID))
			continue
		}

		ts, err := toTime(raw.timestamp)
		if err != nil {
			r.stats.Record(Stage, fault.KindParse, ReasonBadTimestamp,
				zap.String("file", source), zap.Int("row", i), zap.Error(err))
			continue
		}

		price, ok := utils.ToFloat(raw.price)
		if !ok || price < 0 {
			r.stats.Record(Stage, fault.KindParse, ReasonBadPrice,
				zap.String("file", source), zap.Int("row", i), zap.Any("price", raw.price))
			continue
		}

		out = append(out, model.MarketPriceRecord{
			SKU:       sku,
			QuoteID:   raw.quoteID,
			Price:     price,
			Timestamp: ts,
			Source:    filepath.Base(source),
		})
	}
	return out
}

// ExtractSKU applies the sku pattern to a quote identifier.
func (r *Reader) ExtractSKU(quoteID string) (string, bool) {
	m := r.sku.FindStringSubmatch(strings.TrimSpace(quoteID))
	if m == nil {
		return "", false
	}
	sku := strings.TrimSpace(m[1])
	return sku, sku != ""
}

func toTime(val any) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return ParseTimestamp(v)
	case nil:
		return time.Time{}, fmt.Errorf("missing timestamp")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp value %T", val)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
