package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"inventory-recon/core/config"
	"inventory-recon/core/fault"
	"inventory-recon/core/logger"
	"inventory-recon/core/sink"
	"inventory-recon/core/stats"
	"inventory-recon/core/storage/mocks"
	"inventory-recon/feature/catalog"
	"inventory-recon/feature/logs"
	"inventory-recon/feature/prices"
	"inventory-recon/feature/reports"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const log1 = `2024-03-01 10:00:00 | ORDER | T1 | sell WINE-OPU-001 10
2024-03-01 10:00:05 | TRANSACTION | T1 | 4205.00
2024-03-01 10:00:06 | RESULT | T1 | ok
2024-03-02 11:00:00 | ORDER | T2 | buy WHKY-GLE-018 4
2024-03-02 11:00:02 | TRANSACTION | T2 | 600.00
2024-03-03 09:00:00 | ORDER | T3 | sell WINE-OPU-001 1
not a log line
`

const log2 = `2024-03-04 12:00:00 | ORDER | T4 | sell BRBN-MAK-024 3
2024-03-04 12:00:01 | TRANSACTION | T4 | 150.00
2024-03-05 12:00:00 | ORDER | T5 | sell WINE-OPU-001 2
2024-03-05 12:00:01 | TRANSACTION | T5 | 900.00
  settled in two parts
2025-03-01 12:00:00 | ORDER | T6 | buy WINE-OPU-001 5
2025-03-01 12:00:01 | TRANSACTION | T6 | 2000.00
2024-02-01 08:00:00 | ORDER | T7 | sell BRBN-MAK-024 1
2024-02-01 08:00:01 | TRANSACTION | T7 | 50.00
`

const skus = `[
  {"code": "WINE-OPU-001", "name": "Opus One", "brand": {"id": "B1", "name": "Opus One"}, "region": {"id": "R1", "name": "Napa"}},
  {"code": "WHKY-GLE-018", "name": "Glenfiddich 18", "brand": {"id": "B2", "name": "Glenfiddich"}, "region": {"id": "R2", "name": "Speyside"}},
  {"code": "BRBN-MAK-024", "name": "Maker's Mark", "brand": {"id": "B3", "name": "Maker's Mark"}, "region": {"id": "R3", "name": "Kentucky"}}
]`

const priceCSV = `quote_id,price_usd,timestamp
WINE-OPU-001-1,420,2024-03-01 09:00:00
WINE-OPU-001-2,450,2024-03-05 12:00:01
WHKY-GLE-018-1,150,2024-03-01 00:00:00
BRBN-MAK-024-1,50,2024-03-04 12:00:00
`

func testConfig() *config.Config {
	return &config.Config{
		Log:     logger.Config{Level: "info", Format: "console"},
		Logs:    logs.Config{Dir: "data/logs", Pattern: "log_*.txt", TraceIDPattern: logs.DefaultTraceIDPattern},
		Catalog: catalog.Config{File: "data/skus/skus.json"},
		Prices: prices.Config{
			Dir:             "data/market_prices",
			Pattern:         "market_prices_*",
			QuoteIDColumn:   "quote_id",
			PriceColumn:     "price_usd",
			TimestampColumn: "timestamp",
		},
		Reports: reports.Config{
			BrandYear:       2024,
			BrandMaxWeek:    21,
			BrandSide:       "sell",
			TopBrands:       2,
			InventoryCutoff: "2025-02-01",
			InventorySKUs:   []string{"WINE-OPU-001", "WINE-OPU-003", "WHKY-GLE-018", "BRBN-MAK-024"},
		},
		Output: sink.Config{Dir: "outputs"},
	}
}

func seed(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"data/logs/log_1.txt":                    log1,
		"data/logs/log_2.txt":                    log2,
		"data/skus/skus.json":                    skus,
		"data/market_prices/market_prices_1.csv": priceCSV,
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func run(t *testing.T, fs afero.Fs) (*Report, *stats.Collector) {
	t.Helper()
	cfg := testConfig()
	c := stats.New(zap.NewNop())
	report, err := New(fs, cfg, sink.NewLocal(fs, cfg.Output.Dir), c).Run(context.Background())
	require.NoError(t, err)
	return report, c
}

func readOutput(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, "outputs/"+name)
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	fs := seed(t)
	report, c := run(t, fs)

	assert.Equal(t, []string{
		"final_clean_dataset.csv",
		"market_data.csv",
		"top_region_per_sku.csv",
		"two_most_profitable_brands.csv",
		"most_profitable_brands.csv",
		"inventory_snapshot.csv",
	}, report.Outputs)

	assert.Equal(t, 6, report.Summary.Matched)
	assert.Equal(t, 1, report.Summary.UnmatchedOrders)
	assert.Equal(t, 1, report.Summary.NoPriorPrice)
	assert.Equal(t, 5, report.Summary.Enriched)
	assert.NotEmpty(t, report.Counters)
	assert.Equal(t, 1, c.Get(logs.Stage, fault.KindParse, logs.ReasonMissingTimestamp))

	dataset := readOutput(t, fs, "final_clean_dataset.csv")
	lines := strings.Split(strings.TrimSpace(dataset), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "trace_id,sku,side,quantity,order_time,timestamp,name,brand_id,brand_name,region_id,region_name,"))
	assert.NotContains(t, lines[0], "amount")
	assert.True(t, strings.HasPrefix(lines[1], "T1,WINE-OPU-001,sell,10,"))
	assert.Contains(t, lines[1], ",420,2024-03-01 09:00:00,4200,2024,2024Q1,9")
	assert.Contains(t, lines[2], "T2,WHKY-GLE-018,buy,-4,")
	assert.Contains(t, lines[2], ",150,2024-03-01 00:00:00,-600,")
	// The price stamped exactly at the transaction time is used.
	assert.Contains(t, lines[4], "T5,WINE-OPU-001,sell,2,")
	assert.Contains(t, lines[4], ",450,2024-03-05 12:00:01,900,")

	brands := readOutput(t, fs, "two_most_profitable_brands.csv")
	assert.Equal(t, "rank,brand_id,brand_name,transactions,transaction_value\n1,B1,Opus One,2,5100\n2,B3,Maker's Mark,1,150\n", brands)

	inventory := readOutput(t, fs, "inventory_snapshot.csv")
	assert.Equal(t, "sku,ending_inventory,transactions\nWINE-OPU-001,12,2\nWHKY-GLE-018,-4,1\nBRBN-MAK-024,3,1\n", inventory)

	market := readOutput(t, fs, "market_data.csv")
	assert.True(t, strings.HasPrefix(market, "quote_id,sku,price_usd,timestamp,source\nWINE-OPU-001-1,WINE-OPU-001,420,"))
}

func TestRun_Idempotent(t *testing.T) {
	fs := seed(t)
	first, _ := run(t, fs)

	snapshot := make(map[string][]byte)
	for _, name := range first.Outputs {
		snapshot[name] = []byte(readOutput(t, fs, name))
	}

	second, _ := run(t, fs)
	require.Equal(t, first.Outputs, second.Outputs)
	for _, name := range second.Outputs {
		assert.True(t, bytes.Equal(snapshot[name], []byte(readOutput(t, fs, name))), name)
	}
}

func TestRun_MissingInputDirectory(t *testing.T) {
	fs := seed(t)
	require.NoError(t, fs.RemoveAll("data/market_prices"))

	cfg := testConfig()
	_, err := New(fs, cfg, sink.NewLocal(fs, cfg.Output.Dir), stats.New(nil)).Run(context.Background())

	var ioErr *fault.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "data/market_prices", ioErr.Path)

	// Nothing is written on failure.
	ok, _ := afero.DirExists(fs, "outputs")
	assert.False(t, ok)
}

func TestRun_MissingCatalog(t *testing.T) {
	fs := seed(t)
	require.NoError(t, fs.Remove("data/skus/skus.json"))

	cfg := testConfig()
	_, err := New(fs, cfg, sink.NewLocal(fs, cfg.Output.Dir), stats.New(nil)).Run(context.Background())

	var ioErr *fault.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "data/skus/skus.json", ioErr.Path)
	assert.False(t, errors.Is(err, os.ErrPermission))
}

func TestRun_Upload(t *testing.T) {
	fs := seed(t)
	cfg := testConfig()

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "reports").Return(false, nil).Once()
	client.On("MakeBucket", mock.Anything, "reports", mock.Anything).Return(nil).Once()
	client.On("PutObject", mock.Anything, "reports", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "outputs/") && strings.HasSuffix(key, ".csv")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	out := sink.Multi{sink.NewLocal(fs, cfg.Output.Dir), sink.NewObject(client, "reports", "outputs")}
	report, err := New(fs, cfg, out, stats.New(nil)).Run(context.Background())
	require.NoError(t, err)

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "PutObject", len(report.Outputs))
}

func TestRun_UploadFailure(t *testing.T) {
	fs := seed(t)
	cfg := testConfig()

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "reports").Return(false, errors.New("connection refused"))

	out := sink.Multi{sink.NewLocal(fs, cfg.Output.Dir), sink.NewObject(client, "reports", "outputs")}
	_, err := New(fs, cfg, out, stats.New(nil)).Run(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}
