package pipeline

import (
	"context"
	"fmt"
	"time"

	"inventory-recon/core/config"
	"inventory-recon/core/fsutil"
	"inventory-recon/core/model"
	"inventory-recon/core/reconcile"
	"inventory-recon/core/sink"
	"inventory-recon/core/stats"
	"inventory-recon/feature/catalog"
	"inventory-recon/feature/integrity/checks"
	"inventory-recon/feature/logs"
	"inventory-recon/feature/prices"
	"inventory-recon/feature/reports"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Pipeline runs the reconciliation over one input tree.
type Pipeline struct {
	fs     afero.Fs
	cfg    *config.Config
	out    sink.Sink
	stats  *stats.Collector
	logger *zap.Logger
}

// Enriched is the reconciled dataset together with what is needed to render it.
type Enriched struct {
	Result *reconcile.Result
	// Columns are the catalog attribute columns in output order.
	Columns []string
	// Prices are the cleaned market price records in read order.
	Prices []model.MarketPriceRecord
}

// Report describes a completed run.
type Report struct {
	Summary  reconcile.Summary `json:"summary"`
	Reports  *reports.Set      `json:"reports"`
	Outputs  []string          `json:"outputs"`
	Counters []stats.Counter   `json:"counters"`
	Duration time.Duration     `json:"duration"`
}

// New creates a pipeline reading inputs from fs and writing tables to out.
func New(fs afero.Fs, cfg *config.Config, out sink.Sink, c *stats.Collector) *Pipeline {
	return &Pipeline{
		fs:     fs,
		cfg:    cfg,
		out:    out,
		stats:  c,
		logger: c.Logger(),
	}
}

// Layout returns the input layout the pipeline expects.
func Layout(cfg *config.Config) checks.Layout {
	return checks.Layout{
		LogsDir:       cfg.Logs.Dir,
		LogsPattern:   cfg.Logs.Pattern,
		CatalogFile:   cfg.Catalog.File,
		PricesDir:     cfg.Prices.Dir,
		PricesPattern: cfg.Prices.Pattern,
	}
}

// Enrich checks the input layout, reads all inputs and reconciles them.
func (p *Pipeline) Enrich() (*Enriched, error) {
	if missing := checks.CheckStructure(p.fs, Layout(p.cfg)); len(missing) > 0 {
		for _, m := range missing {
			p.logger.Error("Required input is missing", zap.String("kind", string(m.Kind)), zap.String("path", m.Path))
		}
		return nil, missing[0].Err()
	}

	events, err := p.readLogs()
	if err != nil {
		return nil, err
	}

	cat, err := p.readCatalog()
	if err != nil {
		return nil, err
	}

	priceRecords, err := p.readPrices()
	if err != nil {
		return nil, err
	}

	result := reconcile.Reconcile(reconcile.Inputs{
		Orders:       events.Orders,
		Transactions: events.Transactions,
		Catalog:      cat,
		Prices:       priceRecords,
	}, p.stats)

	return &Enriched{Result: result, Columns: cat.Columns, Prices: priceRecords}, nil
}

// Run executes the full batch and writes every output.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	enriched, err := p.Enrich()
	if err != nil {
		return nil, err
	}

	set, err := reports.Generate(enriched.Result.Rows, p.cfg.Reports, p.stats)
	if err != nil {
		return nil, err
	}

	tables := []sink.Table{
		reconcile.Table(enriched.Result, enriched.Columns),
		prices.Table(enriched.Prices),
	}
	tables = append(tables, set.Tables()...)

	outputs, err := p.Write(ctx, tables)
	if err != nil {
		return nil, err
	}

	p.stats.LogSummary()

	report := &Report{
		Summary:  enriched.Result.Summary,
		Reports:  set,
		Outputs:  outputs,
		Counters: p.stats.Snapshot(),
		Duration: time.Since(start),
	}
	p.logger.Info("Run completed",
		zap.Int("enriched", report.Summary.Enriched),
		zap.Strings("outputs", outputs),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// Write hands every table to the sink and returns the written file names.
func (p *Pipeline) Write(ctx context.Context, tables []sink.Table) ([]string, error) {
	outputs := make([]string, 0, len(tables))
	for _, t := range tables {
		if err := p.out.Write(ctx, t); err != nil {
			return outputs, fmt.Errorf("failed to write %s: %w", t.FileName(), err)
		}
		p.stats.Add("output", t.Name, len(t.Rows))
		p.logger.Info("Wrote output", zap.String("file", t.FileName()), zap.Int("rows", len(t.Rows)))
		outputs = append(outputs, t.FileName())
	}
	return outputs, nil
}

func (p *Pipeline) readLogs() (logs.Events, error) {
	paths, err := fsutil.Find(p.fs, p.cfg.Logs.Dir, p.cfg.Logs.Pattern)
	if err != nil {
		return logs.Events{}, err
	}
	p.logger.Info("Reading transaction logs", zap.Int("files", len(paths)))

	parser, err := logs.NewParser(p.cfg.Logs, p.stats)
	if err != nil {
		return logs.Events{}, err
	}
	return logs.Extract(parser.ParseFiles(p.fs, paths), p.stats), nil
}

func (p *Pipeline) readCatalog() (*catalog.Catalog, error) {
	schema, err := catalog.LoadSchema(p.fs, p.cfg.Catalog.SchemaFile)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Reading sku catalog", zap.String("file", p.cfg.Catalog.File))
	return catalog.ReadFile(p.fs, p.cfg.Catalog.File, schema, p.stats)
}

func (p *Pipeline) readPrices() ([]model.MarketPriceRecord, error) {
	paths, err := fsutil.Find(p.fs, p.cfg.Prices.Dir, p.cfg.Prices.Pattern)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Reading market prices", zap.Int("files", len(paths)))

	reader, err := prices.NewReader(p.cfg.Prices, p.stats)
	if err != nil {
		return nil, err
	}
	return reader.ReadFiles(p.fs, paths)
}
