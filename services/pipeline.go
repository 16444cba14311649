package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/azihell/properties-dashboard/models"
	"github.com/azihell/properties-dashboard/utils"
)

// Metrics receives pipeline counters. metrics.Recorder implements it.
type Metrics interface {
	ObserveStage(stage string, d time.Duration)
	RecordLoad(result string)
	RecordDropped(reason string, n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveStage(string, time.Duration) {}
func (nopMetrics) RecordLoad(string)                  {}
func (nopMetrics) RecordDropped(string, int)          {}

// PipelineOptions configures every stage of the pipeline.
type PipelineOptions struct {
	Delimiter        rune
	Cleaner          CleanerOptions
	Strategy         string
	FixedEdges       []float64
	Mapper           MapperOptions
	HistogramClasses int
	// CacheSize bounds the number of memoized datasets.
	CacheSize int
}

// Pipeline runs load → clean → bin/color once per distinct upload and keeps
// the resulting datasets keyed by content digest.
type Pipeline struct {
	logger   *utils.Logger
	metrics  Metrics
	loader   *Loader
	cleaner  *Cleaner
	binner   *Binner
	mapper   *Mapper
	insights *InsightService
	classes  int

	mu        sync.Mutex
	cache     map[string]*models.Dataset
	order     []string
	cacheSize int
}

// NewPipeline builds every stage from opts. m may be nil.
func NewPipeline(logger *utils.Logger, m Metrics, opts PipelineOptions) (*Pipeline, error) {
	if m == nil {
		m = nopMetrics{}
	}

	binner, err := NewBinner(logger, opts.Strategy, opts.FixedEdges)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	mapper, err := NewMapper(opts.Mapper)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	classes := opts.HistogramClasses
	if classes < 1 {
		classes = 40
	}
	cacheSize := opts.CacheSize
	if cacheSize < 1 {
		cacheSize = 16
	}

	return &Pipeline{
		logger:    logger,
		metrics:   m,
		loader:    NewLoader(logger, opts.Delimiter),
		cleaner:   NewCleaner(logger, opts.Cleaner),
		binner:    binner,
		mapper:    mapper,
		insights:  NewInsightService(logger),
		classes:   classes,
		cache:     make(map[string]*models.Dataset),
		cacheSize: cacheSize,
	}, nil
}

// Insights exposes the insight service used to build datasets.
func (p *Pipeline) Insights() *InsightService {
	return p.insights
}

// Mapper exposes the color mapper, for labelling bins.
func (p *Pipeline) Mapper() *Mapper {
	return p.mapper
}

// Run returns the dataset for data, computing it only on the first call for
// a given content.
func (p *Pipeline) Run(data []byte) (*models.Dataset, error) {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	p.mu.Lock()
	defer p.mu.Unlock()

	if ds, ok := p.cache[digest]; ok {
		p.logger.Debug("[pipeline] Reusing dataset %s", digest[:12])
		p.metrics.RecordLoad("cached")
		return ds, nil
	}

	ds, err := p.build(data, digest)
	if err != nil {
		p.metrics.RecordLoad("failed")
		return nil, err
	}
	p.metrics.RecordLoad("ok")

	p.cache[digest] = ds
	p.order = append(p.order, digest)
	if len(p.order) > p.cacheSize {
		delete(p.cache, p.order[0])
		p.order = p.order[1:]
	}
	return ds, nil
}

func (p *Pipeline) build(data []byte, digest string) (*models.Dataset, error) {
	start := time.Now()
	raw, err := p.loader.Load(data)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: %w", err)
	}
	p.metrics.ObserveStage("load", time.Since(start))

	start = time.Now()
	clean := p.cleaner.Clean(raw)
	p.metrics.ObserveStage("clean", time.Since(start))
	p.metrics.RecordDropped("missing", clean.DroppedMissing)
	p.metrics.RecordDropped("outlier", clean.DroppedOutliers)

	start = time.Now()
	prices := make([]float64, len(clean.Properties))
	for i, prop := range clean.Properties {
		prices[i] = prop.Price
	}
	bins, err := p.binner.Edges(prices)
	if err != nil {
		return nil, fmt.Errorf("pipeline: bin: %w", err)
	}
	colored := p.mapper.Map(clean.Properties, bins)
	p.metrics.ObserveStage("bin", time.Since(start))

	ds := &models.Dataset{
		Digest:     digest,
		Loaded:     len(raw),
		Clean:      *clean,
		Binning:    bins,
		Properties: colored,
		Summary:    p.insights.Generate(clean),
		Histogram:  p.insights.Histogram(clean.Properties, p.classes),
		Bounds:     Bounds(colored),
	}

	p.logger.Info("[pipeline] Dataset %s ready: %d of %d rows, %s bins",
		digest[:12], len(colored), len(raw), bins.Strategy)
	return ds, nil
}
