// Package application orchestrates the control-tower pipeline: ingest the
// snapshot, resolve rates, score risk, derive the proxy tables, and write
// every output atomically.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/finance"
	"github.com/laneops/freightwatch/internal/domain/inventory"
	"github.com/laneops/freightwatch/internal/domain/rate"
	"github.com/laneops/freightwatch/internal/domain/risk"
	"github.com/laneops/freightwatch/internal/domain/scenario"
	"github.com/laneops/freightwatch/internal/domain/seasonality"
	"github.com/laneops/freightwatch/internal/domain/sla"
	"github.com/laneops/freightwatch/internal/ingest"
	"github.com/laneops/freightwatch/internal/metrics"
	"github.com/laneops/freightwatch/internal/report"
)

// Summary captures what a run produced, for logging and the CLI exit report.
type Summary struct {
	RunID          string
	Orders         int
	RateCardRows   int
	MatchedOrders  int
	Unmatched      int
	Exceptions     int
	MarginGroups   int
	InventoryNodes int
	Duration       time.Duration
}

// Pipeline is one configured control-tower run.
type Pipeline struct {
	cfg     *Config
	version string
	metrics *metrics.Registry
}

// NewPipeline creates a pipeline; a nil metrics registry disables recording.
// A nil config, or one with nulled sections, falls back to the defaults.
func NewPipeline(cfg *Config, version string, reg *metrics.Registry) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.fillDefaults()
	return &Pipeline{cfg: cfg, version: version, metrics: reg}
}

// Run executes the full batch transform. Structural input errors abort before
// any table is written; value-level gaps flow through as nulls. Every output
// table is produced even when empty.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	orders, card, err := p.loadInputs()
	if err != nil {
		if p.metrics != nil {
			p.metrics.RunsFailed.Inc()
		}
		return nil, err
	}
	log.Info().
		Int("orders", len(orders)).
		Int("rate_card_rows", len(card)).
		Msg("inputs loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Resolution and scoring.
	resolved := rate.NewResolver().Resolve(orders, card)
	scored := risk.NewScorer(p.cfg.Risk).Score(resolved)
	queue := risk.BuildQueue(scored, p.cfg.Queue.Capacity)

	// Proxy and aggregate tables.
	marginRows := finance.NewEstimator(p.cfg.Margin).Estimate(resolved)
	invProfiles := inventory.BuildProfiles(resolved, p.cfg.Inventory)
	slaRows := sla.Build(resolved, p.cfg.SLA)
	seasonRows := seasonality.BuildMonthly(resolved)

	var baselineCost float64
	var onTime int
	for _, o := range resolved {
		baselineCost += o.CostOrZero()
		if o.IsOnTime() {
			onTime++
		}
	}
	baselineOnTime := 0.0
	if len(resolved) > 0 {
		baselineOnTime = float64(onTime) / float64(len(resolved))
	}
	scenarios := scenario.Project(baselineCost, baselineOnTime, p.cfg.Scenarios)

	summary := &Summary{
		Orders:         len(resolved),
		RateCardRows:   len(card),
		Exceptions:     len(queue),
		MarginGroups:   len(marginRows),
		InventoryNodes: len(invProfiles),
	}
	for _, o := range resolved {
		if o.MatchedBandOK {
			summary.MatchedOrders++
		} else {
			summary.Unmatched++
		}
	}

	manifest, err := p.writeOutputs(resolved, scored, queue, marginRows, invProfiles, slaRows, seasonRows, scenarios)
	if err != nil {
		return nil, err
	}
	summary.RunID = manifest.RunID
	summary.Duration = time.Since(start)
	manifest.DurationMs = summary.Duration.Milliseconds()
	if err := manifest.Write(p.cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("write run manifest: %w", err)
	}

	p.record(summary, scored)

	log.Info().
		Str("run_id", summary.RunID).
		Int("orders", summary.Orders).
		Int("unmatched", summary.Unmatched).
		Int("exceptions", summary.Exceptions).
		Dur("duration", summary.Duration).
		Msg("pipeline run complete")
	return summary, nil
}

// loadInputs reads all input tables and joins warehouse attributes onto the
// orders. The warehouse tables are optional.
func (p *Pipeline) loadInputs() ([]domain.Order, []domain.RateCardEntry, error) {
	orders, err := ingest.LoadOrders(p.cfg.Inputs.Orders)
	if err != nil {
		return nil, nil, err
	}
	card, err := ingest.LoadRateCard(p.cfg.Inputs.RateCard)
	if err != nil {
		return nil, nil, err
	}

	capacity := map[string]float64{}
	if p.cfg.Inputs.WarehouseCapacity != "" {
		if capacity, err = ingest.LoadCapacity(p.cfg.Inputs.WarehouseCapacity); err != nil {
			return nil, nil, err
		}
	}
	cost := map[string]float64{}
	if p.cfg.Inputs.WarehouseCost != "" {
		if cost, err = ingest.LoadWarehouseCost(p.cfg.Inputs.WarehouseCost); err != nil {
			return nil, nil, err
		}
	}
	ingest.JoinWarehouse(orders, capacity, cost)
	return orders, card, nil
}

func (p *Pipeline) writeOutputs(
	resolved []domain.CostEstimatedOrder,
	scored []domain.ScoredOrder,
	queue []domain.ExceptionEntry,
	marginRows []finance.Row,
	invProfiles []inventory.Profile,
	slaRows []sla.Row,
	seasonRows []seasonality.Row,
	scenarios []scenario.Row,
) (*report.RunManifest, error) {
	dir := p.cfg.OutputDir
	manifest := report.NewRunManifest(p.version, p.cfg.Margin.Seed)
	if cfgBytes, err := p.cfg.Marshal(); err == nil {
		manifest.SetConfigHash(cfgBytes)
	}

	writes := []struct {
		file string
		rows int
		fn   func() error
	}{
		{report.FileCostEstimatedOrders, len(resolved), func() error { return report.WriteCostEstimatedOrders(dir, resolved) }},
		{report.FileRiskShipments, len(scored), func() error { return report.WriteRiskShipments(dir, scored) }},
		{report.FileExceptions, len(queue), func() error { return report.WriteExceptions(dir, queue) }},
		{report.FileMarginAtRisk, len(marginRows), func() error { return report.WriteMarginAtRisk(dir, marginRows) }},
		{report.FileInventoryRisk, len(invProfiles), func() error { return report.WriteInventoryRisk(dir, invProfiles) }},
		{report.FileSLACompliance, len(slaRows), func() error { return report.WriteSLACompliance(dir, slaRows) }},
		{report.FileSeasonality, len(seasonRows), func() error { return report.WriteSeasonality(dir, seasonRows) }},
		{report.FileScenarios, len(scenarios), func() error { return report.WriteScenarios(dir, scenarios) }},
	}
	for _, w := range writes {
		if err := w.fn(); err != nil {
			return nil, fmt.Errorf("write %s: %w", w.file, err)
		}
		manifest.Record(w.file, w.rows)
		log.Debug().Str("table", w.file).Int("rows", w.rows).Msg("table written")
	}
	return manifest, nil
}

func (p *Pipeline) record(summary *Summary, scored []domain.ScoredOrder) {
	if p.metrics == nil {
		return
	}
	p.metrics.OrdersIngested.Add(float64(summary.Orders))
	p.metrics.RateCardEntries.Add(float64(summary.RateCardRows))
	p.metrics.UnmatchedOrders.Add(float64(summary.Unmatched))
	p.metrics.ExceptionsQueued.Set(float64(summary.Exceptions))
	p.metrics.RunDuration.Observe(summary.Duration.Seconds())
	p.metrics.RunsCompleted.Inc()
	p.metrics.LastRunUnixTime.SetToCurrentTime()

	bands := map[domain.Band]int{}
	for _, so := range scored {
		bands[so.RiskBand]++
	}
	for _, band := range []domain.Band{domain.BandLow, domain.BandMedium, domain.BandHigh} {
		p.metrics.OrdersByRiskBand.WithLabelValues(string(band)).Set(float64(bands[band]))
	}
}
