// Package risk derives the composite operational risk score, the Low/Medium/
// High banding, and the prioritized exception queue from cost-estimated
// orders.
package risk

import (
	"fmt"
	"math"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/stats"
)

// Weights are the composite score coefficients. They must sum to 1.0 within
// WeightSumTolerance; the defaults are the production weighting and changing
// them breaks parity with recorded fixtures.
type Weights struct {
	LaneLateRate    float64 `yaml:"lane_late_rate"`
	CarrierLateRate float64 `yaml:"carrier_late_rate"`
	LateDays        float64 `yaml:"late_days"`
	Cost            float64 `yaml:"cost"`
	ModeRisk        float64 `yaml:"mode_risk"`
}

// Sum returns the total of all weight components.
func (w Weights) Sum() float64 {
	return w.LaneLateRate + w.CarrierLateRate + w.LateDays + w.Cost + w.ModeRisk
}

// WeightSumTolerance bounds the allowed drift of the weight sum from 1.0.
const WeightSumTolerance = 0.001

// ScorerConfig holds the scoring weights and the static per-mode risk table.
type ScorerConfig struct {
	Weights         Weights            `yaml:"weights"`
	ModeRisk        map[string]float64 `yaml:"mode_risk"`
	DefaultModeRisk float64            `yaml:"default_mode_risk"`
}

// DefaultScorerConfig returns the production scoring configuration.
func DefaultScorerConfig() *ScorerConfig {
	return &ScorerConfig{
		Weights: Weights{
			LaneLateRate:    0.35,
			CarrierLateRate: 0.30,
			LateDays:        0.20,
			Cost:            0.10,
			ModeRisk:        0.05,
		},
		ModeRisk: map[string]float64{
			"AIR":   0.25,
			"SEA":   0.60,
			"TRUCK": 0.40,
			"RAIL":  0.50,
		},
		DefaultModeRisk: 0.40,
	}
}

// Validate checks the weight sum.
func (c *ScorerConfig) Validate() error {
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("risk weights sum to %.4f, expected 1.0", sum)
	}
	return nil
}

// modeRisk looks up the static risk factor for a transport mode.
func (c *ScorerConfig) modeRisk(mode string) float64 {
	if v, ok := c.ModeRisk[mode]; ok {
		return v
	}
	return c.DefaultModeRisk
}

// Scorer computes per-order composite risk scores.
type Scorer struct {
	cfg *ScorerConfig
}

// NewScorer creates a scorer; a nil config selects the defaults.
func NewScorer(cfg *ScorerConfig) *Scorer {
	if cfg == nil {
		cfg = DefaultScorerConfig()
	}
	return &Scorer{cfg: cfg}
}

// Score derives a ScoredOrder for every input order. Historical late rates
// are computed over the input snapshot itself; cost and late days are min-max
// scaled across the full order set with nil costs neutralized to 0 first, so
// a score always exists for every row.
func (s *Scorer) Score(orders []domain.CostEstimatedOrder) []domain.ScoredOrder {
	if len(orders) == 0 {
		return []domain.ScoredOrder{}
	}

	laneLate := make(map[string]*stats.Accumulator)
	carrierLate := make(map[string]*stats.Accumulator)
	var globalLate stats.Accumulator

	costs := make([]float64, len(orders))
	lateDays := make([]float64, len(orders))
	for i, o := range orders {
		late := o.IsLate()
		globalLate.AddBool(late)
		groupAdd(laneLate, o.Lane(), late)
		groupAdd(carrierLate, o.Carrier, late)
		costs[i] = o.CostOrZero()
		lateDays[i] = o.ShipLate
	}

	costScaled := stats.MinMaxScale(costs)
	lateScaled := stats.MinMaxScale(lateDays)
	globalRate := globalLate.Mean()

	scored := make([]domain.ScoredOrder, len(orders))
	for i, o := range orders {
		so := domain.ScoredOrder{
			CostEstimatedOrder: o,
			LaneLateRate:       groupMeanOr(laneLate, o.Lane(), globalRate),
			CarrierLateRate:    groupMeanOr(carrierLate, o.Carrier, globalRate),
			ModeRisk:           s.cfg.modeRisk(o.Mode),
			CostScaled:         costScaled[i],
			LateDaysScaled:     lateScaled[i],
		}

		w := s.cfg.Weights
		raw := 100 * (w.LaneLateRate*so.LaneLateRate +
			w.CarrierLateRate*so.CarrierLateRate +
			w.LateDays*so.LateDaysScaled +
			w.Cost*so.CostScaled +
			w.ModeRisk*so.ModeRisk)
		so.RiskScore = stats.Clip(raw, 0, 100)
		so.RiskBand = domain.BandFor(so.RiskScore)
		scored[i] = so
	}
	return scored
}

func groupAdd(groups map[string]*stats.Accumulator, key string, late bool) {
	acc, ok := groups[key]
	if !ok {
		acc = &stats.Accumulator{}
		groups[key] = acc
	}
	acc.AddBool(late)
}

// groupMeanOr guards against an absent group key, falling back to the global
// late rate.
func groupMeanOr(groups map[string]*stats.Accumulator, key string, fallback float64) float64 {
	if acc, ok := groups[key]; ok && acc.Count > 0 {
		return acc.Mean()
	}
	return fallback
}
