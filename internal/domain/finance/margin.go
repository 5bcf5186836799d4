// Package finance derives the margin-at-risk proxy table. Order value is
// proxied from freight cost via a per-mode freight-percentage table; margin
// percentages come from a seeded per-carrier-type draw so runs are
// reproducible without real revenue data.
package finance

import (
	"math/rand"
	"sort"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/stats"
)

// DefaultSeed is the margin-table seed used when the run config leaves it
// unset. Changing the seed changes every margin figure, so it is part of the
// output contract.
const DefaultSeed = 42

// EstimatorConfig controls the value proxy and the seeded margin table.
type EstimatorConfig struct {
	Seed              int64              `yaml:"seed"`
	FreightPctOfValue map[string]float64 `yaml:"freight_pct_of_value"`
	DefaultFreightPct float64            `yaml:"default_freight_pct"`
	MarginPctLow      float64            `yaml:"margin_pct_low"`
	MarginPctHigh     float64            `yaml:"margin_pct_high"`
	DefaultMarginPct  float64            `yaml:"default_margin_pct"`
}

// DefaultEstimatorConfig returns the production margin-proxy configuration.
func DefaultEstimatorConfig() *EstimatorConfig {
	return &EstimatorConfig{
		Seed: DefaultSeed,
		FreightPctOfValue: map[string]float64{
			"AIR":   0.06,
			"SEA":   0.03,
			"TRUCK": 0.04,
			"RAIL":  0.035,
		},
		DefaultFreightPct: 0.04,
		MarginPctLow:      0.18,
		MarginPctHigh:     0.35,
		DefaultMarginPct:  0.25,
	}
}

func (c *EstimatorConfig) freightPct(mode string) float64 {
	if v, ok := c.FreightPctOfValue[mode]; ok {
		return v
	}
	return c.DefaultFreightPct
}

// MarginPercents draws one margin percentage per carrier type from the
// uniform range [low, high). The draw visits the deduplicated types in sorted
// order with a generator seeded from seed alone, so the table is a pure
// function of (types, seed, range) with no process-wide generator state.
func MarginPercents(carrierTypes []string, seed int64, low, high float64) map[string]float64 {
	unique := make(map[string]bool, len(carrierTypes))
	for _, ct := range carrierTypes {
		if ct != "" {
			unique[ct] = true
		}
	}
	sorted := make([]string, 0, len(unique))
	for ct := range unique {
		sorted = append(sorted, ct)
	}
	sort.Strings(sorted)

	rng := rand.New(rand.NewSource(seed))
	table := make(map[string]float64, len(sorted))
	for _, ct := range sorted {
		table[ct] = low + rng.Float64()*(high-low)
	}
	return table
}

// Row is one margin-at-risk aggregate over a (mode, lane, carrier) group.
type Row struct {
	Mode                 string  `json:"mode_dsc"`
	Lane                 string  `json:"lane"`
	Carrier              string  `json:"carrier"`
	Orders               int     `json:"orders"`
	LateRate             float64 `json:"late_rate"`
	TotalFreightCost     float64 `json:"total_freight_cost"`
	TotalOrderValueProxy float64 `json:"total_order_value_proxy"`
	TotalMarginProxy     float64 `json:"total_margin_proxy"`
	TotalMarginAtRisk    float64 `json:"total_margin_at_risk"`
	MarginAtRiskPct      float64 `json:"margin_at_risk_pct"`
}

// Estimator builds the margin-at-risk table.
type Estimator struct {
	cfg *EstimatorConfig
}

// NewEstimator creates an estimator; a nil config selects the defaults.
func NewEstimator(cfg *EstimatorConfig) *Estimator {
	if cfg == nil {
		cfg = DefaultEstimatorConfig()
	}
	return &Estimator{cfg: cfg}
}

type marginAcc struct {
	orders     int
	late       stats.Accumulator
	freight    float64
	valueProxy float64
	margin     float64
	atRisk     float64
}

// Estimate aggregates per-order margin proxies by (mode, lane, carrier).
// Unresolved freight costs contribute zero. Rows are sorted by group key so
// output is deterministic.
func (e *Estimator) Estimate(orders []domain.CostEstimatedOrder) []Row {
	types := make([]string, len(orders))
	for i, o := range orders {
		types[i] = o.CarrierType
	}
	margins := MarginPercents(types, e.cfg.Seed, e.cfg.MarginPctLow, e.cfg.MarginPctHigh)

	groups := make(map[[3]string]*marginAcc)
	for _, o := range orders {
		key := [3]string{o.Mode, o.Lane(), o.Carrier}
		acc, ok := groups[key]
		if !ok {
			acc = &marginAcc{}
			groups[key] = acc
		}

		marginPct, ok := margins[o.CarrierType]
		if !ok {
			marginPct = e.cfg.DefaultMarginPct
		}
		cost := o.CostOrZero()
		valueProxy := cost / e.cfg.freightPct(o.Mode)
		grossMargin := valueProxy * marginPct

		acc.orders++
		acc.late.AddBool(o.IsLate())
		acc.freight += cost
		acc.valueProxy += valueProxy
		acc.margin += grossMargin
		if o.IsLate() {
			acc.atRisk += grossMargin
		}
	}

	rows := make([]Row, 0, len(groups))
	for key, acc := range groups {
		rows = append(rows, Row{
			Mode:                 key[0],
			Lane:                 key[1],
			Carrier:              key[2],
			Orders:               acc.orders,
			LateRate:             acc.late.Mean(),
			TotalFreightCost:     acc.freight,
			TotalOrderValueProxy: acc.valueProxy,
			TotalMarginProxy:     acc.margin,
			TotalMarginAtRisk:    acc.atRisk,
			MarginAtRiskPct:      acc.atRisk / (acc.margin + stats.Epsilon),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Mode != rows[j].Mode {
			return rows[i].Mode < rows[j].Mode
		}
		if rows[i].Lane != rows[j].Lane {
			return rows[i].Lane < rows[j].Lane
		}
		return rows[i].Carrier < rows[j].Carrier
	})
	return rows
}
