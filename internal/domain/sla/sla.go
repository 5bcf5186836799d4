// Package sla builds the service-level compliance table: per
// (mode, carrier, lane) delivery performance against rule-based per-mode
// targets.
package sla

import (
	"sort"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/stats"
)

// Config holds the per-mode on-time targets.
type Config struct {
	TargetByMode  map[string]float64 `yaml:"target_by_mode"`
	DefaultTarget float64            `yaml:"default_target"`
	ScoreCap      float64            `yaml:"score_cap"`
}

// DefaultConfig returns the standard SLA targets.
func DefaultConfig() *Config {
	return &Config{
		TargetByMode: map[string]float64{
			"AIR":   0.99,
			"SEA":   0.95,
			"TRUCK": 0.97,
			"RAIL":  0.96,
		},
		DefaultTarget: 0.97,
		ScoreCap:      1.25,
	}
}

func (c *Config) target(mode string) float64 {
	if v, ok := c.TargetByMode[mode]; ok {
		return v
	}
	return c.DefaultTarget
}

// Row is one SLA aggregate over a (mode, carrier, lane) group.
type Row struct {
	Mode             string  `json:"mode_dsc"`
	Carrier          string  `json:"carrier"`
	Lane             string  `json:"lane"`
	Orders           int     `json:"orders"`
	OnTimeRate       float64 `json:"on_time_rate"`
	LateRate         float64 `json:"late_rate"`
	AvgLateDays      float64 `json:"avg_late_days"`
	TotalFreightCost float64 `json:"total_freight_cost"`
	Target           float64 `json:"sla_target"`
	BreachPP         float64 `json:"sla_breach_pp"` // percentage points below target, floored at 0
	Score            float64 `json:"sla_score"`     // on_time/target, capped
}

type slaAcc struct {
	orders   int
	onTime   stats.Accumulator
	late     stats.Accumulator
	lateDays stats.Accumulator
	freight  float64
}

// Build aggregates SLA compliance per (mode, carrier, lane). Unresolved
// freight costs contribute zero to the cost totals. Rows are sorted by group
// key for stable output.
func Build(orders []domain.CostEstimatedOrder, cfg *Config) []Row {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	groups := make(map[[3]string]*slaAcc)
	for _, o := range orders {
		key := [3]string{o.Mode, o.Carrier, o.Lane()}
		acc, ok := groups[key]
		if !ok {
			acc = &slaAcc{}
			groups[key] = acc
		}
		acc.orders++
		acc.onTime.AddBool(o.IsOnTime())
		acc.late.AddBool(o.IsLate())
		acc.lateDays.Add(o.ShipLate)
		acc.freight += o.CostOrZero()
	}

	rows := make([]Row, 0, len(groups))
	for key, acc := range groups {
		target := cfg.target(key[0])
		onTime := acc.onTime.Mean()
		breach := (target - onTime) * 100
		if breach < 0 {
			breach = 0
		}
		score := onTime / target
		if score > cfg.ScoreCap {
			score = cfg.ScoreCap
		}
		rows = append(rows, Row{
			Mode:             key[0],
			Carrier:          key[1],
			Lane:             key[2],
			Orders:           acc.orders,
			OnTimeRate:       onTime,
			LateRate:         acc.late.Mean(),
			AvgLateDays:      acc.lateDays.Mean(),
			TotalFreightCost: acc.freight,
			Target:           target,
			BreachPP:         breach,
			Score:            score,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Mode != rows[j].Mode {
			return rows[i].Mode < rows[j].Mode
		}
		if rows[i].Carrier != rows[j].Carrier {
			return rows[i].Carrier < rows[j].Carrier
		}
		return rows[i].Lane < rows[j].Lane
	})
	return rows
}
