// Package scenario emits the fixed what-if rows shown alongside the baseline
// figures. Each scenario applies a documented multiplier/delta to the two
// baseline scalars; nothing is simulated.
package scenario

import "github.com/laneops/freightwatch/internal/domain/stats"

// Definition is one named what-if row: a cost multiplier and an on-time
// delta applied to the baseline, plus the shock magnitudes for display.
type Definition struct {
	Name           string  `yaml:"name"`
	FuelIncrease   float64 `yaml:"fuel_increase"`
	PortCongestion float64 `yaml:"port_congestion"`
	CostMultiplier float64 `yaml:"cost_multiplier"`
	OnTimeDelta    float64 `yaml:"on_time_delta"`
}

// DefaultDefinitions returns the standard scenario set.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "Baseline", CostMultiplier: 1.00, OnTimeDelta: 0},
		{Name: "Fuel +10% (cost +7%)", FuelIncrease: 0.10, CostMultiplier: 1.07, OnTimeDelta: 0},
		{Name: "Port congestion +20% (OT -2pp)", PortCongestion: 0.20, CostMultiplier: 1.01, OnTimeDelta: -0.02},
		{Name: "Capacity constraint (OT -1pp, cost +3%)", CostMultiplier: 1.03, OnTimeDelta: -0.01},
	}
}

// Row is one projected scenario.
type Row struct {
	Scenario           string  `json:"scenario"`
	FuelIncrease       float64 `json:"fuel_increase"`
	PortCongestion     float64 `json:"port_congestion"`
	TotalFreightCost   float64 `json:"total_freight_cost_est"`
	OnTimeRateEstimate float64 `json:"on_time_rate_est"`
}

// Project applies each definition to the baseline totals. The on-time rate is
// floored at zero; definitions default to the standard set when nil.
func Project(baselineCost, baselineOnTime float64, defs []Definition) []Row {
	if defs == nil {
		defs = DefaultDefinitions()
	}
	rows := make([]Row, len(defs))
	for i, d := range defs {
		rows[i] = Row{
			Scenario:           d.Name,
			FuelIncrease:       d.FuelIncrease,
			PortCongestion:     d.PortCongestion,
			TotalFreightCost:   baselineCost * d.CostMultiplier,
			OnTimeRateEstimate: stats.Clip(baselineOnTime+d.OnTimeDelta, 0, 1),
		}
	}
	return rows
}
