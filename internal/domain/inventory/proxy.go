// Package inventory derives node-level capacity-pressure risk. A node is the
// synthetic (plant, destination) pairing that stands in for a warehouse
// identifier absent from the source data.
package inventory

import (
	"math"
	"sort"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/stats"
)

// Weights are the inventory risk coefficients. Capacity contributes inverted:
// low capacity means high pressure.
type Weights struct {
	Demand   float64 `yaml:"demand"`
	Capacity float64 `yaml:"capacity"`
	WhCost   float64 `yaml:"wh_cost"`
	LateRate float64 `yaml:"late_rate"`
}

// ProxyConfig holds the inventory risk weights.
type ProxyConfig struct {
	Weights Weights `yaml:"weights"`
}

// DefaultProxyConfig returns the production inventory weighting.
func DefaultProxyConfig() *ProxyConfig {
	return &ProxyConfig{
		Weights: Weights{
			Demand:   0.45,
			Capacity: 0.30,
			WhCost:   0.15,
			LateRate: 0.10,
		},
	}
}

// Profile is the aggregate risk view of one node.
type Profile struct {
	Node             string      `json:"node"`
	PlantCode        string      `json:"plant_code"`
	DestPort         string      `json:"dest_port_cd"`
	Orders           int         `json:"orders"`
	AvgDailyCapacity float64     `json:"avg_daily_capacity"` // NaN when no order carried a capacity
	AvgWhCostPerUnit float64     `json:"avg_wh_cost_per_unit"`
	AvgUnitQuantity  float64     `json:"avg_unit_qty"`
	AvgWeight        float64     `json:"avg_weight"`
	LateRate         float64     `json:"late_rate"`
	RiskScore        float64     `json:"inventory_risk_score"`
	RiskBand         domain.Band `json:"inventory_risk_band"`
}

type nodeAcc struct {
	plant, dest string
	orders      int
	capacity    stats.Accumulator
	whCost      stats.Accumulator
	unitQty     stats.Accumulator
	weight      stats.Accumulator
	late        stats.Accumulator
}

// BuildProfiles groups orders by node and scores each node's inventory
// pressure. Nodes missing capacity or warehouse cost inherit the median
// across nodes before scaling, so a sparse column degrades the signal rather
// than the run.
func BuildProfiles(orders []domain.CostEstimatedOrder, cfg *ProxyConfig) []Profile {
	if cfg == nil {
		cfg = DefaultProxyConfig()
	}

	nodes := make(map[string]*nodeAcc)
	for _, o := range orders {
		key := o.Node()
		acc, ok := nodes[key]
		if !ok {
			acc = &nodeAcc{plant: o.PlantCode, dest: o.DestPort}
			nodes[key] = acc
		}
		acc.orders++
		acc.late.AddBool(o.IsLate())
		acc.unitQty.Add(o.UnitQuantity)
		if o.Weight != nil {
			acc.weight.Add(*o.Weight)
		}
		if o.DailyCapacity != nil {
			acc.capacity.Add(*o.DailyCapacity)
		}
		if o.WhCostPerUnit != nil {
			acc.whCost.Add(*o.WhCostPerUnit)
		}
	}

	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	demand := make([]float64, len(keys))
	capacity := make([]float64, len(keys))
	whCost := make([]float64, len(keys))
	for i, k := range keys {
		acc := nodes[k]
		demand[i] = float64(acc.orders)
		capacity[i] = meanOrNaN(&acc.capacity)
		whCost[i] = meanOrNaN(&acc.whCost)
	}

	stats.Fill(capacity, stats.Median(capacity))
	stats.Fill(whCost, stats.Median(whCost))

	demandScaled := stats.MinMaxScale(demand)
	capScaled := stats.Fill(stats.MinMaxScale(capacity), 0)
	costScaled := stats.Fill(stats.MinMaxScale(whCost), 0)

	profiles := make([]Profile, len(keys))
	for i, k := range keys {
		acc := nodes[k]
		w := cfg.Weights
		score := stats.Clip(100*(w.Demand*demandScaled[i]+
			w.Capacity*(1-capScaled[i])+
			w.WhCost*costScaled[i]+
			w.LateRate*acc.late.Mean()), 0, 100)

		profiles[i] = Profile{
			Node:             k,
			PlantCode:        acc.plant,
			DestPort:         acc.dest,
			Orders:           acc.orders,
			AvgDailyCapacity: meanOrNaN(&acc.capacity),
			AvgWhCostPerUnit: meanOrNaN(&acc.whCost),
			AvgUnitQuantity:  acc.unitQty.Mean(),
			AvgWeight:        meanOrNaN(&acc.weight),
			LateRate:         acc.late.Mean(),
			RiskScore:        score,
			RiskBand:         domain.BandFor(score),
		}
	}
	return profiles
}

func meanOrNaN(acc *stats.Accumulator) float64 {
	if acc.Count == 0 {
		return math.NaN()
	}
	return acc.Mean()
}
