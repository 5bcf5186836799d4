// Package seasonality builds the monthly trend table from cost-estimated
// orders.
package seasonality

import (
	"sort"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/stats"
)

// Row is one month's aggregate. Month is "YYYY-MM"; orders whose source date
// failed to parse land under an empty month key rather than being dropped.
type Row struct {
	Month            string  `json:"month"`
	Orders           int     `json:"orders"`
	OnTimeRate       float64 `json:"on_time_rate"`
	LateRate         float64 `json:"late_rate"`
	AvgLateDays      float64 `json:"avg_late_days"`
	TotalFreightCost float64 `json:"total_freight_cost"`
	AvgFreightCost   float64 `json:"avg_freight_cost"`
	SeasonalityIndex float64 `json:"seasonality_index_orders"` // orders / mean monthly orders
}

type monthAcc struct {
	orders   int
	onTime   stats.Accumulator
	late     stats.Accumulator
	lateDays stats.Accumulator
	freight  stats.Accumulator
}

// BuildMonthly groups orders into calendar months, sorted ascending. The
// seasonality index relates each month's volume to the mean monthly volume.
func BuildMonthly(orders []domain.CostEstimatedOrder) []Row {
	months := make(map[string]*monthAcc)
	for _, o := range orders {
		key := ""
		if !o.OrderDate.IsZero() {
			key = o.OrderDate.Format("2006-01")
		}
		acc, ok := months[key]
		if !ok {
			acc = &monthAcc{}
			months[key] = acc
		}
		acc.orders++
		acc.onTime.AddBool(o.IsOnTime())
		acc.late.AddBool(o.IsLate())
		acc.lateDays.Add(o.ShipLate)
		acc.freight.Add(o.CostOrZero())
	}

	keys := make([]string, 0, len(months))
	var totalOrders float64
	for k, acc := range months {
		keys = append(keys, k)
		totalOrders += float64(acc.orders)
	}
	sort.Strings(keys)

	meanOrders := 0.0
	if len(months) > 0 {
		meanOrders = totalOrders / float64(len(months))
	}

	rows := make([]Row, len(keys))
	for i, k := range keys {
		acc := months[k]
		rows[i] = Row{
			Month:            k,
			Orders:           acc.orders,
			OnTimeRate:       acc.onTime.Mean(),
			LateRate:         acc.late.Mean(),
			AvgLateDays:      acc.lateDays.Mean(),
			TotalFreightCost: acc.freight.Sum,
			AvgFreightCost:   acc.freight.Mean(),
			SeasonalityIndex: float64(acc.orders) / (meanOrders + stats.Epsilon),
		}
	}
	return rows
}
