package risk

import (
	"sort"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/stats"
)

// DefaultQueueCapacity caps the exception queue length.
const DefaultQueueCapacity = 50

// Priority score coefficients: risk dominates, cost exposure breaks the rest.
const (
	priorityRiskWeight = 0.65
	priorityCostWeight = 0.35
)

// BuildQueue filters late orders and ranks them by priority score. The cost
// component reuses CostScaled as normalized over the full order set, not just
// the late subset, so priorities stay comparable across runs. Ties are broken
// by ascending order identifier; capacity <= 0 selects the default cap.
// An input with no late orders yields an empty, non-nil queue.
func BuildQueue(scored []domain.ScoredOrder, capacity int) []domain.ExceptionEntry {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}

	late := make([]domain.ExceptionEntry, 0)
	for _, so := range scored {
		if !so.IsLate() {
			continue
		}
		priority := stats.Clip(
			priorityRiskWeight*so.RiskScore+priorityCostWeight*(so.CostScaled*100),
			0, 100,
		)
		late = append(late, domain.ExceptionEntry{
			OrderID:        so.OrderID,
			OrderDate:      so.OrderDate,
			Lane:           so.Lane(),
			Carrier:        so.Carrier,
			Mode:           so.Mode,
			ShipLate:       so.ShipLate,
			FreightCostEst: so.FreightCostEst,
			RiskScore:      so.RiskScore,
			RiskBand:       so.RiskBand,
			PriorityScore:  priority,
		})
	}

	sort.Slice(late, func(i, j int) bool {
		if late[i].PriorityScore != late[j].PriorityScore {
			return late[i].PriorityScore > late[j].PriorityScore
		}
		return late[i].OrderID < late[j].OrderID
	})

	if len(late) > capacity {
		late = late[:capacity]
	}
	return late
}
