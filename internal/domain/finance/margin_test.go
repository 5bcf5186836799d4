package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneops/freightwatch/internal/domain"
)

func f(v float64) *float64 { return &v }

func estOrder(id, mode, carrier, carrierType string, late bool, cost *float64) domain.CostEstimatedOrder {
	lateDays := 0.0
	if late {
		lateDays = 3
	}
	return domain.CostEstimatedOrder{
		Order: domain.Order{
			OrderID:     id,
			OrigPort:    "P1",
			DestPort:    "P2",
			Mode:        mode,
			Carrier:     carrier,
			CarrierType: carrierType,
			ShipLate:    lateDays,
		},
		FreightCostEst: cost,
	}
}

func TestMarginPercents_DeterministicForSeed(t *testing.T) {
	types := []string{"broker", "asset", "broker", ""}

	first := MarginPercents(types, 42, 0.18, 0.35)
	second := MarginPercents(types, 42, 0.18, 0.35)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2, "duplicates and blanks are dropped")
	for ct, pct := range first {
		assert.GreaterOrEqual(t, pct, 0.18, "type %s", ct)
		assert.Less(t, pct, 0.35, "type %s", ct)
	}
}

func TestMarginPercents_OrderInsensitive(t *testing.T) {
	a := MarginPercents([]string{"x", "y", "z"}, 7, 0.18, 0.35)
	b := MarginPercents([]string{"z", "x", "y"}, 7, 0.18, 0.35)
	assert.Equal(t, a, b, "draw order is the sorted type set, not input order")
}

func TestMarginPercents_SeedChangesTable(t *testing.T) {
	a := MarginPercents([]string{"x", "y"}, 1, 0.18, 0.35)
	b := MarginPercents([]string{"x", "y"}, 2, 0.18, 0.35)
	assert.NotEqual(t, a, b)
}

func TestEstimate_SingleGroup(t *testing.T) {
	est := NewEstimator(nil)

	rows := est.Estimate([]domain.CostEstimatedOrder{
		estOrder("1", "AIR", "A", "asset", true, f(60)),
		estOrder("2", "AIR", "A", "asset", false, f(120)),
	})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 2, row.Orders)
	assert.InDelta(t, 0.5, row.LateRate, 1e-9)
	assert.InDelta(t, 180.0, row.TotalFreightCost, 1e-9)
	// AIR freight is 6% of value: 180/0.06 = 3000
	assert.InDelta(t, 3000.0, row.TotalOrderValueProxy, 1e-9)

	// Only the late order's margin is at risk: value split is 1000/2000,
	// same margin pct applies, so at-risk share is 1/3.
	assert.InDelta(t, row.TotalMarginProxy/3, row.TotalMarginAtRisk, 1e-6)
	assert.InDelta(t, 1.0/3.0, row.MarginAtRiskPct, 1e-6)
}

func TestEstimate_MarginAtRiskPctBounded(t *testing.T) {
	est := NewEstimator(nil)

	rows := est.Estimate([]domain.CostEstimatedOrder{
		estOrder("1", "SEA", "A", "nvocc", true, f(500)),
		estOrder("2", "TRUCK", "B", "asset", true, f(80)),
		estOrder("3", "TRUCK", "B", "asset", false, nil),
	})

	for _, row := range rows {
		assert.GreaterOrEqual(t, row.MarginAtRiskPct, 0.0)
		assert.LessOrEqual(t, row.MarginAtRiskPct, 1.0)
	}
}

func TestEstimate_NilCostContributesZero(t *testing.T) {
	est := NewEstimator(nil)

	rows := est.Estimate([]domain.CostEstimatedOrder{
		estOrder("1", "RAIL", "A", "asset", false, nil),
	})

	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].TotalFreightCost)
	assert.Zero(t, rows[0].TotalOrderValueProxy)
	assert.Zero(t, rows[0].TotalMarginAtRisk)
}

func TestEstimate_UnknownCarrierTypeFallback(t *testing.T) {
	cfg := DefaultEstimatorConfig()
	est := NewEstimator(cfg)

	// Blank carrier type never enters the seeded table, so the default
	// margin percentage applies.
	rows := est.Estimate([]domain.CostEstimatedOrder{
		estOrder("1", "TRUCK", "A", "", false, f(40)),
	})

	require.Len(t, rows, 1)
	valueProxy := 40.0 / 0.04
	assert.InDelta(t, valueProxy*cfg.DefaultMarginPct, rows[0].TotalMarginProxy, 1e-9)
}

func TestEstimate_DeterministicRowOrder(t *testing.T) {
	est := NewEstimator(nil)
	orders := []domain.CostEstimatedOrder{
		estOrder("1", "TRUCK", "B", "asset", false, f(10)),
		estOrder("2", "AIR", "A", "asset", false, f(10)),
		estOrder("3", "SEA", "C", "asset", false, f(10)),
	}

	rows := est.Estimate(orders)

	require.Len(t, rows, 3)
	assert.Equal(t, "AIR", rows[0].Mode)
	assert.Equal(t, "SEA", rows[1].Mode)
	assert.Equal(t, "TRUCK", rows[2].Mode)
	assert.Equal(t, rows, est.Estimate(orders))
}
