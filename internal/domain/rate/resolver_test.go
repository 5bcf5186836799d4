package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneops/freightwatch/internal/domain"
)

func f(v float64) *float64 { return &v }

func order(id string, weight *float64) domain.Order {
	return domain.Order{
		OrderID:      id,
		OrigPort:     "P1",
		DestPort:     "P2",
		Carrier:      "A",
		ServiceLevel: "X",
		Weight:       weight,
	}
}

func cardEntry(min, max, rate float64, minCost float64) domain.RateCardEntry {
	return domain.RateCardEntry{
		Carrier:      "A",
		OrigPort:     "P1",
		DestPort:     "P2",
		ServiceLevel: "X",
		MinWeight:    f(min),
		MaxWeight:    f(max),
		MinimumCost:  minCost,
		Rate:         f(rate),
	}
}

func TestResolve_SingleBandMatch(t *testing.T) {
	resolver := NewResolver()
	entry := cardEntry(0, 100, 0.5, 10)
	entry.TransitDays = 6

	out := resolver.Resolve(
		[]domain.Order{order("1", f(50))},
		[]domain.RateCardEntry{entry},
	)

	require.Len(t, out, 1)
	assert.True(t, out[0].MatchedBandOK)
	require.NotNil(t, out[0].FreightCostEst)
	// max(10, 50*0.5) = 25
	assert.InDelta(t, 25.0, *out[0].FreightCostEst, 1e-9)
	require.NotNil(t, out[0].RateTransit)
	assert.InDelta(t, 6.0, *out[0].RateTransit, 1e-9, "matched card transit carries through")
}

func TestResolve_MinimumCostFloor(t *testing.T) {
	resolver := NewResolver()

	out := resolver.Resolve(
		[]domain.Order{order("1", f(10))},
		[]domain.RateCardEntry{cardEntry(0, 100, 0.5, 10)},
	)

	require.NotNil(t, out[0].FreightCostEst)
	// 10*0.5 = 5 < minimum cost 10
	assert.InDelta(t, 10.0, *out[0].FreightCostEst, 1e-9)
}

func TestResolve_NoCardRow_KeepsOrderWithNilCost(t *testing.T) {
	resolver := NewResolver()

	out := resolver.Resolve([]domain.Order{order("1", f(50))}, nil)

	require.Len(t, out, 1)
	assert.False(t, out[0].MatchedBandOK)
	assert.Nil(t, out[0].FreightCostEst)
}

func TestResolve_WeightOutsideAllBands(t *testing.T) {
	resolver := NewResolver()

	out := resolver.Resolve(
		[]domain.Order{order("1", f(500))},
		[]domain.RateCardEntry{cardEntry(0, 100, 0.5, 10)},
	)

	require.Len(t, out, 1)
	assert.False(t, out[0].MatchedBandOK)
	assert.Nil(t, out[0].FreightCostEst)
}

func TestResolve_NilWeightNeverMatches(t *testing.T) {
	resolver := NewResolver()

	out := resolver.Resolve(
		[]domain.Order{order("1", nil)},
		[]domain.RateCardEntry{cardEntry(0, 100, 0.5, 10)},
	)

	assert.False(t, out[0].MatchedBandOK)
	assert.Nil(t, out[0].FreightCostEst)
}

func TestResolve_BandBoundsInclusive(t *testing.T) {
	resolver := NewResolver()
	card := []domain.RateCardEntry{cardEntry(10, 100, 1.0, 0)}

	lo := resolver.Resolve([]domain.Order{order("1", f(10))}, card)
	hi := resolver.Resolve([]domain.Order{order("2", f(100))}, card)

	assert.True(t, lo[0].MatchedBandOK, "min bound is inclusive")
	assert.True(t, hi[0].MatchedBandOK, "max bound is inclusive")
}

func TestResolve_OverlappingBands_NarrowestWins(t *testing.T) {
	resolver := NewResolver()
	wide := cardEntry(0, 1000, 0.9, 0)
	narrow := cardEntry(40, 60, 0.5, 0)

	// Wide band listed first: input order must not decide the winner.
	out := resolver.Resolve(
		[]domain.Order{order("1", f(50))},
		[]domain.RateCardEntry{wide, narrow},
	)

	require.NotNil(t, out[0].FreightCostEst)
	assert.InDelta(t, 25.0, *out[0].FreightCostEst, 1e-9, "narrow band rate 0.5 should win")
}

func TestResolve_EqualWidth_LowestRateWins(t *testing.T) {
	resolver := NewResolver()
	expensive := cardEntry(0, 100, 2.0, 0)
	cheap := cardEntry(0, 100, 1.0, 0)

	out := resolver.Resolve(
		[]domain.Order{order("1", f(50))},
		[]domain.RateCardEntry{expensive, cheap},
	)

	require.NotNil(t, out[0].FreightCostEst)
	assert.InDelta(t, 50.0, *out[0].FreightCostEst, 1e-9)
}

func TestResolve_DuplicateOrderIDs_OneRowEach(t *testing.T) {
	resolver := NewResolver()

	out := resolver.Resolve(
		[]domain.Order{order("1", f(50)), order("1", f(80)), order("2", f(50))},
		[]domain.RateCardEntry{cardEntry(0, 100, 1.0, 0)},
	)

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].OrderID)
	assert.InDelta(t, 50.0, *out[0].FreightCostEst, 1e-9, "first occurrence wins")
	assert.Equal(t, "2", out[1].OrderID)
}

func TestResolve_NilRate_NilCostButBandOK(t *testing.T) {
	resolver := NewResolver()
	entry := cardEntry(0, 100, 0, 0)
	entry.Rate = nil

	out := resolver.Resolve([]domain.Order{order("1", f(50))}, []domain.RateCardEntry{entry})

	assert.True(t, out[0].MatchedBandOK)
	assert.Nil(t, out[0].FreightCostEst, "nil rate must yield nil cost, not zero")
}

func TestResolve_Idempotent(t *testing.T) {
	resolver := NewResolver()
	orders := []domain.Order{order("3", f(70)), order("1", f(50)), order("2", nil)}
	card := []domain.RateCardEntry{
		cardEntry(0, 60, 1.0, 5),
		cardEntry(0, 1000, 0.8, 5),
	}

	first := resolver.Resolve(orders, card)
	second := resolver.Resolve(orders, card)

	assert.Equal(t, first, second)
}
