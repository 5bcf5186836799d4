// Package rate matches orders against a freight rate card and computes the
// estimated freight cost for each order.
package rate

import (
	"math"

	"github.com/laneops/freightwatch/internal/domain"
)

// Resolver attributes at most one rate-card row to every order.
//
// Candidate rows share the order's (carrier, origin, destination, service)
// key. Among candidates the winner is chosen by: band containment first, then
// narrowest band width, then lowest rate, then rate-card input order. The
// ordering is total, so resolution is deterministic and idempotent for a
// given card.
type Resolver struct{}

// NewResolver creates a rate resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// indexed keeps the card input position so the tie-break stays stable across
// runs over the same file.
type indexed struct {
	entry domain.RateCardEntry
	pos   int
}

// Resolve produces exactly one CostEstimatedOrder per distinct order
// identifier. Orders without any candidate card row are passed through with
// nil cost fields; they are never dropped. Duplicate order identifiers in the
// input collapse to the first occurrence.
func (r *Resolver) Resolve(orders []domain.Order, card []domain.RateCardEntry) []domain.CostEstimatedOrder {
	byKey := make(map[string][]indexed)
	for i, entry := range card {
		key := entry.LaneKey()
		byKey[key] = append(byKey[key], indexed{entry: entry, pos: i})
	}

	resolved := make([]domain.CostEstimatedOrder, 0, len(orders))
	seen := make(map[string]bool, len(orders))

	for _, order := range orders {
		if seen[order.OrderID] {
			continue
		}
		seen[order.OrderID] = true

		best, ok := pickBest(order, byKey[order.LaneKey()])
		out := domain.CostEstimatedOrder{Order: order}
		if ok {
			out.MatchedBandOK = best.entry.Contains(order.Weight)
			if out.MatchedBandOK {
				out.FreightCostEst = estimateCost(order, best.entry)
				tpt := best.entry.TransitDays
				out.RateTransit = &tpt
			}
		}
		resolved = append(resolved, out)
	}
	return resolved
}

// pickBest returns the winning candidate under the resolver's ordering, or
// ok=false when the order has no candidates at all.
func pickBest(order domain.Order, candidates []indexed) (indexed, bool) {
	if len(candidates) == 0 {
		return indexed{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterCandidate(order, c, best) {
			best = c
		}
	}
	return best, true
}

// betterCandidate reports whether a should replace b as the current winner.
func betterCandidate(order domain.Order, a, b indexed) bool {
	aOK := a.entry.Contains(order.Weight)
	bOK := b.entry.Contains(order.Weight)
	if aOK != bOK {
		return aOK
	}
	if aw, bw := widthOrInf(a.entry), widthOrInf(b.entry); aw != bw {
		return aw < bw
	}
	if ar, br := rateOrInf(a.entry), rateOrInf(b.entry); ar != br {
		return ar < br
	}
	return a.pos < b.pos
}

func widthOrInf(e domain.RateCardEntry) float64 {
	if w, ok := e.BandWidth(); ok {
		return w
	}
	return math.Inf(1)
}

func rateOrInf(e domain.RateCardEntry) float64 {
	if e.Rate == nil {
		return math.Inf(1)
	}
	return *e.Rate
}

// estimateCost applies max(minimum_cost, weight*rate). A nil rate or weight
// yields a nil estimate, never zero.
func estimateCost(order domain.Order, entry domain.RateCardEntry) *float64 {
	if entry.Rate == nil || order.Weight == nil {
		return nil
	}
	cost := *order.Weight * *entry.Rate
	if cost < entry.MinimumCost {
		cost = entry.MinimumCost
	}
	return &cost
}
