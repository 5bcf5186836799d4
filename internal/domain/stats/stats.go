// Package stats holds the small numeric helpers shared by the scoring
// engines: min-max scaling, NaN-aware summaries, and one-pass group
// accumulators. Missing values are represented as NaN at this layer; callers
// convert nil pointers to NaN before scaling and decide the fill policy.
package stats

import (
	"math"
	"sort"
)

// Epsilon pads the min-max denominator so a zero-range column scales to 0
// instead of dividing by zero.
const Epsilon = 1e-9

// MinMaxScale maps values into [0,1] as (v-min)/(max-min+Epsilon). NaN inputs
// are excluded from the min/max computation and propagate as NaN in the
// output. An all-NaN or empty input returns a same-length all-NaN slice.
func MinMaxScale(values []float64) []float64 {
	min, max := math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}

	scaled := make([]float64, len(values))
	if math.IsNaN(min) {
		for i := range scaled {
			scaled[i] = math.NaN()
		}
		return scaled
	}

	span := max - min + Epsilon
	for i, v := range values {
		if math.IsNaN(v) {
			scaled[i] = math.NaN()
			continue
		}
		scaled[i] = (v - min) / span
	}
	return scaled
}

// Fill replaces NaN entries with the given fallback, in place, and returns
// the slice for chaining.
func Fill(values []float64, fallback float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = fallback
		}
	}
	return values
}

// Mean averages the non-NaN entries. Returns NaN when none exist.
func Mean(values []float64) float64 {
	var acc Accumulator
	for _, v := range values {
		if !math.IsNaN(v) {
			acc.Add(v)
		}
	}
	if acc.Count == 0 {
		return math.NaN()
	}
	return acc.Mean()
}

// Median returns the median of the non-NaN entries, NaN when none exist.
func Median(values []float64) float64 {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return math.NaN()
	}
	sort.Float64s(kept)
	mid := len(kept) / 2
	if len(kept)%2 == 1 {
		return kept[mid]
	}
	return (kept[mid-1] + kept[mid]) / 2
}

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Accumulator collects count and sum so grouped reductions finish in one pass
// over the data instead of one scan per metric.
type Accumulator struct {
	Count int
	Sum   float64
}

// Add folds one observation into the accumulator.
func (a *Accumulator) Add(v float64) {
	a.Count++
	a.Sum += v
}

// AddBool folds a boolean observation, so Mean yields the true-rate.
func (a *Accumulator) AddBool(b bool) {
	if b {
		a.Add(1)
	} else {
		a.Add(0)
	}
}

// Mean is Sum/Count, 0 for an empty accumulator.
func (a *Accumulator) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// GroupMeans finalizes a map of accumulators into per-key means.
func GroupMeans(groups map[string]*Accumulator) map[string]float64 {
	means := make(map[string]float64, len(groups))
	for k, acc := range groups {
		means[k] = acc.Mean()
	}
	return means
}
