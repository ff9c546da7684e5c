package core

import (
	"fmt"
	"sort"
)

// WeightedSampler selects an index with probability proportional to a fixed weight.
// Weights are normalized once at construction and sampled through a cumulative table.
type WeightedSampler struct {
	weights []float64 // normalized, sum to 1
	cdf     []float64
}

// NewWeightedSampler normalizes the weights to sum to 1.0.
// Returns an error if a weight is negative or all weights are zero.
func NewWeightedSampler(weights []float64) (*WeightedSampler, error) {
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weight %d is negative: %v", i, w)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("no positive weights among %d entries", len(weights))
	}

	normalized := make([]float64, len(weights))
	cdf := make([]float64, len(weights))
	cumulative := 0.0
	for i, w := range weights {
		normalized[i] = w / total
		cumulative += normalized[i]
		cdf[i] = cumulative
	}
	cdf[len(cdf)-1] = 1.0

	return &WeightedSampler{weights: normalized, cdf: cdf}, nil
}

// Sample returns the selected index and its probability for u in [0, 1)
func (ws *WeightedSampler) Sample(u float64) (int, float64) {
	i := sort.SearchFloat64s(ws.cdf, u)
	// Skip zero-weight entries that share a cumulative value with their predecessor
	for i < len(ws.cdf)-1 && (ws.weights[i] == 0 || ws.cdf[i] <= u) {
		i++
	}
	for i > 0 && ws.weights[i] == 0 {
		i--
	}
	return i, ws.weights[i]
}

// Probability returns the normalized weight at index i
func (ws *WeightedSampler) Probability(i int) float64 {
	if i < 0 || i >= len(ws.weights) {
		return 0.0
	}
	return ws.weights[i]
}

// Len returns the number of entries
func (ws *WeightedSampler) Len() int {
	return len(ws.weights)
}

// String returns a string representation for debugging
func (ws *WeightedSampler) String() string {
	result := fmt.Sprintf("WeightedSampler{%d entries:\n", len(ws.weights))
	for i, w := range ws.weights {
		result += fmt.Sprintf("  [%d] %.1f%%\n", i, w*100)
	}
	result += "}"
	return result
}
