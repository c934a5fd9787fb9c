// Package stats provides descriptive statistics over float64 columns.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Std computes the population standard deviation of a slice.
func Std(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(x, nil))
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return floats.Min(x), floats.Max(x)
}

// Median returns the middle value, averaging the two middle values of an
// even-length slice. x is not modified.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Correlation computes the Pearson correlation coefficient between two slices.
// Constant or mismatched inputs return 0.
func Correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// Summary describes one numeric column.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Describe summarises x.
func Describe(x []float64) Summary {
	lo, hi := MinMax(x)
	return Summary{Count: len(x), Mean: Mean(x), Std: Std(x), Min: lo, Max: hi}
}
