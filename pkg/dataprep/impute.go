package dataprep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/stats"
)

// Missing reports whether a cell holds no value.
func Missing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

// Strategy names how a column's missing cells were filled.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
)

// Imputation records the fill applied to one column.
type Imputation struct {
	Column   string
	Missing  int
	Strategy Strategy
	Value    string
}

// HasMissing reports whether any of the named columns has a missing cell.
func HasMissing(f *data.Frame, columns []string) (bool, error) {
	for _, name := range columns {
		col, err := f.Strings(name)
		if err != nil {
			return false, err
		}
		for _, v := range col {
			if Missing(v) {
				return true, nil
			}
		}
	}
	return false, nil
}

// ImputeColumns fills the missing cells of the named columns in place.
// Numeric columns get the mean when under 5% of cells are missing, the
// median otherwise or when the column is skewed. Other columns get their
// most frequent value. Columns without missing cells are left alone.
func ImputeColumns(f *data.Frame, columns []string) ([]Imputation, error) {
	var out []Imputation
	for _, name := range columns {
		j, err := f.Index(name)
		if err != nil {
			return nil, err
		}
		col, err := f.Strings(name)
		if err != nil {
			return nil, err
		}
		imp, ok, err := imputeColumn(name, col)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for i, v := range col {
			if Missing(v) {
				f.Rows[i][j] = imp.Value
			}
		}
		out = append(out, imp)
	}
	return out, nil
}

func imputeColumn(name string, col []string) (Imputation, bool, error) {
	imp := Imputation{Column: name}
	var present []string
	for _, v := range col {
		if Missing(v) {
			imp.Missing++
			continue
		}
		present = append(present, v)
	}
	if imp.Missing == 0 {
		return imp, false, nil
	}
	if len(present) == 0 {
		return imp, false, &data.ColumnError{Column: name, Err: fmt.Errorf("every cell is missing")}
	}

	nums, numeric := parseAll(present)
	if !numeric {
		imp.Strategy = StrategyMode
		imp.Value = modeString(present)
		return imp, true, nil
	}

	ratio := float64(imp.Missing) / float64(len(col))
	mean, median := stats.Mean(nums), stats.Median(nums)
	skew := math.Abs(mean-median) / (stats.Std(nums) + 1e-9)
	switch {
	case ratio < 0.05 && skew <= 1:
		imp.Strategy = StrategyMean
		imp.Value = strconv.FormatFloat(mean, 'f', 4, 64)
	default:
		imp.Strategy = StrategyMedian
		imp.Value = strconv.FormatFloat(median, 'f', -1, 64)
	}
	return imp, true, nil
}

func parseAll(values []string) ([]float64, bool) {
	out := make([]float64, len(values))
	for i, v := range values {
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// modeString returns the most frequent value. On ties the value that
// reached the count first wins.
func modeString(values []string) string {
	counts := map[string]int{}
	best, bestN := "", 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best
}
