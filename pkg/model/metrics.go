package model

import "math"

func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

func MAE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		s += math.Abs(yPred[i] - yTrue[i])
	}
	return s / n
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 is the coefficient of determination. A constant target yields 0.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	m := 0.0
	for _, v := range yTrue {
		m += v
	}
	m /= float64(len(yTrue))
	ssTot := 0.0
	ssRes := 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Accuracy compares labels encoded as float64 after rounding.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if math.Round(yTrue[i]) == math.Round(yPred[i]) {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix counts labels 0..k-1; rows are true labels, columns
// predictions. Labels outside the range are skipped.
func ConfusionMatrix(yTrue, yPred []float64, k int) [][]int {
	m := make([][]int, k)
	for i := range m {
		m[i] = make([]int, k)
	}
	for i := range yTrue {
		t, p := int(math.Round(yTrue[i])), int(math.Round(yPred[i]))
		if t < 0 || t >= k || p < 0 || p >= k {
			continue
		}
		m[t][p]++
	}
	return m
}
