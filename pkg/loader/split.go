// Package loader splits feature matrices for training and evaluation.
package loader

import (
	"fmt"
	"math"
	"math/rand"
)

// SplitIndices permutes 0..n-1 and returns the train and test index sets.
// The test set holds ceil(n*testRatio) rows, matching scikit-learn.
func SplitIndices(n int, testRatio float64, rnd *rand.Rand) (train, test []int, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("loader: test ratio %v outside (0, 1)", testRatio)
	}
	nTest := int(math.Ceil(float64(n)*testRatio - 1e-9))
	if n < 2 || nTest < 1 || nTest >= n {
		return nil, nil, fmt.Errorf("loader: cannot split %d rows with test ratio %v", n, testRatio)
	}
	indices := rnd.Perm(n)
	return indices[nTest:], indices[:nTest], nil
}

// TrainTestSplit splits X, Y into train and test sets by ratio.
func TrainTestSplit(X [][]float64, Y []float64, testRatio float64, rnd *rand.Rand) (XTrain, XTest [][]float64, YTrain, YTest []float64, err error) {
	if len(X) != len(Y) {
		return nil, nil, nil, nil, fmt.Errorf("loader: X has %d rows, Y has %d", len(X), len(Y))
	}
	train, test, err := SplitIndices(len(X), testRatio, rnd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	XTrain, YTrain = Take(X, Y, train)
	XTest, YTest = Take(X, Y, test)
	return XTrain, XTest, YTrain, YTest, nil
}

// Take gathers the rows at idx.
func Take(X [][]float64, Y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = Y[j]
	}
	return xs, ys
}

// ShuffleData shuffles X and Y in unison.
func ShuffleData(X [][]float64, Y []float64, rnd *rand.Rand) ([][]float64, []float64) {
	return Take(X, Y, rnd.Perm(len(X)))
}

// KFoldSplit deals a permutation of 0..n-1 into k folds. Fold sizes differ
// by at most one.
func KFoldSplit(n, k int, rnd *rand.Rand) ([][]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("loader: cannot make %d folds of %d rows", k, n)
	}
	indices := rnd.Perm(n)
	folds := make([][]int, k)
	for i := 0; i < n; i++ {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	return folds, nil
}

// Complement returns the indices of 0..n-1 that are not in fold.
func Complement(n int, fold []int) []int {
	in := make([]bool, n)
	for _, i := range fold {
		in[i] = true
	}
	out := make([]int, 0, n-len(fold))
	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}
