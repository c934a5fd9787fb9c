package model

import (
	"bytes"
	"encoding/gob"
	"runtime"
	"sort"
	"sync"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/stats"
)

// KNNRegressor predicts the mean target of the K nearest training rows,
// measured on standardized features.
type KNNRegressor struct {
	K      int
	X      [][]float64
	Y      []float64
	Scaler *stats.StandardScaler
}

// NewKNNRegressor creates and returns a new KNN model.
func NewKNNRegressor(k int) *KNNRegressor {
	return &KNNRegressor{K: k}
}

// Fit stores the standardized training data. This is the "lazy" part of KNN.
func (m *KNNRegressor) Fit(X [][]float64, y []float64) error {
	if _, err := validateXY("knn", X, len(y)); err != nil {
		return err
	}
	if m.K < 1 {
		m.K = 1
	}
	m.Scaler = stats.NewStandardScaler()
	m.X = m.Scaler.FitTransform(X)
	m.Y = append([]float64(nil), y...)
	return nil
}

// Predict finds the K-nearest neighbors for each row, in parallel across workers.
func (m *KNNRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(X) == 0 || len(m.X) == 0 {
		return out
	}
	Xs := m.Scaler.Transform(X)

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				out[i] = m.predictSingle(Xs[i])
			}
		}(start, end)
	}

	wg.Wait()
	return out
}

// predictSingle averages the targets of the K nearest rows. Equal distances
// keep training order.
func (m *KNNRegressor) predictSingle(xi []float64) float64 {
	type neighbor struct {
		d float64
		i int
	}
	nbrs := make([]neighbor, 0, m.K+1)
	less := func(a, b neighbor) bool {
		if a.d != b.d {
			return a.d < b.d
		}
		return a.i < b.i
	}

	for j, xj := range m.X {
		nb := neighbor{d: euclidSquared(xi, xj), i: j}
		if len(nbrs) < m.K {
			nbrs = append(nbrs, nb)
			sort.Slice(nbrs, func(a, b int) bool { return less(nbrs[a], nbrs[b]) })
		} else if less(nb, nbrs[len(nbrs)-1]) {
			nbrs[len(nbrs)-1] = nb
			sort.Slice(nbrs, func(a, b int) bool { return less(nbrs[a], nbrs[b]) })
		}
	}

	sum := 0.0
	for _, nb := range nbrs {
		sum += m.Y[nb.i]
	}
	return sum / float64(len(nbrs))
}

// euclidSquared avoids the square root, which does not change neighbor order.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func (m *KNNRegressor) MarshalBinary() ([]byte, error) {
	if m.Scaler == nil {
		return nil, errorf("knn", ErrNotTrained)
	}
	type plain KNNRegressor
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(plain(*m)); err != nil {
		return nil, errorf("knn: encode", err)
	}
	return buf.Bytes(), nil
}

func (m *KNNRegressor) UnmarshalBinary(b []byte) error {
	type plain KNNRegressor
	var p plain
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&p); err != nil {
		return errorf("knn: decode", err)
	}
	*m = KNNRegressor(p)
	return nil
}
