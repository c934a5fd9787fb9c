package model

import (
	"bytes"
	"encoding/gob"
	"math/rand"
	"runtime"
	"sync"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/optim"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/stats"
)

// LinearRegression via mini-batch gradient descent on standardized features.
type LinearRegression struct {
	W           []float64 // weights, in standardized feature space
	B           float64   // bias
	Lr          float64
	Epochs      int
	BatchSize   int
	RandomState int64

	Scaler *stats.StandardScaler
}

// NewLinearRegression returns a model with lr 0.05, 200 epochs and batches of 32.
func NewLinearRegression(seed int64) *LinearRegression {
	return &LinearRegression{Lr: 0.05, Epochs: 200, BatchSize: 32, RandomState: seed}
}

// Fit standardizes X, then runs Epochs passes of shuffled mini-batch SGD.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	p, err := validateXY("linear", X, len(y))
	if err != nil {
		return err
	}
	rnd := rand.New(rand.NewSource(m.RandomState))
	m.Scaler = stats.NewStandardScaler()
	Xs := m.Scaler.FitTransform(X)

	m.W = make([]float64, p)
	for i := range m.W {
		m.W[i] = rnd.NormFloat64() * 0.01
	}
	m.B = 0
	opt := optim.NewSGD(m.Lr)

	order := make([]int, len(Xs))
	for i := range order {
		order[i] = i
	}
	shuffledX := make([][]float64, len(Xs))
	shuffledY := make([]float64, len(y))

	for ep := 0; ep < m.Epochs; ep++ {
		rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for k, i := range order {
			shuffledX[k], shuffledY[k] = Xs[i], y[i]
		}

		for _, batch := range data.Batches(shuffledX, shuffledY, m.BatchSize) {
			yhat := m.predictScaled(batch.X)
			_, dy := optim.MSE(batch.Y, yhat)
			gW := make([]float64, len(m.W))
			gb := 0.0
			for i, row := range batch.X {
				d := dy[i]
				for j, xij := range row {
					gW[j] += d * xij
				}
				gb += d
			}
			opt.Step(m.W, gW)
			opt.StepBias(&m.B, gb)
		}
	}
	return nil
}

func (m *LinearRegression) predictScaled(X [][]float64) []float64 {
	pred := make([]float64, len(X))
	for i, row := range X {
		sum := m.B
		for j, v := range row {
			sum += m.W[j] * v
		}
		pred[i] = sum
	}
	return pred
}

// Predict returns predictions for rows in X, split across GOMAXPROCS workers.
func (m *LinearRegression) Predict(X [][]float64) []float64 {
	if len(X) == 0 || m.Scaler == nil {
		return make([]float64, len(X))
	}
	Xs := m.Scaler.Transform(X)
	pred := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		s := w * rowsPerWorker
		e := min(s+rowsPerWorker, len(X))
		if s >= e {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			copy(pred[s:e], m.predictScaled(Xs[s:e]))
		}(s, e)
	}
	wg.Wait()
	return pred
}

// Bias returns the current bias value of the model.
func (m *LinearRegression) Bias() float64 {
	return m.B
}

func (m *LinearRegression) MarshalBinary() ([]byte, error) {
	if m.Scaler == nil {
		return nil, errorf("linear", ErrNotTrained)
	}
	type plain LinearRegression
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(plain(*m)); err != nil {
		return nil, errorf("linear: encode", err)
	}
	return buf.Bytes(), nil
}

func (m *LinearRegression) UnmarshalBinary(b []byte) error {
	type plain LinearRegression
	var p plain
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&p); err != nil {
		return errorf("linear: decode", err)
	}
	*m = LinearRegression(p)
	return nil
}
