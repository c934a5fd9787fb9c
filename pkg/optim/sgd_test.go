package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSGD_Step(t *testing.T) {
	o := NewSGD(0.1)
	w := []float64{1, -2}
	o.Step(w, []float64{2, -4})
	assert.InDeltaSlice(t, []float64{0.8, -1.6}, w, 1e-12)

	o.WeightDecay = 0.5
	w = []float64{1}
	o.Step(w, []float64{0})
	assert.InDelta(t, 0.95, w[0], 1e-12)

	b := 1.0
	o.StepBias(&b, 2)
	assert.InDelta(t, 0.8, b, 1e-12)
}

func TestMSE(t *testing.T) {
	loss, grad := MSE([]float64{1, 2}, []float64{2, 2})
	assert.InDelta(t, 0.5, loss, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0}, grad, 1e-12)
}
