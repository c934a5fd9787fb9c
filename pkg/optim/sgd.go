package optim

// SGD is stochastic gradient descent with an optional L2 penalty.
type SGD struct {
	LearningRate float64
	WeightDecay  float64
}

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

// Step updates weights in place.
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.WeightDecay*weights[i])
	}
}

// StepBias updates an unpenalized scalar parameter.
func (o *SGD) StepBias(b *float64, grad float64) {
	*b -= o.LearningRate * grad
}
