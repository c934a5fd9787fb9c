package optim

// MSE returns the mean squared error and its gradient with respect to yPred.
func MSE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	if n == 0 {
		return 0, nil
	}
	s := 0.0
	grad := make([]float64, n)

	for i := 0; i < n; i++ {
		e := yPred[i] - yTrue[i]
		s += e * e
		grad[i] = 2 * e / float64(n)
	}
	return s / float64(n), grad
}
