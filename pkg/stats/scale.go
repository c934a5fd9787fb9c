package stats

// StandardScaler standardizes each column to zero mean and unit variance.
// Constant columns get a unit Std so they map to zero.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit learns per-column mean and standard deviation.
func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	c := len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, len(X))
	for j := 0; j < c; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = Mean(col)
		s.Std[j] = Std(col)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
}

// Fitted reports whether Fit has run.
func (s *StandardScaler) Fitted() bool { return s.Mean != nil }

// Transform returns a standardized copy of X. An unfitted scaler returns X.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	if !s.Fitted() {
		return X
	}
	Y := make([][]float64, len(X))
	for i, x := range X {
		row := make([]float64, len(x))
		for j, v := range x {
			row[j] = (v - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y
}

func (s *StandardScaler) FitTransform(X [][]float64) [][]float64 { s.Fit(X); return s.Transform(X) }
