package dataprep

import (
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// SubjectEncoded is the derived feature holding the label-encoded subject.
const SubjectEncoded = "subject_encoded"

// DefaultFeatures are the six behavioural columns plus the encoded subject.
func DefaultFeatures() []string {
	return append(append([]string(nil), session.BehaviorColumns...), SubjectEncoded)
}

// Matrix builds a row-major feature matrix from the named frame columns.
// SubjectEncoded is derived from the subject column through enc.
func Matrix(f *data.Frame, features []string, enc *LabelEncoder) ([][]float64, error) {
	cols := make([][]float64, len(features))
	for j, name := range features {
		if name != SubjectEncoded {
			col, err := f.Floats(name)
			if err != nil {
				return nil, err
			}
			cols[j] = col
			continue
		}
		subjects, err := f.Strings(session.ColSubject)
		if err != nil {
			return nil, err
		}
		codes, err := enc.Transform(subjects)
		if err != nil {
			return nil, err
		}
		col := make([]float64, len(codes))
		for i, c := range codes {
			col[i] = float64(c)
		}
		cols[j] = col
	}

	X := make([][]float64, f.Len())
	for i := range X {
		row := make([]float64, len(features))
		for j := range features {
			row[j] = cols[j][i]
		}
		X[i] = row
	}
	return X, nil
}

// FeatureSelect selects columns by indices.
func FeatureSelect(X [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		selected := make([]float64, len(indices))
		for j, idx := range indices {
			selected[j] = row[idx]
		}
		out[i] = selected
	}
	return out
}

// Column extracts column j of X.
func Column(X [][]float64, j int) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = row[j]
	}
	return out
}
