package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

const (
	ColPredicted       = "predicted_score"
	ColPredictionError = "prediction_error"
	ColPredictedFocus  = "predicted_focus_classification"
)

// ErrNoImportances is returned for models that do not rank features.
var ErrNoImportances = errors.New("pipeline: model has no feature importances")

// ExportPredictions returns a copy of f with the model's prediction for
// every row and its absolute error against the target column. The encoded
// subject column is added as well when the model uses it. Models trained on
// focus_classification also get the predicted category name.
func ExportPredictions(b *Bundle, f *data.Frame) (*data.Frame, error) {
	X, err := b.Matrix(f)
	if err != nil {
		return nil, err
	}
	actual, err := Target(f, b.Target)
	if err != nil {
		return nil, err
	}
	out := f.Clone()
	for j, name := range b.Features {
		if name == dataprep.SubjectEncoded {
			if err := out.AddFloatColumn(name, dataprep.Column(X, j), 0); err != nil {
				return nil, err
			}
		}
	}
	pred := b.Predict(X)
	errs := make([]float64, len(pred))
	for i := range pred {
		errs[i] = math.Abs(pred[i] - actual[i])
	}
	if err := out.AddFloatColumn(ColPredicted, pred, -1); err != nil {
		return nil, err
	}
	if err := out.AddFloatColumn(ColPredictionError, errs, -1); err != nil {
		return nil, err
	}
	if b.Target == session.ColFocus {
		labels := make([]string, len(pred))
		for i, p := range pred {
			c, err := session.CategoryFromOrdinal(int(math.Round(p)))
			if err != nil {
				return nil, err
			}
			labels[i] = c.String()
		}
		if err := out.AddColumn(ColPredictedFocus, labels); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Importance is one feature's share of the model's importance.
type Importance struct {
	Feature    string
	Importance float64
}

// FeatureImportance pairs the bundle's features with the model's
// importances, in feature order.
func FeatureImportance(b *Bundle) ([]Importance, error) {
	imp, ok := b.Model.(model.Importancer)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoImportances, b.Kind)
	}
	values := imp.FeatureImportances()
	if len(values) != len(b.Features) {
		return nil, fmt.Errorf("pipeline: %d importances for %d features", len(values), len(b.Features))
	}
	out := make([]Importance, len(values))
	for i, v := range values {
		out[i] = Importance{Feature: b.Features[i], Importance: v}
	}
	return out, nil
}
