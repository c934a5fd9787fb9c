// Package pipeline trains, evaluates and applies productivity models over a
// session dataset.
package pipeline

import (
	"fmt"
	"math/rand"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/loader"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// Metrics scores predictions on the held-out rows. Accuracy is only set
// for classifiers.
type Metrics struct {
	MAE      float64
	MSE      float64
	RMSE     float64
	R2       float64
	Accuracy float64
}

func Evaluate(yTrue, yPred []float64, classifier bool) Metrics {
	m := Metrics{
		MAE:  model.MAE(yTrue, yPred),
		MSE:  model.MSE(yTrue, yPred),
		RMSE: model.RMSE(yTrue, yPred),
		R2:   model.R2(yTrue, yPred),
	}
	if classifier {
		m.Accuracy = model.Accuracy(yTrue, yPred)
	}
	return m
}

// Result is the outcome of one training run.
type Result struct {
	Bundle    *Bundle
	Actual    []float64
	Predicted []float64
	Metrics   Metrics
	TrainRows int
	TestRows  int
	// Imputed lists the input columns whose missing cells were filled.
	Imputed []dataprep.Imputation
}

// dataset is a frame turned into model inputs.
type dataset struct {
	X        [][]float64
	y        []float64
	subjects *dataprep.LabelEncoder
	imputed  []dataprep.Imputation
}

// prepare checks f against the run's columns and builds X and y. Missing
// input cells are imputed on a copy of f; the target is never imputed.
func prepare(cfg Config, f *data.Frame) (*dataset, error) {
	schema := cfg.schema()
	if err := schema.Check(f); err != nil {
		return nil, err
	}
	missing, err := dataprep.HasMissing(f, schema.Inputs())
	if err != nil {
		return nil, err
	}
	var imputed []dataprep.Imputation
	if missing {
		f = f.Clone()
		if imputed, err = dataprep.ImputeColumns(f, schema.Inputs()); err != nil {
			return nil, err
		}
	}
	subjects, err := f.Strings(session.ColSubject)
	if err != nil && needsSubject(cfg.Features) {
		return nil, err
	}
	enc := dataprep.NewLabelEncoder(subjects)
	X, err := dataprep.Matrix(f, cfg.Features, enc)
	if err != nil {
		return nil, err
	}
	y, err := Target(f, cfg.Target)
	if err != nil {
		return nil, err
	}
	return &dataset{X: X, y: y, subjects: enc, imputed: imputed}, nil
}

func needsSubject(features []string) bool {
	for _, f := range features {
		if f == dataprep.SubjectEncoded {
			return true
		}
	}
	return false
}

// Target reads the target column. focus_classification is mapped to its
// ordinal, any other column is parsed as a number.
func Target(f *data.Frame, name string) ([]float64, error) {
	if name != session.ColFocus {
		return f.Floats(name)
	}
	labels, err := f.Strings(name)
	if err != nil {
		return nil, err
	}
	ord, err := dataprep.FocusOrdinal(labels)
	if err != nil {
		return nil, err
	}
	y := make([]float64, len(ord))
	for i, v := range ord {
		y[i] = float64(v)
	}
	return y, nil
}

// Train loads cfg.DatasetPath and runs TrainFrame.
func Train(cfg Config) (*Result, error) {
	f, err := data.ReadFrame(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	return TrainFrame(cfg, f)
}

// TrainFrame encodes the subject, splits the rows, fits cfg.Model on the
// training part and scores it on the test part.
func TrainFrame(cfg Config, f *data.Frame) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ds, err := prepare(cfg, f)
	if err != nil {
		return nil, err
	}
	split, err := newSplit(ds, cfg)
	if err != nil {
		return nil, err
	}
	return fit(cfg, cfg.Model, ds, split)
}

type splitData struct {
	XTrain, XTest [][]float64
	yTrain, yTest []float64
}

func newSplit(ds *dataset, cfg Config) (*splitData, error) {
	rnd := rand.New(rand.NewSource(cfg.Seed))
	XTrain, XTest, yTrain, yTest, err := loader.TrainTestSplit(ds.X, ds.y, cfg.TestRatio, rnd)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	return &splitData{XTrain, XTest, yTrain, yTest}, nil
}

func fit(cfg Config, kind model.Kind, ds *dataset, s *splitData) (*Result, error) {
	m, err := model.New(kind, cfg.params())
	if err != nil {
		return nil, err
	}
	if err := m.Fit(s.XTrain, s.yTrain); err != nil {
		return nil, fmt.Errorf("fit %s: %w", kind, err)
	}
	pred := m.Predict(s.XTest)
	return &Result{
		Bundle: &Bundle{
			Kind:     kind,
			Model:    m,
			Subjects: ds.subjects,
			Features: append([]string(nil), cfg.Features...),
			Target:   cfg.Target,
		},
		Actual:    s.yTest,
		Predicted: pred,
		Metrics:   Evaluate(s.yTest, pred, kind.IsClassifier()),
		TrainRows: len(s.XTrain),
		TestRows:  len(s.XTest),
		Imputed:   ds.imputed,
	}, nil
}

// BenchmarkRow is one model's score in a Benchmark.
type BenchmarkRow struct {
	Model   model.Kind
	Metrics Metrics
}

// Benchmark fits every kind on the same split of f. cfg.Model is ignored.
func Benchmark(cfg Config, f *data.Frame, kinds []model.Kind) ([]BenchmarkRow, error) {
	if len(kinds) == 0 {
		kinds = model.RegressionKinds
	}
	cfg.Model = kinds[0]
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ds, err := prepare(cfg, f)
	if err != nil {
		return nil, err
	}
	split, err := newSplit(ds, cfg)
	if err != nil {
		return nil, err
	}
	rows := make([]BenchmarkRow, 0, len(kinds))
	for _, k := range kinds {
		res, err := fit(cfg, k, ds, split)
		if err != nil {
			return nil, err
		}
		rows = append(rows, BenchmarkRow{Model: k, Metrics: res.Metrics})
	}
	return rows, nil
}
