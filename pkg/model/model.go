package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput    = errors.New("empty X")
	ErrShapeMismatch = errors.New("X and y length mismatch")
	ErrNotTrained    = errors.New("model not trained")
	ErrUnknownModel  = errors.New("unknown model kind")
)

func errorf(prefix string, err error) error {
	return fmt.Errorf("%s: %w", prefix, err)
}

// Model is a generic supervised learning interface. Classifiers receive
// integer class labels encoded as float64 and predict them the same way.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Classifier optionally exposes class probabilities, one row per sample,
// columns aligned with Classes().
type Classifier interface {
	Model
	Classes() []int
	PredictProba(X [][]float64) [][]float64
}

// Importancer is implemented by models reporting normalized feature importances.
type Importancer interface {
	FeatureImportances() []float64
}

// Kind names a model implementation.
type Kind string

const (
	KindLinear           Kind = "linear_regression"
	KindDecisionTree     Kind = "decision_tree"
	KindRandomForest     Kind = "random_forest"
	KindKNN              Kind = "knn"
	KindTreeClassifier   Kind = "decision_tree_classifier"
	KindForestClassifier Kind = "random_forest_classifier"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindLinear, KindDecisionTree, KindRandomForest, KindKNN, KindTreeClassifier, KindForestClassifier}

// RegressionKinds are the kinds compared by a productivity benchmark.
var RegressionKinds = []Kind{KindLinear, KindDecisionTree, KindRandomForest, KindKNN}

// ParseKind validates s against Kinds.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// IsClassifier reports whether the kind predicts class labels.
func (k Kind) IsClassifier() bool {
	return k == KindTreeClassifier || k == KindForestClassifier
}

// Params is the union of hyperparameters across kinds. Zero values pick
// each model's default.
type Params struct {
	Seed            int64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Estimators      int
	Neighbors       int
	LearningRate    float64
	Epochs          int
	BatchSize       int
}

// New builds an untrained model of the given kind.
func New(kind Kind, p Params) (Model, error) {
	var treeOpts []Option
	treeOpts = append(treeOpts, WithRandomState(p.Seed))
	if p.MaxDepth > 0 {
		treeOpts = append(treeOpts, WithMaxDepth(p.MaxDepth))
	}
	if p.MinSamplesSplit > 0 {
		treeOpts = append(treeOpts, WithMinSamplesSplit(p.MinSamplesSplit))
	}
	if p.MinSamplesLeaf > 0 {
		treeOpts = append(treeOpts, WithMinSamplesLeaf(p.MinSamplesLeaf))
	}

	switch kind {
	case KindLinear:
		m := NewLinearRegression(p.Seed)
		if p.LearningRate > 0 {
			m.Lr = p.LearningRate
		}
		if p.Epochs > 0 {
			m.Epochs = p.Epochs
		}
		if p.BatchSize > 0 {
			m.BatchSize = p.BatchSize
		}
		return m, nil
	case KindDecisionTree:
		return NewDecisionTreeRegressor(treeOpts...), nil
	case KindTreeClassifier:
		return NewDecisionTreeClassifier(treeOpts...), nil
	case KindRandomForest:
		return NewRandomForestRegressor(forestOpts(p, treeOpts)...), nil
	case KindForestClassifier:
		return NewRandomForestClassifier(forestOpts(p, treeOpts)...), nil
	case KindKNN:
		k := p.Neighbors
		if k <= 0 {
			k = 5
		}
		return NewKNNRegressor(k), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, kind)
}

func forestOpts(p Params, treeOpts []Option) []ForestOption {
	opts := []ForestOption{WithTreeOptions(treeOpts...)}
	if p.Estimators > 0 {
		opts = append(opts, WithNEstimators(p.Estimators))
	}
	return opts
}
