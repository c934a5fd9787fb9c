package pipeline

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/loader"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/stats"
)

// CVResult holds the per-fold scores of a k-fold cross-validation. Scores
// are accuracy for classifiers and R2 otherwise.
type CVResult struct {
	Model  model.Kind
	Folds  []Metrics
	Scores []float64
	Mean   float64
	Std    float64
}

// CrossValidate fits cfg.Model on k folds of f, each fold held out once.
// Folds are trained concurrently.
func CrossValidate(cfg Config, f *data.Frame, k int) (*CVResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ds, err := prepare(cfg, f)
	if err != nil {
		return nil, err
	}
	folds, err := loader.KFoldSplit(len(ds.y), k, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, fmt.Errorf("cross-validate: %w", err)
	}

	res := &CVResult{Model: cfg.Model, Folds: make([]Metrics, k), Scores: make([]float64, k)}
	errs := make([]error, k)
	var wg sync.WaitGroup
	for i, test := range folds {
		wg.Add(1)
		go func(i int, test []int) {
			defer wg.Done()
			s := &splitData{}
			s.XTrain, s.yTrain = loader.Take(ds.X, ds.y, loader.Complement(len(ds.y), test))
			s.XTest, s.yTest = loader.Take(ds.X, ds.y, test)
			r, err := fit(cfg, cfg.Model, ds, s)
			if err != nil {
				errs[i] = fmt.Errorf("fold %d: %w", i+1, err)
				return
			}
			res.Folds[i] = r.Metrics
			if cfg.Model.IsClassifier() {
				res.Scores[i] = r.Metrics.Accuracy
			} else {
				res.Scores[i] = r.Metrics.R2
			}
		}(i, test)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	res.Mean = stats.Mean(res.Scores)
	res.Std = stats.Std(res.Scores)
	return res, nil
}
