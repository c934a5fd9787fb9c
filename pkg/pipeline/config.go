package pipeline

import (
	"errors"
	"fmt"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// Config selects the dataset, columns, model and split of one training run.
type Config struct {
	DatasetPath     string
	Features        []string
	Target          string
	Model           model.Kind
	TestRatio       float64
	Seed            int64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Estimators      int
}

// DefaultConfig trains a depth-10 decision tree on productivity_score with
// an 80/20 split seeded with 42.
func DefaultConfig() Config {
	return Config{
		Features:        dataprep.DefaultFeatures(),
		Target:          session.ColProductivity,
		Model:           model.KindDecisionTree,
		TestRatio:       0.2,
		Seed:            42,
		MaxDepth:        10,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Estimators:      100,
	}
}

func (c Config) Validate() error {
	if len(c.Features) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidConfig)
	}
	if c.Target == "" {
		return fmt.Errorf("%w: no target", ErrInvalidConfig)
	}
	for _, f := range c.Features {
		if f == c.Target {
			return fmt.Errorf("%w: target %q is also a feature", ErrInvalidConfig, f)
		}
	}
	if _, err := model.ParseKind(string(c.Model)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return fmt.Errorf("%w: test ratio %v outside (0,1)", ErrInvalidConfig, c.TestRatio)
	}
	return nil
}

func (c Config) params() model.Params {
	return model.Params{
		Seed:            c.Seed,
		MaxDepth:        c.MaxDepth,
		MinSamplesSplit: c.MinSamplesSplit,
		MinSamplesLeaf:  c.MinSamplesLeaf,
		Estimators:      c.Estimators,
	}
}

func (c Config) schema() Schema {
	return Schema{Features: c.Features, Target: c.Target}
}
