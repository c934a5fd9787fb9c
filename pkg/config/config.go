// Package config loads focusflow settings.
// Order: defaults -> YAML file -> FOCUSFLOW_* environment variables. The CLI
// applies its flags on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/logging"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "focusflow.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOCUSFLOW_"

// Config contains all focusflow settings.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envPrefix:"LOG_"`
	Dataset   DatasetConfig   `yaml:"dataset" envPrefix:"DATASET_"`
	Training  TrainingConfig  `yaml:"training" envPrefix:"TRAINING_"`
	Outputs   OutputsConfig   `yaml:"outputs" envPrefix:"OUTPUT_"`
	Dashboard DashboardConfig `yaml:"dashboard" envPrefix:"DASHBOARD_"`
}

type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`

	// RunLog, when set, receives one JSON line per train/benchmark run.
	RunLog string `yaml:"run_log" env:"RUN_LOG"`
}

// DatasetConfig drives the session generator.
type DatasetConfig struct {
	Output   string        `yaml:"output" env:"PATH"`
	Subject  string        `yaml:"subject" env:"SUBJECT"`
	BaseTime time.Time     `yaml:"base_time" env:"BASE_TIME"`
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`

	// Seed 0 draws a time-based seed.
	Seed int64 `yaml:"seed" env:"SEED"`

	// Distribution maps category name to session count. Empty uses the default 120/114/66.
	Distribution map[string]int `yaml:"distribution"`

	// Ranges maps category -> feature -> [low, high]. Empty uses the default table.
	Ranges map[string]map[string][]int `yaml:"ranges"`
}

type TrainingConfig struct {
	Dataset         string   `yaml:"dataset" env:"DATASET"`
	Features        []string `yaml:"features" env:"FEATURES" envSeparator:","`
	Target          string   `yaml:"target" env:"TARGET"`
	Model           string   `yaml:"model" env:"MODEL"`
	TestRatio       float64  `yaml:"test_ratio" env:"TEST_RATIO"`
	Seed            int64    `yaml:"seed" env:"SEED"`
	MaxDepth        int      `yaml:"max_depth" env:"MAX_DEPTH"`
	MinSamplesSplit int      `yaml:"min_samples_split" env:"MIN_SAMPLES_SPLIT"`
	MinSamplesLeaf  int      `yaml:"min_samples_leaf" env:"MIN_SAMPLES_LEAF"`
	Estimators      int      `yaml:"estimators" env:"ESTIMATORS"`
	ModelPath       string   `yaml:"model_path" env:"MODEL_PATH"`
}

type OutputsConfig struct {
	Predictions string `yaml:"predictions" env:"PREDICTIONS"`
	VisualsDir  string `yaml:"visuals_dir" env:"VISUALS_DIR"`
	Database    string `yaml:"database" env:"DATABASE"`
}

type DashboardConfig struct {
	Subjects []string `yaml:"subjects" env:"SUBJECTS" envSeparator:","`
}

// Default returns a Config reproducing the reference dataset and model.
func Default() *Config {
	p := pipeline.DefaultConfig()
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Dataset: DatasetConfig{
			Output:   "ml_focus_dataset.csv",
			Subject:  session.DefaultSubject,
			BaseTime: session.DefaultBaseTime,
			Interval: session.DefaultInterval,
		},
		Training: TrainingConfig{
			Dataset:         "ml_focus_dataset.csv",
			Features:        dataprep.DefaultFeatures(),
			Target:          p.Target,
			Model:           string(p.Model),
			TestRatio:       p.TestRatio,
			Seed:            p.Seed,
			MaxDepth:        p.MaxDepth,
			MinSamplesSplit: p.MinSamplesSplit,
			MinSamplesLeaf:  p.MinSamplesLeaf,
			Estimators:      p.Estimators,
			ModelPath:       "focus_model.gob",
		},
		Outputs: OutputsConfig{
			Predictions: "outputs/predictions_comparison.csv",
			VisualsDir:  "visuals",
			Database:    "focusflow.db",
		},
		Dashboard: DashboardConfig{
			Subjects: []string{"ai-ml-course", "maths", "web-dev", "cs-theory", "history"},
		},
	}
}

// Load reads path (or DefaultFile when path is empty and the file exists)
// over the defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file on top of Default.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with FOCUSFLOW_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q (valid: trace, debug, info, warn, error)", c.Logging.Level)
	}
	if _, err := c.Dataset.Generator(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if err := c.Training.Pipeline().Validate(); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	if len(c.Dashboard.Subjects) == 0 {
		return errors.New("dashboard: no subjects")
	}
	return nil
}

// Generator builds the session generator described by d.
func (d DatasetConfig) Generator() (*session.Generator, error) {
	dist := session.DefaultDistribution()
	if len(d.Distribution) > 0 {
		dist = session.Distribution{}
		for name, n := range d.Distribution {
			dist[session.FocusCategory(name)] = n
		}
	}

	ranges := session.DefaultRanges()
	if len(d.Ranges) > 0 {
		ranges = session.RangeTable{}
		for name, features := range d.Ranges {
			table := session.Ranges{}
			for feature, bounds := range features {
				if len(bounds) != 2 {
					return nil, &session.ConfigurationError{
						Category: session.FocusCategory(name),
						Feature:  session.Feature(feature),
						Reason:   fmt.Sprintf("range needs [low, high], got %v", bounds),
					}
				}
				table[session.Feature(feature)] = session.Range{Low: bounds[0], High: bounds[1]}
			}
			ranges[session.FocusCategory(name)] = table
		}
	}

	opts := []session.Option{
		session.WithSubject(d.Subject),
		session.WithBaseTime(d.BaseTime),
		session.WithInterval(d.Interval),
	}
	if d.Seed != 0 {
		opts = append(opts, session.WithSeed(d.Seed))
	}
	return session.Configure(dist, ranges, opts...)
}

// Pipeline converts t into a training pipeline config.
func (t TrainingConfig) Pipeline() pipeline.Config {
	return pipeline.Config{
		DatasetPath:     t.Dataset,
		Features:        append([]string(nil), t.Features...),
		Target:          t.Target,
		Model:           model.Kind(t.Model),
		TestRatio:       t.TestRatio,
		Seed:            t.Seed,
		MaxDepth:        t.MaxDepth,
		MinSamplesSplit: t.MinSamplesSplit,
		MinSamplesLeaf:  t.MinSamplesLeaf,
		Estimators:      t.Estimators,
	}
}
