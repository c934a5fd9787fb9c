package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "focusflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, session.DefaultSubject, cfg.Dataset.Subject)
	assert.Equal(t, 5*time.Minute, cfg.Dataset.Interval)
	assert.Equal(t, string(model.KindDecisionTree), cfg.Training.Model)
	assert.Equal(t, 0.2, cfg.Training.TestRatio)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Len(t, cfg.Dashboard.Subjects, 5)

	g, err := cfg.Dataset.Generator()
	require.NoError(t, err)
	assert.Equal(t, 300, g.Total())
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, `
logging:
  level: debug
dataset:
  output: out/sessions.csv
  subject: maths
  interval: 10m
  seed: 9
  distribution:
    distracted: 2
    semi-attentive: 0
    attentive: 1
training:
  model: random_forest
  features: [duration_minutes, tab_switches]
  estimators: 25
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "out/sessions.csv", cfg.Dataset.Output)
	assert.Equal(t, 10*time.Minute, cfg.Dataset.Interval)
	assert.Equal(t, []string{"duration_minutes", "tab_switches"}, cfg.Training.Features)
	assert.Equal(t, 25, cfg.Training.Estimators)
	// untouched keys keep their defaults
	assert.Equal(t, 0.2, cfg.Training.TestRatio)
	assert.Equal(t, "visuals", cfg.Outputs.VisualsDir)

	g, err := cfg.Dataset.Generator()
	require.NoError(t, err)
	records := g.Generate()
	require.Len(t, records, 3)
	assert.Equal(t, "maths", records[0].Subject)
	assert.Equal(t, 10*time.Minute, records[1].Timestamp.Sub(records[0].Timestamp))
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFromFile(writeFile(t, "logging: [unclosed"))
	assert.ErrorContains(t, err, "parsing config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "training:\n  model: knn\n  max_depth: 4\n")
	t.Setenv("FOCUSFLOW_TRAINING_MODEL", "linear_regression")
	t.Setenv("FOCUSFLOW_TRAINING_FEATURES", "scroll_events_total,subject_encoded")
	t.Setenv("FOCUSFLOW_LOG_LEVEL", "trace")
	t.Setenv("FOCUSFLOW_DATASET_PATH", "env.csv")
	t.Setenv("FOCUSFLOW_DASHBOARD_SUBJECTS", "maths,history")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "linear_regression", cfg.Training.Model)
	assert.Equal(t, 4, cfg.Training.MaxDepth)
	assert.Equal(t, []string{"scroll_events_total", "subject_encoded"}, cfg.Training.Features)
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "env.csv", cfg.Dataset.Output)
	assert.Equal(t, []string{"maths", "history"}, cfg.Dashboard.Subjects)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("FOCUSFLOW_TRAINING_TEST_RATIO", "lots")
	_, err := Load(writeFile(t, ""))
	assert.ErrorContains(t, err, "parse env:")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"model", func(c *Config) { c.Training.Model = "svm" }},
		{"test ratio", func(c *Config) { c.Training.TestRatio = 1.5 }},
		{"features", func(c *Config) { c.Training.Features = nil }},
		{"subjects", func(c *Config) { c.Dashboard.Subjects = nil }},
		{"interval", func(c *Config) { c.Dataset.Interval = 0 }},
		{"unknown category", func(c *Config) { c.Dataset.Distribution = map[string]int{"sleepy": 3} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGenerator_Ranges(t *testing.T) {
	d := Default().Dataset
	d.Distribution = map[string]int{"attentive": 4}
	d.Ranges = map[string]map[string][]int{
		"attentive": {
			"duration": {8, 12}, "tab_switches": {0, 2}, "keystrokes": {200, 320},
			"mouse_moves": {180, 250}, "inactivity": {0, 1}, "scrolls": {100, 180},
			"productivity": {90, 90},
		},
	}
	g, err := d.Generator()
	require.NoError(t, err)
	for _, r := range g.Generate() {
		assert.Equal(t, 90, r.ProductivityScore)
	}

	d.Ranges["attentive"]["duration"] = []int{8}
	_, err = d.Generator()
	assert.ErrorIs(t, err, session.ErrConfiguration)

	d.Ranges["attentive"]["duration"] = []int{12, 8}
	_, err = d.Generator()
	assert.ErrorIs(t, err, session.ErrConfiguration)
}
