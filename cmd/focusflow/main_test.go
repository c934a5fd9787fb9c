package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/store"
)

// writeConfig points every output of the CLI into dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := `logging:
  level: debug
  run_log: ` + filepath.Join(dir, "runs.jsonl") + `
dataset:
  output: ` + filepath.Join(dir, "data.csv") + `
  seed: 42
training:
  dataset: ` + filepath.Join(dir, "data.csv") + `
  model_path: ` + filepath.Join(dir, "models", "model.gob") + `
outputs:
  predictions: ` + filepath.Join(dir, "out", "preds.csv") + `
  visuals_dir: ` + filepath.Join(dir, "visuals") + `
  database: ` + filepath.Join(dir, "db", "focus.db") + `
`
	path := filepath.Join(dir, "focusflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "focusflow version "+version+"\n", out)
}

func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, logs, err := execute(t, "--config", cfg, "generate", "--store")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 300 sessions")
	assert.Contains(t, out, "distracted")
	assert.Contains(t, logs, "dataset written")

	st, err := store.Open(context.Background(), filepath.Join(dir, "db", "focus.db"))
	require.NoError(t, err)
	stored, err := st.LoadSessions(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 300)
	require.NoError(t, st.Close())

	out, _, err = execute(t, "--config", cfg, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "Rows: 300")

	out, _, err = execute(t, "--config", cfg, "train")
	require.NoError(t, err)
	assert.Contains(t, out, "Model: decision_tree")
	assert.Contains(t, out, "R²")
	assert.FileExists(t, filepath.Join(dir, "models", "model.gob"))
	assert.Equal(t, 1, countLines(t, filepath.Join(dir, "runs.jsonl")))

	out, _, err = execute(t, "--config", cfg, "export", "--store")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 300 predictions")
	f, err := data.ReadFrame(filepath.Join(dir, "out", "preds.csv"))
	require.NoError(t, err)
	assert.Equal(t, 300, f.Len())
	assert.True(t, f.Has("predicted_score"))

	out, _, err = execute(t, "--config", cfg, "importance")
	require.NoError(t, err)
	assert.Contains(t, out, "feature")

	out, _, err = execute(t, "--config", cfg, "predict", "--duration", "90", "--tab-switches", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Productivity Score:")
	assert.Contains(t, out, "High tab switching")
	assert.Contains(t, out, "Long session")

	out, _, err = execute(t, "--config", cfg, "visualize")
	require.NoError(t, err)
	for _, name := range []string{chartFocusDistribution, chartProductivity, chartFocusBySubject, chartActualVsPredicted, chartImportance} {
		assert.FileExists(t, filepath.Join(dir, "visuals", name))
		assert.Contains(t, out, name)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, _, err := execute(t, "--config", cfg, "generate")
	require.NoError(t, err)
	out, _, err := execute(t, "--config", cfg, "run", "--model", "random_forest", "--estimators", "10")
	require.NoError(t, err)
	for _, step := range []string{"== train", "== export", "== importance", "== visualize"} {
		assert.Contains(t, out, step)
	}
	assert.FileExists(t, filepath.Join(dir, "out", "preds.csv"))
	assert.FileExists(t, filepath.Join(dir, "visuals", chartImportance))
}

func TestTrainFocusClassifierWithCV(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, _, err := execute(t, "--config", cfg, "generate")
	require.NoError(t, err)
	out, _, err := execute(t, "--config", cfg, "train",
		"--model", "decision_tree_classifier", "--target", "focus_classification", "--cv", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Accuracy:")
	assert.Contains(t, out, "semi-attentive")
	assert.Contains(t, out, "Cross-validation (3 folds)")

	_, _, err = execute(t, "--config", cfg, "predict")
	assert.Error(t, err, "classifier bundles cannot score sessions")
}

func TestBenchmark(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, _, err := execute(t, "--config", cfg, "generate")
	require.NoError(t, err)
	out, _, err := execute(t, "--config", cfg, "benchmark", "--models", "decision_tree,knn")
	require.NoError(t, err)
	assert.Contains(t, out, "decision_tree")
	assert.Contains(t, out, "knn")
	assert.Equal(t, 2, countLines(t, filepath.Join(dir, "runs.jsonl")))
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"bad log level", []string{"--config", cfg, "--log-level", "loud", "describe"}},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.yaml"), "describe"}},
		{"unknown model", []string{"--config", cfg, "benchmark", "--models", "svm"}},
		{"missing dataset", []string{"--config", cfg, "train"}},
		{"missing model", []string{"--config", cfg, "predict"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	require.NoError(t, sc.Err())
	return n
}
