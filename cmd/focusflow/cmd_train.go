package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/config"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

func newTrainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model on a session dataset and save it",
		Long: `Train a model on a session dataset, score it on a held-out split and save
the model bundle (model, subject encoding, feature names) for later use.

Regression models predict productivity_score. Classifiers predict
focus_classification.

Examples:
  focusflow train                                         # decision tree, productivity_score
  focusflow train --model random_forest --estimators 200
  focusflow train --model random_forest_classifier --target focus_classification --cv 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := a.cfg.Training
			applyTrainingFlags(cmd, &t)
			res, f, err := train(a, t)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printMetrics(out, res)
			fmt.Fprintf(out, "Model saved to %s\n", t.ModelPath)

			if k, _ := cmd.Flags().GetInt("cv"); k > 0 {
				cv, err := pipeline.CrossValidate(t.Pipeline(), f, k)
				if err != nil {
					return err
				}
				a.log.Info("cross-validated", "model", cv.Model, "folds", k, "mean", cv.Mean, "std", cv.Std)
				fmt.Fprintf(out, "Cross-validation (%d folds): %.3f ± %.3f\n", k, cv.Mean, cv.Std)
			}
			return nil
		},
	}
	addTrainingFlags(cmd)
	cmd.Flags().Int("cv", 0, "Also run k-fold cross-validation with this many folds")
	return cmd
}

// train fits the configured model, saves its bundle to t.ModelPath and
// records the run.
func train(a *app, t config.TrainingConfig) (*pipeline.Result, *data.Frame, error) {
	cfg := t.Pipeline()
	f, err := data.ReadFrame(cfg.DatasetPath)
	if err != nil {
		return nil, nil, err
	}
	a.log.Info("training", "dataset", cfg.DatasetPath, "rows", f.Len(), "model", cfg.Model, "target", cfg.Target)
	res, err := pipeline.TrainFrame(cfg, f)
	if err != nil {
		return nil, nil, err
	}
	for _, imp := range res.Imputed {
		a.log.Warn("imputed missing cells", "column", imp.Column, "missing", imp.Missing,
			"strategy", imp.Strategy, "value", imp.Value)
	}
	m := res.Metrics
	a.log.Info("trained", "model", cfg.Model, "train_rows", res.TrainRows, "test_rows", res.TestRows,
		"mae", m.MAE, "r2", m.R2, "accuracy", m.Accuracy)

	if err := ensureParent(t.ModelPath); err != nil {
		return nil, nil, err
	}
	if err := pipeline.SaveBundle(t.ModelPath, res.Bundle); err != nil {
		return nil, nil, err
	}
	a.log.Debug("bundle saved", "path", t.ModelPath)

	if err := a.runLog.Log(map[string]any{
		"event":    "train",
		"dataset":  cfg.DatasetPath,
		"model":    string(cfg.Model),
		"target":   cfg.Target,
		"seed":     cfg.Seed,
		"mae":      m.MAE,
		"mse":      m.MSE,
		"r2":       m.R2,
		"accuracy": m.Accuracy,
	}); err != nil {
		a.log.Warn("run log write failed", "err", err)
	}
	return res, f, nil
}

func printMetrics(w io.Writer, res *pipeline.Result) {
	b := res.Bundle
	m := res.Metrics
	fmt.Fprintf(w, "Model: %s  Target: %s  Train/Test: %d/%d\n", b.Kind, b.Target, res.TrainRows, res.TestRows)
	if !b.Kind.IsClassifier() {
		fmt.Fprintf(w, "MAE:  %.3f\nMSE:  %.3f\nRMSE: %.3f\nR²:   %.3f\n", m.MAE, m.MSE, m.RMSE, m.R2)
		return
	}
	fmt.Fprintf(w, "Accuracy: %.3f\n", m.Accuracy)
	if b.Target != session.ColFocus {
		return
	}
	k := len(session.Categories)
	cm := model.ConfusionMatrix(res.Actual, res.Predicted, k)
	headers := []string{"actual / predicted"}
	for _, c := range session.Categories {
		headers = append(headers, c.String())
	}
	tbl := table.New().Headers(headers...)
	for i, c := range session.Categories {
		row := []string{c.String()}
		for j := 0; j < k; j++ {
			row = append(row, strconv.Itoa(cm[i][j]))
		}
		tbl.Row(row...)
	}
	fmt.Fprintln(w, tbl.Render())
}

func addTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().String("dataset", "", "Dataset CSV path")
	cmd.Flags().String("model", "", "Model kind: "+kindList())
	cmd.Flags().String("target", "", "Target column")
	cmd.Flags().StringSlice("features", nil, "Feature columns (subject_encoded derives from subject)")
	cmd.Flags().Float64("test-ratio", 0, "Share of rows held out for testing")
	cmd.Flags().Int64("seed", 0, "Split and model seed")
	cmd.Flags().Int("max-depth", 0, "Tree depth limit")
	cmd.Flags().Int("min-samples-split", 0, "Minimum rows to split a node")
	cmd.Flags().Int("min-samples-leaf", 0, "Minimum rows in a leaf")
	cmd.Flags().Int("estimators", 0, "Trees in a forest")
	cmd.Flags().String("out", "", "Model bundle output path")
}

func applyTrainingFlags(cmd *cobra.Command, t *config.TrainingConfig) {
	overrideString(cmd, "dataset", &t.Dataset)
	overrideString(cmd, "model", &t.Model)
	overrideString(cmd, "target", &t.Target)
	if cmd.Flags().Changed("features") {
		t.Features, _ = cmd.Flags().GetStringSlice("features")
	}
	overrideFloat(cmd, "test-ratio", &t.TestRatio)
	overrideInt64(cmd, "seed", &t.Seed)
	overrideInt(cmd, "max-depth", &t.MaxDepth)
	overrideInt(cmd, "min-samples-split", &t.MinSamplesSplit)
	overrideInt(cmd, "min-samples-leaf", &t.MinSamplesLeaf)
	overrideInt(cmd, "estimators", &t.Estimators)
	overrideString(cmd, "out", &t.ModelPath)
}

func kindList() string {
	s := ""
	for i, k := range model.Kinds {
		if i > 0 {
			s += ", "
		}
		s += string(k)
	}
	return s
}
