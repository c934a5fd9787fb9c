package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/viz"
)

// Chart file names written by visualize.
const (
	chartFocusDistribution = "focus_distribution.png"
	chartProductivity      = "productivity_vs_scroll.png"
	chartFocusBySubject    = "focus_by_subject.png"
	chartActualVsPredicted = "actual_vs_predicted.png"
	chartImportance        = "feature_importance.png"
)

func newVisualizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Draw dataset and model charts as PNG files",
		Long: `Draw charts of a session dataset, and of a saved model when one exists:

  focus_distribution.png      sessions per focus category
  productivity_vs_scroll.png  productivity against scroll events
  focus_by_subject.png        focus categories per subject
  actual_vs_predicted.png     model predictions against the target
  feature_importance.png      tree and forest feature ranking`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := a.cfg.Training.Dataset
			dir := a.cfg.Outputs.VisualsDir
			modelPath := a.cfg.Training.ModelPath
			overrideString(cmd, "dataset", &dataset)
			overrideString(cmd, "dir", &dir)
			overrideString(cmd, "model", &modelPath)

			records, err := data.ReadSessionsCSV(dataset)
			if err != nil {
				return err
			}
			b, err := pipeline.LoadBundle(modelPath)
			if errors.Is(err, fs.ErrNotExist) {
				a.log.Warn("no model, skipping model charts", "path", modelPath)
				b = nil
			} else if err != nil {
				return err
			}

			written, err := visualize(a, records, b, dir)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().String("dataset", "", "Dataset CSV path")
	cmd.Flags().String("dir", "", "Output directory")
	cmd.Flags().String("model", "", "Model bundle path")
	return cmd
}

// visualize writes the dataset charts and, when b is not nil, the model
// charts into dir. It returns the written paths.
func visualize(a *app, records []session.Record, b *pipeline.Bundle, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	var written []string
	draw := func(name string, fn func(path string) error) error {
		path := filepath.Join(dir, name)
		if err := fn(path); err != nil {
			return err
		}
		a.log.Info("chart saved", "path", path)
		written = append(written, path)
		return nil
	}

	charts := []struct {
		name string
		fn   func([]session.Record, string) error
	}{
		{chartFocusDistribution, viz.FocusDistribution},
		{chartProductivity, viz.ProductivityVsScroll},
		{chartFocusBySubject, viz.FocusBySubject},
	}
	for _, c := range charts {
		if err := draw(c.name, func(path string) error { return c.fn(records, path) }); err != nil {
			return nil, err
		}
	}
	if b == nil {
		return written, nil
	}

	f := data.SessionFrame(records)
	X, err := b.Matrix(f)
	if err != nil {
		return nil, err
	}
	actual, err := pipeline.Target(f, b.Target)
	if err != nil {
		return nil, err
	}
	pred := b.Predict(X)
	if err := draw(chartActualVsPredicted, func(path string) error {
		return viz.ActualVsPredicted(actual, pred, path)
	}); err != nil {
		return nil, err
	}

	if _, ok := b.Model.(model.Importancer); ok {
		ranked, err := rankedImportance(b)
		if err != nil {
			return nil, err
		}
		names, values := importanceSeries(ranked)
		if err := draw(chartImportance, func(path string) error {
			return viz.FeatureImportance(names, values, path)
		}); err != nil {
			return nil, err
		}
	}
	return written, nil
}
