package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/viz"
)

func newImportanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importance",
		Short: "Rank the features of a saved tree or forest model",
		Long: `Rank the features of a saved tree or forest model by impurity importance.

Examples:
  focusflow importance
  focusflow importance --chart visuals/feature_importance.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := a.cfg.Training.ModelPath
			overrideString(cmd, "model", &modelPath)
			chart, _ := cmd.Flags().GetString("chart")

			b, err := pipeline.LoadBundle(modelPath)
			if err != nil {
				return err
			}
			ranked, err := rankedImportance(b)
			if err != nil {
				return err
			}

			tbl := table.New().Headers("feature", "importance")
			for _, fi := range ranked {
				tbl.Row(fi.Feature, fmt.Sprintf("%.4f", fi.Importance))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

			if chart != "" {
				if err := importanceChart(a, ranked, chart); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("model", "", "Model bundle path")
	cmd.Flags().String("chart", "", "Also draw the ranking as a PNG at this path")
	return cmd
}

// rankedImportance returns the bundle's importances, most important first.
func rankedImportance(b *pipeline.Bundle) ([]pipeline.Importance, error) {
	imp, err := pipeline.FeatureImportance(b)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(imp, func(i, j int) bool { return imp[i].Importance > imp[j].Importance })
	return imp, nil
}

func importanceChart(a *app, ranked []pipeline.Importance, path string) error {
	names, values := importanceSeries(ranked)
	if err := ensureParent(path); err != nil {
		return err
	}
	if err := viz.FeatureImportance(names, values, path); err != nil {
		return err
	}
	a.log.Info("chart saved", "path", path)
	return nil
}

func importanceSeries(ranked []pipeline.Importance) ([]string, []float64) {
	names := make([]string, len(ranked))
	values := make([]float64, len(ranked))
	for i, fi := range ranked {
		names[i], values[i] = fi.Feature, fi.Importance
	}
	return names, values
}
