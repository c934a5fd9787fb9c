package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
)

func newBenchmarkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare model kinds on the same train/test split",
		Long: `Compare model kinds on the same train/test split.

Examples:
  focusflow benchmark                                    # every regression model
  focusflow benchmark --models decision_tree,knn`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := a.cfg.Training
			applyTrainingFlags(cmd, &t)
			names, _ := cmd.Flags().GetStringSlice("models")
			var kinds []model.Kind
			for _, n := range names {
				k, err := model.ParseKind(n)
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			}

			cfg := t.Pipeline()
			f, err := data.ReadFrame(cfg.DatasetPath)
			if err != nil {
				return err
			}
			rows, err := pipeline.Benchmark(cfg, f, kinds)
			if err != nil {
				return err
			}

			tbl := table.New().Headers("model", "MAE", "MSE", "RMSE", "R²", "accuracy")
			for _, r := range rows {
				m := r.Metrics
				acc := "-"
				if r.Model.IsClassifier() {
					acc = fmt.Sprintf("%.3f", m.Accuracy)
				}
				tbl.Row(string(r.Model), f3(m.MAE), f3(m.MSE), f3(m.RMSE), f3(m.R2), acc)
				a.log.Info("benchmarked", "model", r.Model, "mae", m.MAE, "r2", m.R2)
				if err := a.runLog.Log(map[string]any{
					"event":   "benchmark",
					"dataset": cfg.DatasetPath,
					"model":   string(r.Model),
					"mae":     m.MAE,
					"r2":      m.R2,
				}); err != nil {
					a.log.Warn("run log write failed", "err", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return nil
		},
	}
	addTrainingFlags(cmd)
	cmd.Flags().StringSlice("models", nil, "Model kinds to compare (default: every regression model)")
	return cmd
}

func f3(v float64) string { return fmt.Sprintf("%.3f", v) }
