package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train, export predictions and draw every chart",
		Long: `Run the whole workflow on an existing dataset: train and save the model,
export predictions, rank features and draw the charts.

Examples:
  focusflow generate --seed 42 && focusflow run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := a.cfg.Training
			applyTrainingFlags(cmd, &t)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "== train")
			res, f, err := train(a, t)
			if err != nil {
				return err
			}
			printMetrics(out, res)
			b := res.Bundle

			fmt.Fprintln(out, "== export")
			n, err := exportPredictions(a, b, f, a.cfg.Outputs.Predictions)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d predictions to %s\n", n, a.cfg.Outputs.Predictions)

			if _, ok := b.Model.(model.Importancer); ok {
				fmt.Fprintln(out, "== importance")
				ranked, err := rankedImportance(b)
				if err != nil {
					return err
				}
				for _, fi := range ranked {
					fmt.Fprintf(out, "  %-28s %.4f\n", fi.Feature, fi.Importance)
				}
			}

			fmt.Fprintln(out, "== visualize")
			records, err := data.ReadSessionsCSV(t.Dataset)
			if err != nil {
				return err
			}
			written, err := visualize(a, records, b, a.cfg.Outputs.VisualsDir)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintf(out, "  %s\n", filepath.ToSlash(p))
			}
			a.log.Info("run complete", "model", b.Kind, "charts", len(written))
			return nil
		},
	}
	addTrainingFlags(cmd)
	return cmd
}
