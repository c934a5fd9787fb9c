package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/store"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset with model predictions and errors",
		Long: `Apply a saved model to every row of a dataset and write the rows with
predicted_score and prediction_error columns appended.

Examples:
  focusflow export
  focusflow export --model focus_model.gob -o outputs/preds.csv --store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := a.cfg.Training.ModelPath
			dataset := a.cfg.Training.Dataset
			output := a.cfg.Outputs.Predictions
			overrideString(cmd, "model", &modelPath)
			overrideString(cmd, "dataset", &dataset)
			overrideString(cmd, "output", &output)

			b, err := pipeline.LoadBundle(modelPath)
			if err != nil {
				return err
			}
			f, err := data.ReadFrame(dataset)
			if err != nil {
				return err
			}
			n, err := exportPredictions(a, b, f, output)
			if err != nil {
				return err
			}
			if save, _ := cmd.Flags().GetBool("store"); save {
				if err := storePredictions(cmd, a, b, f); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d predictions to %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().String("model", "", "Model bundle path")
	cmd.Flags().String("dataset", "", "Dataset CSV path")
	cmd.Flags().StringP("output", "o", "", "Output CSV path")
	cmd.Flags().Bool("store", false, "Also save the predictions into the sqlite store")
	return cmd
}

func exportPredictions(a *app, b *pipeline.Bundle, f *data.Frame, output string) (int, error) {
	out, err := pipeline.ExportPredictions(b, f)
	if err != nil {
		return 0, err
	}
	if err := ensureParent(output); err != nil {
		return 0, err
	}
	if err := data.WriteFrame(output, out); err != nil {
		return 0, err
	}
	a.log.Info("predictions exported", "path", output, "rows", out.Len(), "model", b.Kind)
	return out.Len(), nil
}

func storePredictions(cmd *cobra.Command, a *app, b *pipeline.Bundle, f *data.Frame) error {
	ids, err := f.Strings(session.ColSessionID)
	if err != nil {
		return err
	}
	X, err := b.Matrix(f)
	if err != nil {
		return err
	}
	actual, err := pipeline.Target(f, b.Target)
	if err != nil {
		return err
	}
	pred := b.Predict(X)
	rows := make([]store.Prediction, len(ids))
	for i, id := range ids {
		rows[i] = store.Prediction{SessionID: id, Model: string(b.Kind), Predicted: pred[i], Actual: actual[i]}
	}

	path := a.cfg.Outputs.Database
	if err := ensureParent(path); err != nil {
		return err
	}
	st, err := store.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SavePredictions(cmd.Context(), rows); err != nil {
		return err
	}
	a.log.Info("predictions stored", "db", path, "rows", len(rows), "model", b.Kind)
	return nil
}
