package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dashboard"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
)

func newPredictCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the productivity score of one planned session",
		Long: `Predict the productivity score of one planned session with a saved
regression model. Scores are clamped to 10-100.

Examples:
  focusflow predict --duration 45 --tab-switches 2 --subject maths`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := a.cfg.Training.ModelPath
			overrideString(cmd, "model", &modelPath)

			p, err := loadPredictor(modelPath)
			if err != nil {
				return err
			}
			in := dashboard.Input{}
			in.DurationMinutes, _ = cmd.Flags().GetInt("duration")
			in.TabSwitches, _ = cmd.Flags().GetInt("tab-switches")
			in.KeystrokeRate, _ = cmd.Flags().GetInt("keystroke-rate")
			in.MouseMovements, _ = cmd.Flags().GetInt("mouse-movements")
			in.InactivityPeriods, _ = cmd.Flags().GetInt("inactivity")
			in.ScrollEvents, _ = cmd.Flags().GetInt("scroll-events")
			in.Subject, _ = cmd.Flags().GetString("subject")

			score, err := p.Predict(in)
			if err != nil {
				return err
			}
			a.log.Debug("predicted", "subject", in.Subject, "duration", in.DurationMinutes, "score", score)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Productivity Score: %.1f/100\n", score)
			fmt.Fprintf(out, "Focus Level: %s\n", dashboard.FocusLevel(score))
			for _, s := range dashboard.Insights(in, score) {
				fmt.Fprintf(out, "- %s\n", s)
			}
			return nil
		},
	}
	cmd.Flags().String("model", "", "Model bundle path")
	cmd.Flags().Int("duration", 30, "Session duration in minutes")
	cmd.Flags().Int("tab-switches", 5, "Tab switches")
	cmd.Flags().Int("keystroke-rate", 10, "Keystrokes per minute")
	cmd.Flags().Int("mouse-movements", 150, "Mouse movements")
	cmd.Flags().Int("inactivity", 2, "Inactivity periods")
	cmd.Flags().Int("scroll-events", 50, "Scroll events")
	cmd.Flags().String("subject", dashboard.DefaultSubjects[0], "Subject")
	return cmd
}

func loadPredictor(path string) (*dashboard.Predictor, error) {
	b, err := pipeline.LoadBundle(path)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'focusflow train' first)", err)
	}
	return dashboard.NewPredictor(b)
}
