package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dashboard"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive productivity predictor",
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := a.cfg.Training.ModelPath
			overrideString(cmd, "model", &modelPath)

			p, err := loadPredictor(modelPath)
			if err != nil {
				return err
			}
			a.log.Debug("dashboard starting", "model", modelPath)
			m := dashboard.NewModel(p, a.cfg.Dashboard.Subjects)
			_, err = tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
	cmd.Flags().String("model", "", "Model bundle path")
	return cmd
}
