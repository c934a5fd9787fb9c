package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
)

func newDescribeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize a session dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := a.cfg.Training
			overrideString(cmd, "dataset", &t.Dataset)
			overrideString(cmd, "target", &t.Target)

			f, err := data.ReadFrame(t.Dataset)
			if err != nil {
				return err
			}
			s, err := pipeline.Describe(f, t.Target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dataset: %s\n", t.Dataset)
			fmt.Fprintf(out, "Rows: %d  Columns: %d\n", s.Rows, s.Columns)
			fmt.Fprintf(out, "Subjects: %s\n", strings.Join(s.Subjects, ", "))
			for _, c := range s.Focus {
				fmt.Fprintf(out, "  %-15s %4d (%.1f%%)\n", c.Category, c.Count, 100*float64(c.Count)/float64(max(s.Rows, 1)))
			}
			ts := s.TargetStats
			fmt.Fprintf(out, "%s: mean %.2f  std %.2f  min %.0f  max %.0f\n", s.Target, ts.Mean, ts.Std, ts.Min, ts.Max)
			if len(s.Correlations) > 0 {
				fmt.Fprintln(out, "Correlation with target:")
				for _, c := range s.Correlations {
					fmt.Fprintf(out, "  %-28s %+.3f\n", c.Feature, c.R)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("dataset", "", "Dataset CSV path")
	cmd.Flags().String("target", "", "Target column")
	return cmd
}
