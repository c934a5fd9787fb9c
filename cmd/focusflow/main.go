package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/config"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/logging"
)

var version = "0.1.0-dev"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	runLog *logging.RunLog
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "focusflow",
		Short: "Synthetic study-session data and productivity models",
		Long: `focusflow generates synthetic study-session datasets, trains models that
predict productivity or focus from behavioural metrics, and renders the
results as charts, CSV exports and an interactive terminal dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.runLog.Close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(a),
		newDescribeCmd(a),
		newTrainCmd(a),
		newBenchmarkCmd(a),
		newExportCmd(a),
		newImportanceCmd(a),
		newVisualizeCmd(a),
		newPredictCmd(a),
		newDashboardCmd(a),
		newRunCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	overrideString(cmd, "log-level", &cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.log = logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	runLog, err := logging.OpenRunLog(cfg.Logging.RunLog)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	a.runLog = runLog
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "focusflow version %s\n", version)
		},
	}
}

// ensureParent creates the directory that will hold path.
func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func overrideInt64(cmd *cobra.Command, name string, dst *int64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt64(name)
	}
}

func overrideFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetFloat64(name)
	}
}
