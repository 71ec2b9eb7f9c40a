package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"driftwood/internal/app"
	"driftwood/internal/formatting"
	"driftwood/internal/scheduler"
)

// DriftError is returned by check when one or more artifacts do not
// contain their expected content. It maps to ExitCodeDrift.
type DriftError struct {
	Incorrect int
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%d artifact(s) are not in their expected state", e.Incorrect)
}

var checkConfigPath string
var checkLogLevel string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report drifted artifacts without modifying anything",
	Long: `Check validates every managed artifact against the content its component
declares and reports the result. Nothing on disk is created or modified.

The exit code is 0 when all artifacts are correct, 2 when drift was found and
1 on operational errors. This makes check suitable for CI pipelines.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	instance, err := app.Bootstrap(app.Options{
		ConfigPath: checkConfigPath,
		LogLevel:   checkLogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := instance.Scheduler.CheckAll(ctx, instance.Entities)
	if run != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatting.RenderRun(run))
	}
	if err != nil {
		return err
	}

	incorrect := 0
	for _, result := range run.Results {
		if result.State != scheduler.StateCorrect {
			incorrect++
		}
	}
	if incorrect > 0 {
		return &DriftError{Incorrect: incorrect}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to driftwood.yaml or its directory")
	checkCmd.Flags().StringVar(&checkLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}
