package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"driftwood/internal/app"
	"driftwood/internal/formatting"
	"driftwood/internal/scheduler"
	"driftwood/internal/watcher"
	"driftwood/pkg/logging"
)

// reconcileConfigPath specifies the configuration file or directory.
// When empty, driftwood.yaml is looked up in the current directory.
var reconcileConfigPath string

// reconcileLogLevel selects the log verbosity (debug, info, warn, error).
var reconcileLogLevel string

// reconcilePriorityOnly restricts the run to priority entities only.
// Useful for quick passes that skip the bulk of the artifacts.
var reconcilePriorityOnly bool

// reconcileWatch keeps the process running and re-reconciles whenever a
// managed artifact changes on disk.
var reconcileWatch bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Validate all managed artifacts and repair the ones that drifted",
	Long: `Reconcile validates every managed artifact against the content its
component declares and repairs the ones that drifted.

Artifacts are processed in descending priority order. All artifacts of a
priority tier are validated concurrently; the next tier only starts once the
previous one completed without fatal errors.

Repair is additive: declared keys and items that are missing get merged into
the artifact, keys the user added on top stay untouched. An artifact that
already existed empty is treated as an opt-out and left alone.

With --watch the process stays alive and re-runs reconciliation whenever a
managed artifact changes on disk.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	instance, err := app.Bootstrap(app.Options{
		ConfigPath: reconcileConfigPath,
		LogLevel:   reconcileLogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := reconcileOnce(ctx, instance, cmd); err != nil {
		return err
	}
	if !reconcileWatch {
		return nil
	}
	return watchAndReconcile(ctx, instance, cmd)
}

func reconcileOnce(ctx context.Context, instance *app.Instance, cmd *cobra.Command) error {
	var run *scheduler.Run
	var err error
	if reconcilePriorityOnly {
		run, err = instance.Scheduler.ValidatePriorityOnly(ctx, instance.Entities)
	} else {
		run, err = instance.Scheduler.ValidateAll(ctx, instance.Entities)
	}
	if run != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatting.RenderRun(run))
	}
	return err
}

// watchAndReconcile blocks until interrupted, re-running reconciliation for
// every change event on a managed artifact.
func watchAndReconcile(ctx context.Context, instance *app.Instance, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(0)
	w.AddEntities(instance.Entities)
	changes := make(chan watcher.Event, 16)
	if err := w.Start(ctx, changes); err != nil {
		return fmt.Errorf("failed to start artifact watcher: %w", err)
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info("Reconcile", "Watch mode stopped")
			return nil
		case event := <-changes:
			logging.Info("Reconcile", "Artifact %s changed, reconciling", event.Path)
			if err := reconcileOnce(ctx, instance, cmd); err != nil {
				// A failed run in watch mode is reported but does not
				// terminate the watch loop.
				logging.Error("Reconcile", err, "Reconciliation run failed")
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().StringVar(&reconcileConfigPath, "config", "", "Path to driftwood.yaml or its directory")
	reconcileCmd.Flags().StringVar(&reconcileLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	reconcileCmd.Flags().BoolVar(&reconcilePriorityOnly, "priority-only", false, "Only validate entities with a positive priority")
	reconcileCmd.Flags().BoolVar(&reconcileWatch, "watch", false, "Keep running and reconcile on artifact changes")
}
