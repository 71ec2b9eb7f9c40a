package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"driftwood/internal/app"
	"driftwood/internal/formatting"
)

var componentsConfigPath string
var componentsLogLevel string

var componentsCmd = &cobra.Command{
	Use:   "components [component]",
	Short: "List the component graph",
	Long: `Components lists the declared components and their requirements.

With a component argument, only that component and everything that depends on
it are listed, in dependency order: a component always appears after the
components it requires. This is the order reconciliation discovers entities in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComponents,
}

func runComponents(cmd *cobra.Command, args []string) error {
	instance, err := app.Bootstrap(app.Options{
		ConfigPath: componentsConfigPath,
		LogLevel:   componentsLogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	components := instance.Graph.Components()
	if len(args) == 1 {
		components, err = instance.Graph.AllDependingOn(args[0], true)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatting.RenderComponents(components))
	return nil
}

func init() {
	rootCmd.AddCommand(componentsCmd)
	componentsCmd.Flags().StringVar(&componentsConfigPath, "config", "", "Path to driftwood.yaml or its directory")
	componentsCmd.Flags().StringVar(&componentsLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}
