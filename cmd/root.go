package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeDrift indicates that check found artifacts that do not
	// match their expected content.
	ExitCodeDrift = 2
)

// rootCmd represents the base command for the driftwood application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "driftwood",
	Short: "Keep configuration artifacts aligned with their declared content",
	Long: `driftwood validates and repairs configuration artifacts on disk against
the content their components declare, without destroying local customization.
Artifacts are checked for structural containment: declared keys and items must
be present, anything extra the user added is left alone.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that
	// are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "driftwood version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var drift *DriftError
	if errors.As(err, &drift) {
		return ExitCodeDrift
	}
	return ExitCodeError
}
