package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/reactless/internal/cli"
	"github.com/aretw0/reactless/internal/presentation/tui"
)

var rootCmd = &cobra.Command{
	Use:   "reactless",
	Short: "reactless is an incremental UI reconciliation engine",
	Long: `reactless renders declarative element documents (YAML or JSON) into a host tree,
splitting the work into small time-budgeted slices and committing every change at once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log every render pass to stderr")
	rootCmd.PersistentFlags().Bool("json", false, "Write log records as JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) cli.GlobalOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	return cli.GlobalOptions{
		Debug: debug,
		JSON:  jsonLogs,
		Color: !noColor && tui.IsTerminal(os.Stdout),
	}
}
