package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/reactless/internal/cli"
)

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Print the host mutations that turn one document into another",
	Long:  `Renders OLD, then NEW into the same container, and prints the mutations of the second commit.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunDiff(cmd.Context(), args[0], args[1], renderOptions(cmd), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().IntP("budget", "b", 8, "Units of work granted per slice")
}
