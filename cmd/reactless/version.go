package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/reactless"
	"github.com/aretw0/reactless/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of reactless",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(os.Stdout, tui.NewPrinter(os.Stdout, globalOptions(cmd).Color).Profile(), reactless.Version)
			return
		}
		fmt.Printf("reactless version %s\n", reactless.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner with the version")
}
