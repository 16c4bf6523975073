package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/reactless/internal/cli"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render an element document and print the host tree",
	Long: `Renders the document into an in-memory host, granting --budget units of work per slice.
With --watch the document is re-rendered into the same tree on every change and the
mutations of each commit are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := renderOptions(cmd)
		opts.Path = args[0]
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Effects, _ = cmd.Flags().GetBool("effects")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Execute(sigCtx, opts, os.Stdout)
	},
}

// renderOptions reads the flags shared by render and diff.
func renderOptions(cmd *cobra.Command) cli.RenderOptions {
	budget, _ := cmd.Flags().GetInt("budget")
	return cli.RenderOptions{
		GlobalOptions: globalOptions(cmd),
		Budget:        budget,
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntP("budget", "b", 8, "Units of work granted per slice")
	renderCmd.Flags().BoolP("watch", "w", false, "Re-render on file changes")
	renderCmd.Flags().StringP("format", "f", cli.FormatTree, "Output format: tree, mermaid, fibers or json")
	renderCmd.Flags().Bool("effects", false, "Highlight commit effects on mermaid output")
}
