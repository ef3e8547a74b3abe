package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the documentation incrementally",
	Long: `Build parses source files that changed since the last run, updates the
symbol table and search index, and regenerates the HTML output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}

		e, err := newEngine(root)
		if err != nil {
			return err
		}
		defer e.Close()

		cs, err := e.buildOnce(cmd.Context(), nil)
		if err != nil {
			return err
		}

		if !quiet {
			if cs.HasChanges() {
				fmt.Printf("✓ Build complete: %d added, %d modified, %d deleted (%d unchanged)\n",
					len(cs.Added), len(cs.Modified), len(cs.Deleted), len(cs.Unchanged))
			} else {
				fmt.Printf("✓ Up to date: %d files unchanged\n", len(cs.Unchanged))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
