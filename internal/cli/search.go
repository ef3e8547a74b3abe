package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scribedocs/scribe/internal/config"
	"github.com/scribedocs/scribe/internal/render"
	"github.com/scribedocs/scribe/internal/search"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the documented symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfigFromDir(root)
		if err != nil {
			return err
		}
		if !cfg.Search.Enabled {
			return fmt.Errorf("search is disabled in the configuration")
		}

		idx, err := search.Open(resolvePath(root, cfg.Storage.SearchIndex))
		if err != nil {
			return err
		}
		defer idx.Close()

		hits, err := idx.Query(strings.Join(args, " "), searchLimit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No results.")
			return nil
		}

		for _, h := range hits {
			name := h.Symbol
			if name == "" {
				name = h.Title
			}
			fmt.Printf("%-30s %-12s %s\n", name, h.Kind, render.PagePath(h.File))
			if h.Summary != "" {
				fmt.Printf("    %s\n", h.Summary)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
