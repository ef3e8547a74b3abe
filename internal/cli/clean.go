package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scribedocs/scribe/internal/config"
	"github.com/scribedocs/scribe/internal/storage"
)

var cleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated output and cached parse state",
	Long: `Remove the generated site and the search index. With --all the working
database is dropped too, which forces the next build to reparse every file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfigFromDir(root)
		if err != nil {
			return err
		}

		outDir := resolvePath(root, cfg.Output.Dir)
		if err := os.RemoveAll(outDir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", outDir, err)
		}
		fmt.Printf("✓ Removed %s\n", outDir)

		idxPath := resolvePath(root, cfg.Storage.SearchIndex)
		if err := os.RemoveAll(idxPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", idxPath, err)
		}
		fmt.Printf("✓ Removed %s\n", idxPath)

		if !cleanAll {
			return nil
		}

		dbPath := resolvePath(root, cfg.Storage.Database)
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil
		}
		store, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear database: %w", err)
		}
		fmt.Printf("✓ Cleared %s\n", dbPath)
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "also clear the working database")
	rootCmd.AddCommand(cleanCmd)
}
