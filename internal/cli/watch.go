package cli

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scribedocs/scribe/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild documentation whenever source files change",
	Long: `Watch performs an initial build, then monitors the source tree and
rebuilds incrementally after each burst of changes. Stop with Ctrl-C.`,
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

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err := e.buildOnce(ctx, nil); err != nil {
			return err
		}

		w, err := watcher.New(
			sourceRoot(root, e.cfg),
			e.registry.Extensions(),
			time.Duration(e.cfg.Watch.DebounceMs)*time.Millisecond,
		)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Stop()

		rebuilds := make(chan []string, 1)
		w.Start(ctx, func(files []string) {
			rebuilds <- files
		})

		if !quiet {
			fmt.Println("Watching for changes. Press Ctrl-C to stop.")
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case files := <-rebuilds:
				// Hold further batches while this one builds.
				w.Pause()
				cs, err := e.buildOnce(ctx, files)
				w.Resume()
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					log.Printf("Rebuild failed: %v", err)
					continue
				}
				if !quiet && cs.HasChanges() {
					fmt.Printf("✓ Rebuilt: %d added, %d modified, %d deleted\n",
						len(cs.Added), len(cs.Modified), len(cs.Deleted))
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
