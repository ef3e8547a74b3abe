package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scribedocs/scribe/internal/config"
)

const defaultConfigFile = `# Scribe project configuration.
# Every setting here can also come from the environment with a SCRIBE_ prefix,
# e.g. SCRIBE_OUTPUT_DIR overrides output.dir.

project:
  title: Documentation
  # subtitle: ""

paths:
  source: .
  ignore:
    - "node_modules/**"
    - "vendor/**"
    - "dist/**"
    - "build/**"
    - "target/**"

output:
  dir: docs
  menu: .scribe/menu.yml

# Per-language overrides. Built-in languages can be extended and new ones
# added; an entry replaces the built-in definition of the same name.
# languages:
#   - name: mylang
#     extensions: [ml, mli]
#     line_comments: ["#"]

watch:
  debounce_ms: 500

search:
  enabled: true
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .scribe directory with a default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		dir := filepath.Join(root, config.ConfigDirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		cfgPath := filepath.Join(dir, "config.yml")
		if _, err := os.Stat(cfgPath); err == nil {
			return fmt.Errorf("%s already exists", cfgPath)
		}
		if err := os.WriteFile(cfgPath, []byte(defaultConfigFile), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfgPath, err)
		}

		fmt.Printf("✓ Initialized %s\n", dir)
		fmt.Println("  Edit .scribe/config.yml, then run 'scribe build'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
