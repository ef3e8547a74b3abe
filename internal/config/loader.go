package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for one project root.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SCRIBE_*)
// 2. Config file (.scribe/config.yml or .scribe/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ConfigDirName)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("SCRIBE")
	v.AutomaticEnv()
	// Nested keys map to underscored env vars (SCRIBE_OUTPUT_DIR).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("project.title")
	v.BindEnv("paths.source")
	v.BindEnv("output.dir")
	v.BindEnv("output.menu")
	v.BindEnv("watch.debounce_ms")
	v.BindEnv("search.enabled")
	v.BindEnv("storage.database")
	v.BindEnv("storage.search_index")
	v.BindEnv("storage.parse_cache_size")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("project.title", defaults.Project.Title)
	v.SetDefault("project.subtitle", defaults.Project.Subtitle)
	v.SetDefault("project.footer", defaults.Project.Footer)

	v.SetDefault("paths.source", defaults.Paths.Source)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.menu", defaults.Output.Menu)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	v.SetDefault("search.enabled", defaults.Search.Enabled)

	v.SetDefault("storage.database", defaults.Storage.Database)
	v.SetDefault("storage.search_index", defaults.Storage.SearchIndex)
	v.SetDefault("storage.parse_cache_size", defaults.Storage.ParseCacheSize)
}

// LoadConfig loads configuration using the working directory as the
// project root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific project root.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
