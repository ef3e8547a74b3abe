// Package config loads the project configuration from .scribe/config.yml
// with environment variable overrides.
package config

import (
	"github.com/scribedocs/scribe/internal/lang"
)

// ConfigDirName is the per-project directory holding the config file, the
// working database, and the menu.
const ConfigDirName = ".scribe"

// Config is the complete scribe configuration for one project.
type Config struct {
	Project   ProjectConfig    `yaml:"project" mapstructure:"project"`
	Paths     PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Output    OutputConfig     `yaml:"output" mapstructure:"output"`
	Languages []LanguageConfig `yaml:"languages" mapstructure:"languages"`
	Watch     WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Search    SearchConfig     `yaml:"search" mapstructure:"search"`
	Storage   StorageConfig    `yaml:"storage" mapstructure:"storage"`
}

// ProjectConfig holds the header fields shown on every generated page.
type ProjectConfig struct {
	Title    string `yaml:"title" mapstructure:"title"`
	Subtitle string `yaml:"subtitle" mapstructure:"subtitle"`
	Footer   string `yaml:"footer" mapstructure:"footer"`
}

// PathsConfig defines where source lives and what to skip.
type PathsConfig struct {
	Source string   `yaml:"source" mapstructure:"source"` // relative to project root
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns
}

// OutputConfig defines where generated documentation goes.
type OutputConfig struct {
	Dir  string `yaml:"dir" mapstructure:"dir"`
	Menu string `yaml:"menu" mapstructure:"menu"`
}

// LanguageConfig adds or adjusts a language at startup. Zero fields leave
// the builtin definition untouched.
type LanguageConfig struct {
	Name             string               `yaml:"name" mapstructure:"name"`
	Extensions       []string             `yaml:"extensions" mapstructure:"extensions"`
	Shebangs         []string             `yaml:"shebangs" mapstructure:"shebangs"`
	LineComments     []string             `yaml:"line_comments" mapstructure:"line_comments"`
	BlockComments    []BlockCommentConfig `yaml:"block_comments" mapstructure:"block_comments"`
	FunctionEnders   []string             `yaml:"function_enders" mapstructure:"function_enders"`
	VariableEnders   []string             `yaml:"variable_enders" mapstructure:"variable_enders"`
	LineContinuation string               `yaml:"line_continuation" mapstructure:"line_continuation"`
}

// BlockCommentConfig is one open/close delimiter pair.
type BlockCommentConfig struct {
	Open  string `yaml:"open" mapstructure:"open"`
	Close string `yaml:"close" mapstructure:"close"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// SearchConfig tunes the full-text index.
type SearchConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// StorageConfig defines working-state locations, relative to the project
// root unless absolute.
type StorageConfig struct {
	Database       string `yaml:"database" mapstructure:"database"`
	SearchIndex    string `yaml:"search_index" mapstructure:"search_index"`
	ParseCacheSize int    `yaml:"parse_cache_size" mapstructure:"parse_cache_size"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Title: "Documentation",
		},
		Paths: PathsConfig{
			Source: ".",
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				"dist/**",
				"build/**",
				"target/**",
			},
		},
		Output: OutputConfig{
			Dir:  "docs",
			Menu: ConfigDirName + "/menu.yml",
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Search: SearchConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			Database:       ConfigDirName + "/scribe.db",
			SearchIndex:    ConfigDirName + "/search.bleve",
			ParseCacheSize: 4096,
		},
	}
}

// LanguageOverrides converts the configured languages to registry
// overrides.
func (c *Config) LanguageOverrides() []lang.Override {
	overrides := make([]lang.Override, 0, len(c.Languages))
	for _, lc := range c.Languages {
		ov := lang.Override{
			Name:             lc.Name,
			Extensions:       lc.Extensions,
			Shebangs:         lc.Shebangs,
			LineComments:     lc.LineComments,
			FunctionEnders:   lc.FunctionEnders,
			VariableEnders:   lc.VariableEnders,
			LineContinuation: lc.LineContinuation,
		}
		for _, bc := range lc.BlockComments {
			ov.BlockComments = append(ov.BlockComments, lang.CommentPair{
				Open:  bc.Open,
				Close: bc.Close,
			})
		}
		overrides = append(overrides, ov)
	}
	return overrides
}
