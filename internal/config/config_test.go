package config

// TEST PLAN
// =========
//
// 1. Defaults load when no config file exists
// 2. A config file overrides defaults and merges with them
// 3. Environment variables beat the config file
// 4. A malformed config file is an error
// 5. Validate rejects empty output dir, negative debounce, unnamed
//    languages, and half-specified block comments
// 6. LanguageOverrides converts configured languages including comment
//    pairs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ConfigDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Documentation", cfg.Project.Title)
	assert.Equal(t, ".", cfg.Paths.Source)
	assert.Equal(t, "docs", cfg.Output.Dir)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, ConfigDirName+"/scribe.db", cfg.Storage.Database)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeConfig(t, root, `
project:
  title: My Library
paths:
  source: src
  ignore:
    - "gen/**"
output:
  dir: site
languages:
  - name: Config File
    extensions: [conf]
    line_comments: ["#"]
`)

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, "My Library", cfg.Project.Title)
	assert.Equal(t, "src", cfg.Paths.Source)
	assert.Equal(t, []string{"gen/**"}, cfg.Paths.Ignore)
	assert.Equal(t, "site", cfg.Output.Dir)
	// Unset keys keep their defaults.
	assert.Equal(t, 500, cfg.Watch.DebounceMs)

	require.Len(t, cfg.Languages, 1)
	assert.Equal(t, "Config File", cfg.Languages[0].Name)
}

func TestEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "output:\n  dir: from-file\n")
	t.Setenv("SCRIBE_OUTPUT_DIR", "from-env")

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output.Dir)
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeConfig(t, root, "output: [unclosed\n")

	_, err := LoadConfigFromDir(root)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
		{"empty source", func(c *Config) { c.Paths.Source = "" }},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }},
		{"zero cache size", func(c *Config) { c.Storage.ParseCacheSize = 0 }},
		{"unnamed language", func(c *Config) {
			c.Languages = []LanguageConfig{{Extensions: []string{"x"}}}
		}},
		{"half block comment", func(c *Config) {
			c.Languages = []LanguageConfig{{
				Name:          "X",
				BlockComments: []BlockCommentConfig{{Open: "(*"}},
			}}
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}

	assert.NoError(t, Validate(Default()))
}

func TestLanguageOverrides(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Languages = []LanguageConfig{{
		Name:           "Squirrel",
		Extensions:     []string{"nut"},
		LineComments:   []string{"//"},
		BlockComments:  []BlockCommentConfig{{Open: "/*", Close: "*/"}},
		FunctionEnders: []string{"{", ";"},
	}}

	overrides := cfg.LanguageOverrides()
	require.Len(t, overrides, 1)
	assert.Equal(t, "Squirrel", overrides[0].Name)
	assert.Equal(t, []string{"nut"}, overrides[0].Extensions)
	require.Len(t, overrides[0].BlockComments, 1)
	assert.Equal(t, "/*", overrides[0].BlockComments[0].Open)
	assert.Equal(t, "*/", overrides[0].BlockComments[0].Close)
}
