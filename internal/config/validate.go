package config

import "fmt"

// Validate checks a loaded configuration for values that would break a
// build in confusing ways later.
func Validate(cfg *Config) error {
	if cfg.Paths.Source == "" {
		return fmt.Errorf("paths.source must not be empty")
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if cfg.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", cfg.Watch.DebounceMs)
	}
	if cfg.Storage.ParseCacheSize <= 0 {
		return fmt.Errorf("storage.parse_cache_size must be positive, got %d", cfg.Storage.ParseCacheSize)
	}
	for i, lc := range cfg.Languages {
		if lc.Name == "" {
			return fmt.Errorf("languages[%d]: name must not be empty", i)
		}
		for _, bc := range lc.BlockComments {
			if bc.Open == "" || bc.Close == "" {
				return fmt.Errorf("language %q: block comments need both open and close", lc.Name)
			}
		}
	}
	return nil
}
