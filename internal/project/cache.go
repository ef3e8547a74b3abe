package project

import (
	"fmt"

	"github.com/maypok86/otter"

	"github.com/scribedocs/scribe/internal/topic"
)

// ParseCache memoizes extraction results keyed by content hash. Watch-mode
// rebuilds hit it when a save reverts a file or touches only its mtime, and
// editors that write twice on save parse once. Entries are immutable once
// stored; callers must not mutate returned topics in place.
type ParseCache struct {
	cache otter.Cache[string, []*topic.Topic]
}

// NewParseCache creates a cache holding up to capacity parse results.
func NewParseCache(capacity int) (*ParseCache, error) {
	builder, err := otter.NewBuilder[string, []*topic.Topic](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to build parse cache: %w", err)
	}
	cache, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build parse cache: %w", err)
	}
	return &ParseCache{cache: cache}, nil
}

// Get returns the cached topics for a content hash.
func (pc *ParseCache) Get(hash string) ([]*topic.Topic, bool) {
	return pc.cache.Get(hash)
}

// Put stores the topics for a content hash.
func (pc *ParseCache) Put(hash string, topics []*topic.Topic) {
	pc.cache.Set(hash, topics)
}

// Close releases the cache's background resources.
func (pc *ParseCache) Close() {
	pc.cache.Close()
}
