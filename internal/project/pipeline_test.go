package project

// TEST PLAN
// =========
//
// Pipeline:
// 1. Full run defines topics from a fresh tree and records file states
// 2. A second run with no edits reports nothing to do
// 3. Editing a file retracts its old symbols and defines the new ones
// 4. Deleting a file retracts its symbols and its database rows
// 5. Restore rebuilds the symbol table from the store without reparsing
// 6. Body links become references that resolve against defined symbols
// 7. Hinted runs only process the hinted files
//
// ParseCache:
// 8. Same content hash round trips through the cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribedocs/scribe/internal/storage"
	"github.com/scribedocs/scribe/internal/symbols"
	"github.com/scribedocs/scribe/internal/topic"
)

type fixture struct {
	root  string
	store *storage.Store
	table *symbols.Table
	pipe  *Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scribe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	table := symbols.NewTable()
	pipe, err := NewPipeline(Options{
		Root:     root,
		Registry: registry(t),
		Store:    store,
		Table:    table,
	})
	require.NoError(t, err)
	return &fixture{root: root, store: store, table: table, pipe: pipe}
}

func (f *fixture) write(t *testing.T, rel, content string, mtime time.Time) {
	t.Helper()
	abs := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(abs, mtime, mtime))
}

const greetSource = "# Function: greet\n# Says hello.\nsub greet { }\n"

func TestRunDefinesTopics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write(t, "lib/util.pl", greetSource, time.Now().Add(-time.Hour))

	cs, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/util.pl"}, cs.Added)

	tp, ok := f.table.Lookup("greet")
	require.True(t, ok)
	assert.Equal(t, topic.KindFunction, tp.Kind)
	assert.Equal(t, "Says hello.", tp.Summary)

	states, err := f.store.FileStates()
	require.NoError(t, err)
	require.Contains(t, states, "lib/util.pl")
	assert.Equal(t, "Perl", states["lib/util.pl"].Language)
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write(t, "a.pl", greetSource, time.Now().Add(-time.Hour))

	_, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)

	cs, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, cs.HasChanges())
	assert.Equal(t, []string{"a.pl"}, cs.Unchanged)
}

func TestRunRetractsOnEdit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write(t, "a.pl", greetSource, time.Now().Add(-2*time.Hour))
	_, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)

	edited := "# Function: farewell\n# Says goodbye.\nsub farewell { }\n"
	f.write(t, "a.pl", edited, time.Now().Add(-time.Hour))

	cs, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pl"}, cs.Modified)

	_, ok := f.table.Lookup("greet")
	assert.False(t, ok, "old symbol must be retracted")
	_, ok = f.table.Lookup("farewell")
	assert.True(t, ok)
}

func TestRunRetractsOnDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write(t, "a.pl", greetSource, time.Now().Add(-time.Hour))
	_, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(f.root, "a.pl")))

	cs, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pl"}, cs.Deleted)

	_, ok := f.table.Lookup("greet")
	assert.False(t, ok)

	states, err := f.store.FileStates()
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestRestoreRebuildsTable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write(t, "a.pl", greetSource, time.Now().Add(-time.Hour))
	_, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)

	// Fresh table over the same store, as a new process would start.
	table := symbols.NewTable()
	pipe, err := NewPipeline(Options{
		Root:     f.root,
		Registry: registry(t),
		Store:    f.store,
		Table:    table,
	})
	require.NoError(t, err)
	require.NoError(t, pipe.Restore())

	tp, ok := table.Lookup("greet")
	require.True(t, ok)
	assert.Equal(t, "Says hello.", tp.Summary)

	cs, err := pipe.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, cs.HasChanges(), "restore must not force a reparse")
}

func TestRunResolvesBodyLinks(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write(t, "a.pl", greetSource, time.Now().Add(-time.Hour))
	caller := "# Function: main\n# Calls <greet> at startup.\nsub main { }\n"
	f.write(t, "b.pl", caller, time.Now().Add(-time.Hour))

	_, err := f.pipe.Run(context.Background(), nil)
	require.NoError(t, err)

	ref := f.table.Reference("", nil, "greet", "b.pl")
	target, ok := ref.Target()
	require.True(t, ok)
	assert.Equal(t, "greet", target)
}

func TestRunWithHint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.write(t, "a.pl", greetSource, time.Now().Add(-time.Hour))
	f.write(t, "b.pl", "# Function: other\nsub other { }\n", time.Now().Add(-time.Hour))

	cs, err := f.pipe.Run(context.Background(), []string{"a.pl"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pl"}, cs.Added)

	_, ok := f.table.Lookup("greet")
	assert.True(t, ok)
	_, ok = f.table.Lookup("other")
	assert.False(t, ok, "unhinted files are not processed")
}

func TestParseCacheRoundTrip(t *testing.T) {
	t.Parallel()
	cache, err := NewParseCache(128)
	require.NoError(t, err)
	defer cache.Close()

	topics := []*topic.Topic{{Kind: topic.KindFunction, Title: "F"}}
	cache.Put("hash-1", topics)

	got, ok := cache.Get("hash-1")
	require.True(t, ok)
	assert.Equal(t, "F", got[0].Title)

	_, ok = cache.Get("hash-2")
	assert.False(t, ok)
}
