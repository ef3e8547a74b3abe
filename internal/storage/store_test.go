package storage

// TEST PLAN
// =========
//
// Store round trips:
// 1. Open creates the schema and assigns a session ID
// 2. SaveFile then FileStates returns the recorded state
// 3. SaveFile then TopicsForFile preserves order and all fields
// 4. Re-saving a file replaces its topics rather than appending
// 5. DeleteFile cascades to the file's topics
// 6. AllTopics groups by file path
// 7. Metadata get/set round trip, missing key returns empty
// 8. Clear drops files and topics but keeps metadata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribedocs/scribe/internal/topic"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scribe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	version, err := SchemaVersion(s.db)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	assert.NotEmpty(t, s.SessionID())

	last, err := s.Meta("last_session")
	require.NoError(t, err)
	assert.Equal(t, s.SessionID(), last)
}

func TestSaveFileRoundTrip(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	topics := []*topic.Topic{
		{
			Kind:       topic.KindFunction,
			Title:      "Connect",
			Package:    "Net",
			Using:      []string{"Util"},
			Prototype:  "int Connect(char *host)",
			Summary:    "Opens a connection.",
			Body:       "<p>Opens a connection.</p>",
			LineNumber: 10,
			Exported:   true,
		},
		{
			Kind:        topic.KindVariableList,
			Title:       "Globals",
			Package:     "Net",
			LineNumber:  30,
			ListSymbols: []string{"retries", "timeout"},
		},
	}
	state := FileState{Path: "src/net.c", Language: "C/C++", ModTime: 1700000000, Hash: "abc123"}
	require.NoError(t, s.SaveFile(state, topics))

	states, err := s.FileStates()
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, state, states["src/net.c"])

	got, err := s.TopicsForFile("src/net.c")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, topics[0].Kind, got[0].Kind)
	assert.Equal(t, "Connect", got[0].Title)
	assert.Equal(t, []string{"Util"}, got[0].Using)
	assert.True(t, got[0].Exported)
	assert.Equal(t, 10, got[0].LineNumber)
	assert.Equal(t, []string{"retries", "timeout"}, got[1].ListSymbols)
}

func TestSaveFileReplacesTopics(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	state := FileState{Path: "a.c", Language: "C/C++", ModTime: 1, Hash: "h1"}
	require.NoError(t, s.SaveFile(state, []*topic.Topic{
		{Kind: topic.KindFunction, Title: "Old"},
	}))

	state.Hash = "h2"
	require.NoError(t, s.SaveFile(state, []*topic.Topic{
		{Kind: topic.KindFunction, Title: "New"},
	}))

	got, err := s.TopicsForFile("a.c")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Title)
}

func TestDeleteFileCascades(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	require.NoError(t, s.SaveFile(
		FileState{Path: "a.c", Language: "C/C++", ModTime: 1, Hash: "h"},
		[]*topic.Topic{{Kind: topic.KindFunction, Title: "F"}},
	))
	require.NoError(t, s.DeleteFile("a.c"))

	states, err := s.FileStates()
	require.NoError(t, err)
	assert.Empty(t, states)

	got, err := s.TopicsForFile("a.c")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAllTopicsGroupsByFile(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	require.NoError(t, s.SaveFile(
		FileState{Path: "a.c", Language: "C/C++", ModTime: 1, Hash: "ha"},
		[]*topic.Topic{{Kind: topic.KindFunction, Title: "A1"}, {Kind: topic.KindFunction, Title: "A2"}},
	))
	require.NoError(t, s.SaveFile(
		FileState{Path: "b.pl", Language: "Perl", ModTime: 1, Hash: "hb"},
		[]*topic.Topic{{Kind: topic.KindClass, Title: "B"}},
	))

	all, err := s.AllTopics()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Len(t, all["a.c"], 2)
	assert.Equal(t, "A1", all["a.c"][0].Title)
	assert.Equal(t, "A2", all["a.c"][1].Title)
	assert.Equal(t, "B", all["b.pl"][0].Title)
}

func TestMetadataRoundTrip(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	missing, err := s.Meta("no-such-key")
	require.NoError(t, err)
	assert.Equal(t, "", missing)

	require.NoError(t, s.SetMeta("output_dir", "docs"))
	require.NoError(t, s.SetMeta("output_dir", "site"))

	got, err := s.Meta("output_dir")
	require.NoError(t, err)
	assert.Equal(t, "site", got)
}

func TestClearKeepsMetadata(t *testing.T) {
	t.Parallel()
	s := openStore(t)

	require.NoError(t, s.SaveFile(
		FileState{Path: "a.c", Language: "C/C++", ModTime: 1, Hash: "h"},
		[]*topic.Topic{{Kind: topic.KindFunction, Title: "F"}},
	))
	require.NoError(t, s.Clear())

	states, err := s.FileStates()
	require.NoError(t, err)
	assert.Empty(t, states)

	last, err := s.Meta("last_session")
	require.NoError(t, err)
	assert.Equal(t, s.SessionID(), last)
}
