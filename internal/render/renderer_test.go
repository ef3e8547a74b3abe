package render

// TEST PLAN
// =========
//
// 1. WriteSite produces a page per file, the index, and the stylesheet
// 2. Resolved body links become anchors into the defining page, relative
//    to the current page's depth; unresolved links render bracketed
// 3. Prototypes with parameter lists render split, others verbatim
// 4. Page titles prefer the file topic, then the menu, then the file name
// 5. Index entries link to the defining topic's anchor
// 6. Anchor strips characters unsafe in fragment IDs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribedocs/scribe/internal/lang"
	"github.com/scribedocs/scribe/internal/menu"
	"github.com/scribedocs/scribe/internal/symbols"
	"github.com/scribedocs/scribe/internal/topic"
)

func testRegistry(t *testing.T) *lang.Registry {
	t.Helper()
	reg, err := lang.NewRegistry(nil)
	require.NoError(t, err)
	return reg
}

func readOutput(t *testing.T, out, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func buildSite(t *testing.T) (string, *symbols.Table) {
	t.Helper()
	table := symbols.NewTable()

	connect := &topic.Topic{
		Kind:      topic.KindFunction,
		Title:     "Connect",
		Package:   "Net",
		Prototype: "int Connect(char *host, int port)",
		Body:      "<p>Opens a connection. See <link>greet</link> and <link>missing</link>.</p>",
	}
	greet := &topic.Topic{
		Kind:  topic.KindFunction,
		Title: "greet",
		Body:  "<p>Says hello.</p>",
	}
	fileTopic := &topic.Topic{
		Kind:  topic.KindFile,
		Title: "Networking Layer",
		Body:  "<p>The socket layer.</p>",
	}
	table.DefineTopic("src/net.c", fileTopic)
	table.DefineTopic("src/net.c", connect)
	table.DefineTopic("lib/util.pl", greet)

	m := &menu.Menu{
		Title: "Demo",
		Items: []*menu.Item{
			{Title: "Networking", File: "src/net.c"},
			{Title: "Utilities", File: "lib/util.pl"},
		},
	}

	out := t.TempDir()
	r, err := New(table, m, testRegistry(t), out)
	require.NoError(t, err)

	require.NoError(t, r.WriteSite([]Page{
		{File: "src/net.c", Language: "C/C++", Topics: []*topic.Topic{fileTopic, connect}},
		{File: "lib/util.pl", Language: "Perl", Topics: []*topic.Topic{greet}},
	}))
	return out, table
}

func TestWriteSiteProducesAllOutputs(t *testing.T) {
	t.Parallel()
	out, _ := buildSite(t)

	for _, rel := range []string{
		"files/src/net.c.html",
		"files/lib/util.pl.html",
		"index.html",
		"styles.css",
	} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		assert.NoError(t, err, rel)
	}
}

func TestBodyLinkResolution(t *testing.T) {
	t.Parallel()
	out, _ := buildSite(t)
	page := readOutput(t, out, "files/src/net.c.html")

	// Resolved: anchor into greet's page, relative to files/src/.
	assert.Contains(t, page, `href="../../files/lib/util.pl.html#greet"`)
	assert.Contains(t, page, `>greet</a>`)

	// Unresolved: bracketed literal, no anchor.
	assert.Contains(t, page, "&lt;missing&gt;")
	assert.NotContains(t, page, `>missing</a>`)
}

func TestPrototypeRendering(t *testing.T) {
	t.Parallel()
	out, _ := buildSite(t)
	page := readOutput(t, out, "files/src/net.c.html")

	assert.Contains(t, page, `<span class="CPre">int Connect</span>`)
	assert.Contains(t, page, "<td>char *host</td>")
	assert.Contains(t, page, "<td>int port</td>")
}

func TestPageTitleSources(t *testing.T) {
	t.Parallel()
	out, _ := buildSite(t)

	netPage := readOutput(t, out, "files/src/net.c.html")
	assert.Contains(t, netPage, "<title>Networking Layer</title>", "file topic wins")

	utilPage := readOutput(t, out, "files/lib/util.pl.html")
	assert.Contains(t, utilPage, "<title>greet</title>", "first topic title when no file topic")
}

func TestIndexLinksToDefinitions(t *testing.T) {
	t.Parallel()
	out, _ := buildSite(t)
	index := readOutput(t, out, "index.html")

	assert.Contains(t, index, `href="files/lib/util.pl.html#greet"`)
	assert.True(t, strings.Contains(index, ">Connect</a>") || strings.Contains(index, ">connect</a>"))
}

func TestAnchorSanitizes(t *testing.T) {
	t.Parallel()
	tp := &topic.Topic{Kind: topic.KindFunction, Title: "operator <<", Package: "IO"}
	a := Anchor(tp)
	assert.NotContains(t, a, "<")
	assert.NotContains(t, a, " ")
	assert.True(t, strings.HasPrefix(a, "IO."))
}
