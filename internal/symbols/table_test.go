package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribedocs/scribe/internal/topic"
)

// TEST PLAN: symbol table and reference resolver
//
// 1. Define / IsDefined / duplicate no-op
// 2. Reference scoring: enclosing scope beats using scope beats global
// 3. Re-resolution when definitions appear after the reference
// 4. Undefine retracts exactly one file's contribution and re-resolves
// 5. Undefine + identical re-Define restores the observable state
// 6. End-to-end: <Bar> inside "using Foo" resolves to Foo.Bar, then
//    degrades to unresolved when the defining file goes away
// 7. Index projection fans out by package then file and buckets A-Z

func fn(title, pkg string) *topic.Topic {
	return &topic.Topic{Kind: topic.KindFunction, Title: title, Package: pkg}
}

func TestDefine_Idempotent(t *testing.T) {
	t.Parallel()

	st := NewTable()
	st.Define("Foo.Bar", "Foo", "a.c", fn("Bar", "Foo"))
	st.Define("Foo.Bar", "Foo", "a.c", fn("Bar", "Foo"))
	assert.True(t, st.IsDefined("Foo.Bar"))
	assert.Equal(t, []string{"Foo.Bar"}, st.Symbols())
}

func TestReference_ScopeBeatsGlobal(t *testing.T) {
	t.Parallel()

	st := NewTable()
	// Same name defined in the enclosing scope and globally; a using scope
	// that does not define it at all.
	st.Define("Scope.Value", "Scope", "a.c", fn("Value", "Scope"))
	st.Define("Value", "", "b.c", fn("Value", ""))

	r := st.Reference("Scope", []string{"Imported"}, "Value", "a.c")
	target, ok := r.Target()
	require.True(t, ok)
	assert.Equal(t, "Scope.Value", target)
}

func TestReference_UsingScope(t *testing.T) {
	t.Parallel()

	st := NewTable()
	st.Define("Foo.Bar", "Foo", "a.c", fn("Bar", "Foo"))

	r := st.Reference("Other", []string{"Foo"}, "Bar", "b.c")
	target, ok := r.Target()
	require.True(t, ok)
	assert.Equal(t, "Foo.Bar", target)
}

func TestReference_AncestorScopes(t *testing.T) {
	t.Parallel()

	st := NewTable()
	st.Define("A.Helper", "A", "a.c", fn("Helper", "A"))

	// From scope A.B.C, the candidate A.Helper is still reachable.
	r := st.Reference("A.B.C", nil, "Helper", "a.c")
	target, ok := r.Target()
	require.True(t, ok)
	assert.Equal(t, "A.Helper", target)
}

func TestReference_UnresolvedThenResolved(t *testing.T) {
	t.Parallel()

	st := NewTable()
	r := st.Reference("", nil, "Late", "a.c")
	_, ok := r.Target()
	assert.False(t, ok)

	// Definition arriving later re-resolves the existing reference.
	st.Define("Late", "", "b.c", fn("Late", ""))
	target, ok := r.Target()
	require.True(t, ok)
	assert.Equal(t, "Late", target)
}

func TestUndefine_RetractsAndReResolves(t *testing.T) {
	t.Parallel()

	st := NewTable()
	st.Define("Foo.Bar", "Foo", "a.c", fn("Bar", "Foo"))
	st.Define("Bar", "", "b.c", fn("Bar", ""))

	r := st.Reference("Foo", nil, "Bar", "c.c")
	target, _ := r.Target()
	assert.Equal(t, "Foo.Bar", target)

	// Removing the scoped definition falls back to the global one.
	st.Undefine("a.c")
	target, ok := r.Target()
	require.True(t, ok)
	assert.Equal(t, "Bar", target)

	// Removing that too leaves the reference unresolved.
	st.Undefine("b.c")
	_, ok = r.Target()
	assert.False(t, ok)
}

func TestUndefine_NoOpEditCycle(t *testing.T) {
	t.Parallel()

	st := NewTable()
	tp := fn("Bar", "Foo")
	st.Define("Foo.Bar", "Foo", "a.c", tp)
	st.Reference("Foo", nil, "Bar", "a.c")

	before := st.Symbols()
	rBefore, _ := st.Reference("Foo", nil, "Bar", "a.c").Target()

	// Undefine followed by re-defining identical content must leave the
	// observable state unchanged.
	st.Undefine("a.c")
	st.Define("Foo.Bar", "Foo", "a.c", tp)
	st.Reference("Foo", nil, "Bar", "a.c")

	assert.Equal(t, before, st.Symbols())
	rAfter, ok := st.Reference("Foo", nil, "Bar", "a.c").Target()
	require.True(t, ok)
	assert.Equal(t, rBefore, rAfter)
}

func TestEndToEnd_UsingLinkThenFileDeleted(t *testing.T) {
	t.Parallel()

	st := NewTable()

	// File A defines class Foo with method Bar.
	class := &topic.Topic{Kind: topic.KindClass, Title: "Foo"}
	st.DefineTopic("a.c", class)
	st.DefineTopic("a.c", fn("Bar", "Foo"))

	// File B links <Bar> inside a "using Foo" context.
	r := st.Reference("", []string{"Foo"}, "Bar", "b.c")
	target, ok := r.Target()
	require.True(t, ok)
	assert.Equal(t, "Foo.Bar", target)

	// Deleting file A's content degrades the link to a literal.
	st.Undefine("a.c")
	_, ok = r.Target()
	assert.False(t, ok)
}

func TestDefineTopic_ExportedForwarding(t *testing.T) {
	t.Parallel()

	st := NewTable()
	tp := fn("Inner", "Pkg")
	tp.Exported = true
	st.DefineTopic("a.c", tp)

	assert.True(t, st.IsDefined("Pkg.Inner"))
	assert.True(t, st.IsDefined("Inner"))
}

func TestDefineTopic_ListSymbols(t *testing.T) {
	t.Parallel()

	st := NewTable()
	tp := &topic.Topic{
		Kind:        topic.KindVariableList,
		Title:       "Limits",
		Package:     "Cfg",
		ListSymbols: []string{"MAX_SIZE", "MIN_SIZE"},
	}
	st.DefineTopic("a.c", tp)

	assert.True(t, st.IsDefined("Cfg.MAX_SIZE"))
	assert.True(t, st.IsDefined("Cfg.MIN_SIZE"))
}

func TestLookup_Deterministic(t *testing.T) {
	t.Parallel()

	st := NewTable()
	t1 := fn("X", "A")
	t2 := fn("X", "B")
	st.Define("X", "B", "b.c", t2)
	st.Define("X", "A", "a.c", t1)

	got, ok := st.Lookup("X")
	require.True(t, ok)
	assert.Same(t, t1, got) // lexicographically first package wins
}

func TestIndex_FanOutAndBuckets(t *testing.T) {
	t.Parallel()

	st := NewTable()
	st.Define("Alpha.Run", "Alpha", "a.c", fn("Run", "Alpha"))
	st.Define("Beta.Run", "Beta", "b.c", fn("Run", "Beta"))
	st.Define("zulu", "", "z.c", fn("zulu", ""))
	st.Define("9lives", "", "n.c", fn("9lives", ""))
	st.Define("_hidden", "", "h.c", fn("_hidden", ""))

	buckets := st.Index()
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	assert.Equal(t, []string{"Symbols", "0-9", "R", "Z"}, labels)

	// "Run" is defined in two packages: it fans out by package.
	var run *IndexElement
	for _, b := range buckets {
		for _, e := range b.Entries {
			if e.Symbol == "Run" {
				run = e
			}
		}
	}
	require.NotNil(t, run)
	require.Len(t, run.Children, 2)
	assert.Equal(t, "Alpha", run.Children[0].Package)
	assert.Equal(t, "Beta", run.Children[1].Package)
}

func TestIndex_FileFanOut(t *testing.T) {
	t.Parallel()

	st := NewTable()
	st.Define("Pkg.Thing", "Pkg", "one.c", fn("Thing", "Pkg"))
	st.Define("Pkg.Thing", "Pkg", "two.c", fn("Thing", "Pkg"))

	buckets := st.Index()
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Entries, 1)
	el := buckets[0].Entries[0]
	assert.Equal(t, "Pkg", el.Package)
	require.Len(t, el.Children, 2)
	assert.Equal(t, "one.c", el.Children[0].File)
	assert.Equal(t, "two.c", el.Children[1].File)
}
