package symbols

import (
	"sort"

	"github.com/scribedocs/scribe/internal/topic"
)

// entry is the multi-definition record of one symbol string: definitions
// grouped by package then file, and the references watching it.
type entry struct {
	// packages maps package → file → defining topic.
	packages map[string]map[string]*topic.Topic
	// watchers are references listing this symbol as an interpretation.
	watchers map[string]*Reference
}

func (e *entry) defined() bool {
	for _, files := range e.packages {
		if len(files) > 0 {
			return true
		}
	}
	return false
}

// Table is the global symbol table for one run.
type Table struct {
	entries map[string]*entry
	refs    map[string]*Reference

	// fileDefs tracks, per file, the (symbol, package) pairs it defined, so
	// Undefine can retract exactly that file's contribution.
	fileDefs map[string]map[[2]string]bool
	// fileRefs tracks, per file, the reference keys it contributed.
	fileRefs map[string]map[string]bool
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		entries:  make(map[string]*entry),
		refs:     make(map[string]*Reference),
		fileDefs: make(map[string]map[[2]string]bool),
		fileRefs: make(map[string]map[string]bool),
	}
}

// Define registers one definition of a symbol string. Registering the exact
// same (symbol, package, file) tuple again is a no-op. Newly defining a
// previously undefined symbol re-resolves every reference watching it.
func (t *Table) Define(symbol, pkg, file string, tp *topic.Topic) {
	if symbol == "" {
		return
	}
	e := t.entries[symbol]
	if e == nil {
		e = &entry{
			packages: make(map[string]map[string]*topic.Topic),
			watchers: make(map[string]*Reference),
		}
		t.entries[symbol] = e
	}
	files := e.packages[pkg]
	if files == nil {
		files = make(map[string]*topic.Topic)
		e.packages[pkg] = files
	}
	if _, dup := files[file]; dup {
		return
	}
	wasDefined := e.defined()
	files[file] = tp

	defs := t.fileDefs[file]
	if defs == nil {
		defs = make(map[[2]string]bool)
		t.fileDefs[file] = defs
	}
	defs[[2]string{symbol, pkg}] = true

	if !wasDefined {
		t.reResolve(e)
	}
}

// DefineTopic registers a topic's symbol, its global forwarding entry when
// the topic is exported, and the per-entry symbols of list topics.
func (t *Table) DefineTopic(file string, tp *topic.Topic) {
	t.Define(tp.Symbol(), tp.Package, file, tp)
	if tp.Exported {
		bare := topic.NormalizeSymbol(tp.Title)
		if bare != tp.Symbol() {
			t.Define(bare, "", file, tp)
		}
	}
	for _, ls := range tp.ListSymbols {
		sym := topic.JoinSymbol(tp.Package, topic.NormalizeSymbol(ls))
		t.Define(sym, tp.Package, file, tp)
		if tp.Exported {
			t.Define(topic.NormalizeSymbol(ls), "", file, tp)
		}
	}
}

// IsDefined reports whether a symbol string has at least one definition.
func (t *Table) IsDefined(symbol string) bool {
	e := t.entries[symbol]
	return e != nil && e.defined()
}

// Lookup returns one defining topic for a symbol, preferring the
// lexicographically first package and file for determinism.
func (t *Table) Lookup(symbol string) (*topic.Topic, bool) {
	tp, _, ok := t.LookupLocation(symbol)
	return tp, ok
}

// LookupLocation is Lookup plus the path of the defining file, for
// building links to the definition's page.
func (t *Table) LookupLocation(symbol string) (*topic.Topic, string, bool) {
	e := t.entries[symbol]
	if e == nil {
		return nil, "", false
	}
	var pkgs []string
	for pkg, files := range e.packages {
		if len(files) > 0 {
			pkgs = append(pkgs, pkg)
		}
	}
	if len(pkgs) == 0 {
		return nil, "", false
	}
	sort.Strings(pkgs)
	files := e.packages[pkgs[0]]
	var names []string
	for f := range files {
		names = append(names, f)
	}
	sort.Strings(names)
	return files[names[0]], names[0], true
}

// Reference registers (or re-fetches) the link expression text as it appears
// in the given scope context and source file, and returns the reference with
// its current best defined interpretation already chosen.
func (t *Table) Reference(scope string, using []string, text, file string) *Reference {
	key := referenceKey(scope, using, text)
	r := t.refs[key]
	if r == nil {
		r = &Reference{
			key:     key,
			text:    text,
			scope:   scope,
			using:   append([]string(nil), using...),
			interps: interpretationsFor(scope, using, text),
			files:   make(map[string]bool),
		}
		t.refs[key] = r
		for _, in := range r.interps {
			e := t.entries[in.symbol]
			if e == nil {
				e = &entry{
					packages: make(map[string]map[string]*topic.Topic),
					watchers: make(map[string]*Reference),
				}
				t.entries[in.symbol] = e
			}
			e.watchers[key] = r
		}
		t.resolve(r)
	}
	if file != "" {
		r.files[file] = true
		refs := t.fileRefs[file]
		if refs == nil {
			refs = make(map[string]bool)
			t.fileRefs[file] = refs
		}
		refs[key] = true
	}
	return r
}

// Undefine retracts every definition and reference contribution of one file,
// re-resolving affected references. Files never seen are a no-op.
func (t *Table) Undefine(file string) {
	for pair := range t.fileDefs[file] {
		symbol, pkg := pair[0], pair[1]
		e := t.entries[symbol]
		if e == nil {
			continue
		}
		if files := e.packages[pkg]; files != nil {
			delete(files, file)
			if len(files) == 0 {
				delete(e.packages, pkg)
			}
		}
		if !e.defined() {
			t.reResolve(e)
		}
		t.prune(symbol)
	}
	delete(t.fileDefs, file)

	for key := range t.fileRefs[file] {
		r := t.refs[key]
		if r == nil {
			continue
		}
		delete(r.files, file)
		if len(r.files) == 0 {
			for _, in := range r.interps {
				if e := t.entries[in.symbol]; e != nil {
					delete(e.watchers, key)
					t.prune(in.symbol)
				}
			}
			delete(t.refs, key)
		}
	}
	delete(t.fileRefs, file)
}

// prune drops an entry that neither defines anything nor is watched.
func (t *Table) prune(symbol string) {
	e := t.entries[symbol]
	if e != nil && !e.defined() && len(e.watchers) == 0 {
		delete(t.entries, symbol)
	}
}

// resolve recomputes one reference's chosen interpretation: the first
// defined candidate in score order.
func (t *Table) resolve(r *Reference) {
	r.current = ""
	for _, in := range r.interps {
		if t.IsDefined(in.symbol) {
			r.current = in.symbol
			return
		}
	}
}

// reResolve recomputes every reference watching an entry whose defined set
// just changed.
func (t *Table) reResolve(e *entry) {
	for _, r := range e.watchers {
		t.resolve(r)
	}
}

// Symbols returns every defined symbol string, sorted, for the index
// projection and for tests.
func (t *Table) Symbols() []string {
	var out []string
	for sym, e := range t.entries {
		if e.defined() {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}
