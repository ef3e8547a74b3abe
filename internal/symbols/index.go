package symbols

import (
	"sort"
	"strings"

	"github.com/scribedocs/scribe/internal/topic"
)

// IndexElement is one row of the alphabetic index: a denormalized, sorted
// projection of the symbol table. A symbol defined in more than one package
// fans the Package field out into children; within one package, more than
// one defining file fans File out the same way.
type IndexElement struct {
	Symbol   string
	Package  string
	File     string
	Topic    *topic.Topic
	Children []*IndexElement
}

// IndexBucket groups index entries under one heading: "Symbols", "0-9",
// or a letter A through Z.
type IndexBucket struct {
	Label   string
	Entries []*IndexElement
}

// Index builds the alphabetic index projection: one element per distinct
// symbol name, bucketed into symbols, digits, then A–Z. The projection is
// built fresh per call and not kept in sync with later table mutations.
func (t *Table) Index() []IndexBucket {
	// name → package → file → topic
	names := make(map[string]map[string]map[string]*topic.Topic)
	for sym, e := range t.entries {
		if !e.defined() {
			continue
		}
		name := sym
		if i := strings.LastIndexByte(sym, '.'); i >= 0 {
			name = sym[i+1:]
		}
		pkgs := names[name]
		if pkgs == nil {
			pkgs = make(map[string]map[string]*topic.Topic)
			names[name] = pkgs
		}
		for pkg, files := range e.packages {
			dst := pkgs[pkg]
			if dst == nil {
				dst = make(map[string]*topic.Topic)
				pkgs[pkg] = dst
			}
			for file, tp := range files {
				dst[file] = tp
			}
		}
	}

	buckets := make(map[string][]*IndexElement)
	for name, pkgs := range names {
		el := buildElement(name, pkgs)
		label := bucketLabel(name)
		buckets[label] = append(buckets[label], el)
	}

	var out []IndexBucket
	for _, label := range bucketOrder() {
		entries := buckets[label]
		if len(entries) == 0 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Symbol) < strings.ToLower(entries[j].Symbol)
		})
		out = append(out, IndexBucket{Label: label, Entries: entries})
	}
	return out
}

func buildElement(name string, pkgs map[string]map[string]*topic.Topic) *IndexElement {
	var pkgNames []string
	for pkg := range pkgs {
		pkgNames = append(pkgNames, pkg)
	}
	sort.Strings(pkgNames)

	if len(pkgNames) == 1 {
		pkg := pkgNames[0]
		el := fileElement(name, pkg, pkgs[pkg])
		return el
	}

	el := &IndexElement{Symbol: name}
	for _, pkg := range pkgNames {
		child := fileElement(name, pkg, pkgs[pkg])
		el.Children = append(el.Children, child)
	}
	return el
}

// fileElement builds the element for one (name, package), fanning out by
// file when needed.
func fileElement(name, pkg string, files map[string]*topic.Topic) *IndexElement {
	var fileNames []string
	for f := range files {
		fileNames = append(fileNames, f)
	}
	sort.Strings(fileNames)

	if len(fileNames) == 1 {
		f := fileNames[0]
		return &IndexElement{Symbol: name, Package: pkg, File: f, Topic: files[f]}
	}
	el := &IndexElement{Symbol: name, Package: pkg}
	for _, f := range fileNames {
		el.Children = append(el.Children, &IndexElement{
			Symbol: name, Package: pkg, File: f, Topic: files[f],
		})
	}
	return el
}

func bucketLabel(name string) string {
	if name == "" {
		return "Symbols"
	}
	c := name[0]
	switch {
	case c >= '0' && c <= '9':
		return "0-9"
	case c >= 'a' && c <= 'z':
		return strings.ToUpper(string(c))
	case c >= 'A' && c <= 'Z':
		return string(c)
	default:
		return "Symbols"
	}
}

func bucketOrder() []string {
	order := []string{"Symbols", "0-9"}
	for c := 'A'; c <= 'Z'; c++ {
		order = append(order, string(c))
	}
	return order
}
