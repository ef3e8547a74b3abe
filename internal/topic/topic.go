// Package topic defines the in-memory model of one documented entity: the
// output of the extraction strategies and the input to the symbol table and
// the renderer.
package topic

import "strings"

// Kind enumerates the topic types. List kinds describe several entities in
// one body (for example a "Functions:" topic listing one-line definitions).
type Kind int

const (
	KindGeneric Kind = iota
	KindClass
	KindSection
	KindGroup
	KindFunction
	KindVariable
	KindFile

	KindGenericList
	KindClassList
	KindFunctionList
	KindVariableList
	KindFileList
)

var kindNames = map[Kind]string{
	KindGeneric:      "generic",
	KindClass:        "class",
	KindSection:      "section",
	KindGroup:        "group",
	KindFunction:     "function",
	KindVariable:     "variable",
	KindFile:         "file",
	KindGenericList:  "generic list",
	KindClassList:    "class list",
	KindFunctionList: "function list",
	KindVariableList: "variable list",
	KindFileList:     "file list",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// IsList reports whether k is one of the list variants.
func (k Kind) IsList() bool { return k >= KindGenericList }

// Base maps a list kind to its singular kind; non-list kinds map to
// themselves.
func (k Kind) Base() Kind {
	switch k {
	case KindGenericList:
		return KindGeneric
	case KindClassList:
		return KindClass
	case KindFunctionList:
		return KindFunction
	case KindVariableList:
		return KindVariable
	case KindFileList:
		return KindFile
	default:
		return k
	}
}

// Topic is one documented entity extracted from a source file. Topics are
// built by an extractor while scanning one file, mutated only to attach a
// prototype or body afterwards, and replaced wholesale when the file is
// reparsed.
type Topic struct {
	Kind  Kind
	Title string

	// Package is the owning package or class symbol; empty means global.
	Package string

	// Using lists additional scopes visible to this topic's body, in the
	// order they were declared.
	Using []string

	// Prototype is the raw declaration text, when one was found. Formatting
	// into parameter components happens later, in the prototype package.
	Prototype string

	// Summary is the first sentence of the body, Body the full text in
	// lightweight markup.
	Summary string
	Body    string

	// LineNumber is the 1-based line the topic starts on in its file.
	LineNumber int

	// Exported marks a nested declaration that should also appear as a
	// global forwarding entry. ListSymbols carries the per-entry exported
	// symbols of a list topic.
	Exported    bool
	ListSymbols []string
}

// Symbol returns the fully qualified symbol string for the topic.
//
// The general case is Join(Package, title). File topics force a global
// symbol generated from the title alone, while keeping Package for resolving
// links in their body. Class topics nest by title, so their symbol ignores
// any raw input package above them only when none was set.
func (t *Topic) Symbol() string {
	if t.Kind.Base() == KindFile {
		return NormalizeSymbol(t.Title)
	}
	return JoinSymbol(t.Package, NormalizeSymbol(t.Title))
}

// ScopePackage returns the package that topics and links *after* this topic
// resolve against. For classes that is the class's own symbol; for files and
// sections it stays whatever package was already in effect; otherwise it is
// the topic's package unchanged.
func (t *Topic) ScopePackage() string {
	if t.Kind.Base() == KindClass {
		return t.Symbol()
	}
	return t.Package
}

// JoinSymbol combines an owning scope with a member symbol. Either side may
// be empty.
func JoinSymbol(pkg, name string) string {
	if pkg == "" {
		return name
	}
	if name == "" {
		return pkg
	}
	return pkg + "." + name
}

// NormalizeSymbol converts a free-text title into symbol form: member
// separators ("::", "->", ".") become ".", surrounding whitespace is
// trimmed, and a trailing parameter list is stripped.
func NormalizeSymbol(title string) string {
	s := StripParams(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, "::", ".")
	s = strings.ReplaceAll(s, "->", ".")
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ".")
}

// StripParams removes a trailing parenthesized parameter list from a title,
// so "Foo(a, b)" and "Foo" name the same symbol.
func StripParams(title string) string {
	open := strings.IndexByte(title, '(')
	if open < 0 {
		return title
	}
	if !strings.HasSuffix(strings.TrimSpace(title), ")") {
		return title
	}
	return strings.TrimSpace(title[:open])
}
