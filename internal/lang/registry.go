package lang

import (
	"fmt"
	"strings"
)

// Registry resolves files to language descriptors. It is constructed once at
// startup from the builtin table plus any user overrides, and read-only
// afterwards.
type Registry struct {
	byName map[string]*Descriptor
	byExt  map[string]*Descriptor

	// shebangs holds (substring, descriptor) pairs checked against the
	// interpreter line of extensionless files.
	shebangs []shebangEntry
}

type shebangEntry struct {
	substr string
	desc   *Descriptor
}

// Override adds or replaces a language at registry construction time. A zero
// field leaves the builtin value untouched; Extensions and comment symbols
// replace wholesale when set.
type Override struct {
	Name             string
	Extensions       []string
	Shebangs         []string
	LineComments     []string
	BlockComments    []CommentPair
	FunctionEnders   []string
	VariableEnders   []string
	LineContinuation string
}

// NewRegistry builds the registry from the builtin language table merged
// with overrides. An override naming an unknown language defines a new
// simple-strategy language.
func NewRegistry(overrides []Override) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Descriptor),
		byExt:  make(map[string]*Descriptor),
	}
	for i := range builtinLanguages {
		d := builtinLanguages[i] // copy, overrides must not touch the table
		r.add(&d)
	}
	for _, ov := range overrides {
		if ov.Name == "" {
			return nil, fmt.Errorf("language override missing a name")
		}
		d := r.byName[normalizeName(ov.Name)]
		if d == nil {
			nd := Descriptor{Name: ov.Name, Strategy: StrategySimple}
			d = &nd
			r.byName[normalizeName(ov.Name)] = d
		}
		applyOverride(d, ov)
		r.add(d)
	}
	return r, nil
}

func (r *Registry) add(d *Descriptor) {
	r.byName[normalizeName(d.Name)] = d
	for _, ext := range d.Extensions {
		r.byExt[strings.ToLower(ext)] = d
	}
	for _, sb := range d.Shebangs {
		r.shebangs = append(r.shebangs, shebangEntry{substr: sb, desc: d})
	}
}

func applyOverride(d *Descriptor, ov Override) {
	if len(ov.Extensions) > 0 {
		d.Extensions = ov.Extensions
	}
	if len(ov.Shebangs) > 0 {
		d.Shebangs = ov.Shebangs
	}
	if len(ov.LineComments) > 0 {
		d.LineComments = ov.LineComments
	}
	if len(ov.BlockComments) > 0 {
		d.BlockComments = ov.BlockComments
	}
	if len(ov.FunctionEnders) > 0 {
		d.FunctionEnders = ov.FunctionEnders
	}
	if len(ov.VariableEnders) > 0 {
		d.VariableEnders = ov.VariableEnders
	}
	if ov.LineContinuation != "" {
		d.LineContinuation = ov.LineContinuation
	}
}

// ByName returns the descriptor for a language name, nil when unknown.
func (r *Registry) ByName(name string) *Descriptor {
	return r.byName[normalizeName(name)]
}

// ForFile resolves a file to its language. Extension lookup wins; when the
// file has no recognized extension, the first source line is checked for a
// shebang interpreter match. Returns nil when the file is not a supported
// language.
func (r *Registry) ForFile(path string, source string) *Descriptor {
	if d := r.byExt[strings.ToLower(extensionOf(path))]; d != nil {
		return d
	}
	first := source
	if i := strings.IndexAny(first, "\r\n"); i >= 0 {
		first = first[:i]
	}
	if !strings.HasPrefix(first, "#!") {
		return nil
	}
	for _, e := range r.shebangs {
		if strings.Contains(first, e.substr) {
			return e.desc
		}
	}
	return nil
}

// Extensions returns every registered file extension, for file discovery.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

func extensionOf(path string) string {
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 && i < len(base)-1 {
		return base[i+1:]
	}
	return ""
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
