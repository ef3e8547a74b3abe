// Package lang holds the per-language configuration the extraction engine
// runs on: comment symbols, prototype enders, and the small closed set of
// quirk strategies that replace per-language subclassing. Descriptors are
// built once at startup and read-only afterwards.
package lang

// Strategy selects which extraction strategy a language uses.
type Strategy int

const (
	// StrategySimple is the line-oriented comment extractor, used by
	// languages without reliable block structure.
	StrategySimple Strategy = iota
	// StrategyStatement is the scope-aware statement extractor for
	// languages with real block syntax.
	StrategyStatement
)

// FalsePositiveStrategy names the ender-suppression quirk a language needs.
// The shared prototype normalizer applies the selected strategy instead of a
// class-per-language override hierarchy.
type FalsePositiveStrategy int

const (
	// FalsePositiveNone applies no suppression.
	FalsePositiveNone FalsePositiveStrategy = iota
	// FalsePositiveSemicolonsInParens suppresses semicolon enders that
	// appear inside a parenthesized parameter list (Pascal-family:
	// declarations end with ';' and parameters are separated by ';').
	FalsePositiveSemicolonsInParens
	// FalsePositiveSigilKeyword suppresses keyword enders immediately
	// preceded by a sigil such as '@', so a parameter literally named "is"
	// or "as" is not mistaken for an ending keyword (T-SQL).
	FalsePositiveSigilKeyword
	// FalsePositiveBraceNesting treats the closing braces of a braced
	// parameter list as false positives up to the list's real end (Tcl).
	FalsePositiveBraceNesting
)

// CommentPair is one block-comment open/close symbol pair.
type CommentPair struct {
	Open  string
	Close string
}

// Directive describes a trailing prototype directive for languages that
// allow declaration suffixes after the ending semicolon (Pascal's
// "virtual;", "message WM_PAINT;"). TakesClause directives consume
// everything up to the next semicolon.
type Directive struct {
	Keyword     string
	TakesClause bool
}

// Descriptor is the immutable configuration for one language.
type Descriptor struct {
	Name       string
	Extensions []string
	Shebangs   []string

	LineComments  []string
	BlockComments []CommentPair

	// FunctionEnders and VariableEnders are the symbols or keywords that can
	// terminate a prototype of the respective kind. The literal "\n" entry
	// stands for a line break.
	FunctionEnders []string
	VariableEnders []string

	// LineContinuation, when set, cancels a line-break ender that it
	// precedes (modulo trailing whitespace).
	LineContinuation string

	Strategy       Strategy
	FalsePositives FalsePositiveStrategy

	// Directives is the allowlist of prototype suffix directives
	// (Pascal-family); empty for everyone else.
	Directives []Directive

	// ParamsMarker, when set, marks a sigil-free parameter list: parameters
	// are the comma-separated runs following this marker instead of a
	// parenthesized list.
	ParamsMarker string
}

// FileIsComment reports whether files of this language are documentation in
// their entirety. This holds exactly when the language defines no comment
// symbols at all.
func (d *Descriptor) FileIsComment() bool {
	return len(d.LineComments) == 0 && len(d.BlockComments) == 0
}

// Delimiters returns every multi-character symbol the tokenizer must keep
// intact for this language.
func (d *Descriptor) Delimiters() []string {
	var ds []string
	ds = append(ds, d.LineComments...)
	for _, p := range d.BlockComments {
		ds = append(ds, p.Open, p.Close)
	}
	if d.LineContinuation != "" {
		ds = append(ds, d.LineContinuation)
	}
	return ds
}

// EndersFor returns the prototype ender set for a topic kind class:
// isFunction selects the function set, otherwise the variable set.
func (d *Descriptor) EndersFor(isFunction bool) []string {
	if isFunction {
		return d.FunctionEnders
	}
	return d.VariableEnders
}

// directiveFor looks up a keyword in the directive allowlist,
// case-insensitively.
func (d *Descriptor) directiveFor(keyword string) (Directive, bool) {
	for _, dir := range d.Directives {
		if equalFold(dir.Keyword, keyword) {
			return dir, true
		}
	}
	return Directive{}, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// HasDirective reports whether keyword is an allowed prototype directive and
// whether it takes a clause.
func (d *Descriptor) HasDirective(keyword string) (takesClause, ok bool) {
	dir, ok := d.directiveFor(keyword)
	return dir.TakesClause, ok
}
