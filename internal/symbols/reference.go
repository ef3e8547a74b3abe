// Package symbols maintains the global symbol table: every definition the
// extraction pass produced across all files, plus every free-text link and
// its current best interpretation. The table is owned by the run and mutated
// only during the single-threaded batch pass.
package symbols

import (
	"strings"

	"github.com/scribedocs/scribe/internal/topic"
)

// interpretation is one candidate fully qualified reading of a link, with
// its suitability score. Higher scores are more specific.
type interpretation struct {
	symbol string
	score  int
}

// Reference is one free-text link expression in a specific scope context.
// Its interpretations are fixed at creation; the chosen one tracks the
// symbol table as definitions come and go.
type Reference struct {
	key   string
	text  string
	scope string
	using []string

	// interps is ordered by strictly decreasing score, so "first defined in
	// order wins" is the deterministic tie-break: scores never repeat
	// within one reference. (The reference implementation of this design
	// let hash order decide exact ties; that was an accident, not a
	// contract.)
	interps []interpretation

	// current is the chosen interpretation; empty while unresolved. It is
	// only ever an interpretation that is actually defined.
	current string

	// files that contain this reference.
	files map[string]bool
}

// Text returns the literal link expression.
func (r *Reference) Text() string { return r.text }

// Target returns the currently resolved symbol. ok is false while the
// reference is unresolved, in which case renderers emit the bracketed
// literal text instead of a link.
func (r *Reference) Target() (string, bool) {
	return r.current, r.current != ""
}

// Interpretations returns the candidate symbols in score order, most
// specific first.
func (r *Reference) Interpretations() []string {
	out := make([]string, len(r.interps))
	for i, in := range r.interps {
		out[i] = in.symbol
	}
	return out
}

// interpretationsFor generates the ranked candidate readings of a link:
// the enclosing scope first, then each ancestor of that scope, then each
// "using" scope in declaration order, then the text alone as a global.
// Scores decrease strictly in that order; duplicates keep their first
// (highest) position.
func interpretationsFor(scope string, using []string, text string) []interpretation {
	norm := topic.NormalizeSymbol(text)
	var candidates []string
	for s := scope; s != ""; s = parentScope(s) {
		candidates = append(candidates, topic.JoinSymbol(s, norm))
	}
	for _, u := range using {
		if u != "" {
			candidates = append(candidates, topic.JoinSymbol(topic.NormalizeSymbol(u), norm))
		}
	}
	candidates = append(candidates, norm)

	seen := make(map[string]bool, len(candidates))
	score := len(candidates)
	var interps []interpretation
	for _, c := range candidates {
		if seen[c] {
			score--
			continue
		}
		seen[c] = true
		interps = append(interps, interpretation{symbol: c, score: score})
		score--
	}
	return interps
}

func parentScope(scope string) string {
	if i := strings.LastIndexByte(scope, '.'); i >= 0 {
		return scope[:i]
	}
	return ""
}

// referenceKey builds the identity of a reference: the same link text in
// the same scope context is the same reference regardless of which files it
// appears in.
func referenceKey(scope string, using []string, text string) string {
	return scope + "\x1f" + strings.Join(using, "\x1e") + "\x1f" + topic.NormalizeSymbol(text)
}
