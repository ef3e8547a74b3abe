// Package extract turns source text into topics. Two strategies exist: the
// line-oriented simple extractor for languages without reliable block
// syntax, and the scope-aware statement extractor for brace languages. Both
// hand comment runs to the markup parser and attach best-effort prototypes;
// neither ever fails on malformed input; extraction degrades instead.
package extract

import (
	"strings"

	"github.com/scribedocs/scribe/internal/lang"
	"github.com/scribedocs/scribe/internal/markup"
	"github.com/scribedocs/scribe/internal/topic"
)

// Extractor extracts the topic list of one source file.
type Extractor interface {
	Extract(source string) []*topic.Topic
}

// New picks the extraction strategy for a language. Languages whose files
// are documentation in their entirety short-circuit to a whole-file comment
// parse inside the simple strategy.
func New(d *lang.Descriptor) Extractor {
	if !d.FileIsComment() && d.Strategy == lang.StrategyStatement {
		return newStatementExtractor(d)
	}
	return newSimpleExtractor(d)
}

// prototypeKind reports whether a topic kind takes a prototype and, if so,
// whether it uses the function ender set. Only concrete function and
// variable topics carry prototypes.
func prototypeKind(k topic.Kind) (isFunction, wants bool) {
	if k.IsList() {
		return false, false
	}
	switch k.Base() {
	case topic.KindFunction:
		return true, true
	case topic.KindVariable:
		return false, true
	default:
		return false, false
	}
}

// cleanPrototype prepares an extracted prototype for display: continuation
// symbols at end of line are removed together with the break, remaining
// breaks become single spaces, and runs of whitespace collapse.
func cleanPrototype(proto string, d *lang.Descriptor) string {
	if d.LineContinuation != "" {
		proto = removeContinuations(proto, d.LineContinuation)
	}
	fields := strings.Fields(proto)
	return strings.Join(fields, " ")
}

func removeContinuations(proto, continuation string) string {
	var b strings.Builder
	lines := strings.Split(proto, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimRight(line, " \t")
		if i < len(lines)-1 && strings.HasSuffix(trimmed, continuation) {
			b.WriteString(strings.TrimRight(strings.TrimSuffix(trimmed, continuation), " \t"))
			b.WriteString(" ")
			continue
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// applyScopes walks a file's topics in order and fills in the owning
// package of each: class topics open a scope for everything after them,
// section and file topics reset it. Topics parsed from comments carry no
// package of their own; statement-derived topics arrive with one already
// set and are left alone.
func applyScopes(topics []*topic.Topic) {
	scope := ""
	for _, tp := range topics {
		if tp.Package == "" {
			tp.Package = scope
		}
		switch tp.Kind.Base() {
		case topic.KindClass:
			if !tp.Kind.IsList() {
				scope = tp.ScopePackage()
			}
		case topic.KindSection, topic.KindFile:
			scope = ""
		}
	}
}

// parseCommentRun cleans and parses one comment run into topics.
func parseCommentRun(lines []string, startLine int) []*topic.Topic {
	return markup.ParseComment(lines, startLine)
}
