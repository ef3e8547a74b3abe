// Package prototype finds the true end of a candidate declaration and
// reformats it for display. One shared normalizer plus the descriptor's
// quirk strategy replaces the per-language subclass hierarchy of older
// documentation tools: every language-specific behavior is either a
// configured ender set or one of the named false-positive strategies.
package prototype

import (
	"strings"

	"github.com/scribedocs/scribe/internal/lang"
)

// Formatted is a prototype split around its parameter list. Open and Close
// hold the delimiters; when parameters exist without explicit delimiters
// both default to a single space so renderers can join the parts verbatim.
type Formatted struct {
	Pre    string
	Open   string
	Params []string
	Close  string
	Post   string
}

// String reassembles the formatted prototype into display text.
func (f *Formatted) String() string {
	if len(f.Params) == 0 {
		return f.Pre + f.Post
	}
	return f.Pre + f.Open + strings.Join(f.Params, ", ") + f.Close + f.Post
}

// Extract locates the true end of a raw candidate prototype and returns the
// declaration text up to it. isFunction selects the descriptor's function
// ender set, otherwise the variable set. The boolean result is false when no
// ender occurs in raw, in which case no prototype should be attached.
//
// A semicolon ender is kept in the extracted text (it terminates the
// declaration); every other ender is excluded. Directive suffixes allowed by
// the descriptor (Pascal's "virtual;", "message WM_USER;") are folded in
// after the base semicolon.
func Extract(raw string, d *lang.Descriptor, isFunction bool) (string, bool) {
	end, ender := endIndex(raw, d, isFunction)
	if end < 0 {
		return "", false
	}
	if ender == ";" {
		end++ // keep the terminator
		end = extendDirectives(raw, end, d)
	}
	proto := strings.TrimSpace(raw[:end])
	if proto == "" {
		return "", false
	}
	return proto, true
}

// endIndex scans raw for every candidate ender and returns the earliest
// match offset along with the ender that won, or (-1, ""). False positives
// registered by the descriptor's quirk strategy are skipped.
func endIndex(raw string, d *lang.Descriptor, isFunction bool) (int, string) {
	falsePos := falsePositives(raw, d)
	best := -1
	bestEnder := ""
	for _, ender := range d.EndersFor(isFunction) {
		at := findEnder(raw, ender, d, falsePos)
		if at >= 0 && (best < 0 || at < best) {
			best = at
			bestEnder = ender
		}
	}
	return best, bestEnder
}

// findEnder returns the first non-suppressed occurrence of one ender.
func findEnder(raw string, ender string, d *lang.Descriptor, falsePos map[int]bool) int {
	if ender == "\n" {
		return findLineBreakEnder(raw, d.LineContinuation)
	}
	keyword := isKeyword(ender)
	from := 0
	for from < len(raw) {
		i := indexFoldFrom(raw, ender, from)
		if i < 0 {
			return -1
		}
		if falsePos[i] {
			from = i + len(ender)
			continue
		}
		if keyword && !hasWordBoundaries(raw, i, len(ender)) {
			from = i + len(ender)
			continue
		}
		if keyword && d.FalsePositives == lang.FalsePositiveSigilKeyword && precededBySigil(raw, i) {
			from = i + len(ender)
			continue
		}
		return i
	}
	return -1
}

// findLineBreakEnder finds the first line break not cancelled by a trailing
// continuation symbol. A continuation cancels the break when nothing but
// spaces and tabs sit between it and the break.
func findLineBreakEnder(raw string, continuation string) int {
	from := 0
	for {
		i := strings.IndexAny(raw[from:], "\r\n")
		if i < 0 {
			return -1
		}
		i += from
		if continuation == "" || !continuedBefore(raw, i, continuation) {
			return i
		}
		// Skip the whole break sequence and keep looking.
		from = i + 1
		if raw[i] == '\r' && from < len(raw) && raw[from] == '\n' {
			from++
		}
	}
}

func continuedBefore(raw string, breakAt int, continuation string) bool {
	j := breakAt
	for j > 0 && (raw[j-1] == ' ' || raw[j-1] == '\t') {
		j--
	}
	return j >= len(continuation) && raw[j-len(continuation):j] == continuation
}

// falsePositives builds the suppressed-offset set for the descriptor's quirk
// strategy. Offsets are into raw and mark positions where an ender match
// must be ignored.
func falsePositives(raw string, d *lang.Descriptor) map[int]bool {
	fp := make(map[int]bool)
	switch d.FalsePositives {
	case lang.FalsePositiveSemicolonsInParens:
		depth := 0
		for i := 0; i < len(raw); i++ {
			switch raw[i] {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			case ';':
				if depth > 0 {
					fp[i] = true
				}
			}
		}
	case lang.FalsePositiveBraceNesting:
		// The first top-level brace group is the parameter list. Every
		// brace inside it, its opener included, is suppressed so the real
		// ender is whatever follows the group.
		depth := 0
		for i := 0; i < len(raw); i++ {
			switch raw[i] {
			case '{':
				fp[i] = true
				depth++
			case '}':
				fp[i] = true
				depth--
				if depth == 0 {
					return fp
				}
			}
		}
	}
	return fp
}

// extendDirectives folds allowed directive suffixes into the prototype.
// Starting just past a terminating semicolon it accepts, repeatedly:
// whitespace, an allowlisted keyword, then either the next semicolon (plain
// directive) or everything through the next semicolon (clause directive).
// The first non-allowlisted word stops the extension.
func extendDirectives(raw string, end int, d *lang.Descriptor) int {
	if len(d.Directives) == 0 {
		return end
	}
	for {
		i := end
		for i < len(raw) && isSpaceByte(raw[i]) {
			i++
		}
		start := i
		for i < len(raw) && isWordChar(raw[i]) {
			i++
		}
		if i == start {
			return end
		}
		takesClause, ok := d.HasDirective(raw[start:i])
		if !ok {
			return end
		}
		if takesClause {
			semi := strings.IndexByte(raw[i:], ';')
			if semi < 0 {
				return end
			}
			end = i + semi + 1
			continue
		}
		for i < len(raw) && isSpaceByte(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] != ';' {
			return end
		}
		end = i + 1
	}
}

func isKeyword(ender string) bool {
	for i := 0; i < len(ender); i++ {
		if !isWordChar(ender[i]) {
			return false
		}
	}
	return len(ender) > 0
}

func hasWordBoundaries(raw string, at, length int) bool {
	if at > 0 && isWordChar(raw[at-1]) {
		return false
	}
	end := at + length
	if end < len(raw) && isWordChar(raw[end]) {
		return false
	}
	return true
}

func precededBySigil(raw string, at int) bool {
	return at > 0 && raw[at-1] == '@'
}

// indexFoldFrom is a case-insensitive strings.Index starting at offset.
func indexFoldFrom(raw, sub string, from int) int {
	if sub == "" || from >= len(raw) {
		return -1
	}
	if !isKeyword(sub) {
		i := strings.Index(raw[from:], sub)
		if i < 0 {
			return -1
		}
		return from + i
	}
	lower := strings.ToLower(raw[from:])
	i := strings.Index(lower, strings.ToLower(sub))
	if i < 0 {
		return -1
	}
	return from + i
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
