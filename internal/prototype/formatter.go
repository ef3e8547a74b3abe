package prototype

import (
	"strings"

	"github.com/scribedocs/scribe/internal/lang"
)

// Format splits an extracted prototype around its parameter list. The split
// style follows the descriptor: braced parameter lists for the brace-nesting
// quirk, marker-separated lists when a ParamsMarker is set, and
// parenthesized lists (comma or semicolon separated) for everything else.
// When no parameter list is found the whole prototype lands in Pre.
func Format(proto string, d *lang.Descriptor) *Formatted {
	if d.FalsePositives == lang.FalsePositiveBraceNesting {
		if f := formatBraced(proto); f != nil {
			return f
		}
	}
	if d.ParamsMarker != "" {
		if f := formatMarked(proto, d.ParamsMarker); f != nil {
			return f
		}
	}
	if f := formatParenthesized(proto); f != nil {
		return f
	}
	return &Formatted{Pre: proto}
}

// formatParenthesized handles the default style: the first parenthesis opens
// the list, its match closes it, parameters separate on top-level commas and
// semicolons.
func formatParenthesized(proto string) *Formatted {
	open := strings.IndexByte(proto, '(')
	if open < 0 {
		return nil
	}
	depth := 0
	closeAt := -1
	for i := open; i < len(proto); i++ {
		switch proto[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				closeAt = i
			}
		}
		if closeAt >= 0 {
			break
		}
	}
	if closeAt < 0 {
		return nil
	}
	inner := proto[open+1 : closeAt]
	params := splitTopLevel(inner, func(b byte) bool { return b == ',' || b == ';' })
	if len(params) == 0 {
		return nil
	}
	return &Formatted{
		Pre:    proto[:open],
		Open:   "(",
		Params: params,
		Close:  ")",
		Post:   proto[closeAt+1:],
	}
}

// formatBraced handles braced parameter lists: the first top-level brace
// group is the list, parameters split on top-level whitespace, and nested
// groups stay verbatim with their braces.
func formatBraced(proto string) *Formatted {
	open := strings.IndexByte(proto, '{')
	if open < 0 {
		return nil
	}
	depth := 0
	closeAt := -1
	for i := open; i < len(proto); i++ {
		switch proto[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				closeAt = i
			}
		}
		if closeAt >= 0 {
			break
		}
	}
	if closeAt < 0 {
		return nil
	}
	params := splitBracedItems(proto[open+1 : closeAt])
	if len(params) == 0 {
		return nil
	}
	return &Formatted{
		Pre:    proto[:open],
		Open:   "{",
		Params: params,
		Close:  "}",
		Post:   proto[closeAt+1:],
	}
}

// splitBracedItems splits a braced list body on top-level whitespace. A
// nested brace group counts as one item, braces retained.
func splitBracedItems(body string) []string {
	var items []string
	i := 0
	for i < len(body) {
		for i < len(body) && isSpaceByte(body[i]) {
			i++
		}
		if i >= len(body) {
			break
		}
		start := i
		if body[i] == '{' {
			depth := 0
			for i < len(body) {
				switch body[i] {
				case '{':
					depth++
				case '}':
					depth--
				}
				i++
				if depth == 0 {
					break
				}
			}
		} else {
			for i < len(body) && !isSpaceByte(body[i]) && body[i] != '{' {
				i++
			}
		}
		items = append(items, strings.TrimRight(body[start:i], " \t"))
	}
	return items
}

// formatMarked handles sigil-free parameter lists: everything after the
// marker splits on commas. There is no closing delimiter, so Close defaults
// to a single space per the output contract.
func formatMarked(proto string, marker string) *Formatted {
	at := strings.Index(proto, marker)
	if at < 0 {
		return nil
	}
	rest := proto[at+len(marker):]
	params := splitTopLevel(rest, func(b byte) bool { return b == ',' })
	if len(params) == 0 {
		return nil
	}
	return &Formatted{
		Pre:    proto[:at],
		Open:   marker,
		Params: params,
		Close:  " ",
	}
}

// splitTopLevel splits s on separator bytes that sit outside any nested
// parentheses, brackets, or braces. Blank pieces are dropped; kept pieces
// are trimmed.
func splitTopLevel(s string, isSep func(byte) bool) []string {
	var parts []string
	depth := 0
	start := 0
	flush := func(end int) {
		p := strings.TrimSpace(s[start:end])
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && isSep(s[i]) {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(s))
	return parts
}
