package token

import "sort"

// Lexer splits raw source text into tokens. It is configured with the set of
// multi-character delimiters (comment and string symbols) that must survive
// as single tokens; everything else follows fixed rules. A Lexer is pure
// state-free configuration and safe to reuse across files.
type Lexer struct {
	// delimiters, longest first, so that "/**" wins over "/*" at the same
	// offset.
	delimiters []string
}

// NewLexer builds a lexer that keeps each of the given delimiter strings
// intact as one Symbol token. Single-character and empty delimiters are
// accepted but add nothing: single punctuation is already one token each.
func NewLexer(delimiters []string) *Lexer {
	ds := make([]string, 0, len(delimiters))
	for _, d := range delimiters {
		if len(d) > 1 {
			ds = append(ds, d)
		}
	}
	sort.Slice(ds, func(i, j int) bool { return len(ds[i]) > len(ds[j]) })
	return &Lexer{delimiters: ds}
}

// Tokenize splits text into a token stream. The stream is lossless:
// Join(Tokenize(text)) == text for any input.
func (l *Lexer) Tokenize(text string) []Token {
	var tokens []Token
	i := 0
	n := len(text)
	for i < n {
		c := text[i]
		switch {
		case c == '\r':
			if i+1 < n && text[i+1] == '\n' {
				tokens = append(tokens, Token{Type: LineBreak, Text: "\r\n"})
				i += 2
			} else {
				tokens = append(tokens, Token{Type: LineBreak, Text: "\r"})
				i++
			}
		case c == '\n':
			tokens = append(tokens, Token{Type: LineBreak, Text: "\n"})
			i++
		case c == ' ' || c == '\t':
			j := i
			for j < n && (text[j] == ' ' || text[j] == '\t') {
				j++
			}
			tokens = append(tokens, Token{Type: Space, Text: text[i:j]})
			i = j
		case isWordByte(c):
			j := i
			for j < n && isWordByte(text[j]) {
				j++
			}
			tokens = append(tokens, Token{Type: Word, Text: text[i:j]})
			i = j
		default:
			if d := l.matchDelimiter(text, i); d != "" {
				tokens = append(tokens, Token{Type: Symbol, Text: d})
				i += len(d)
				break
			}
			tokens = append(tokens, Token{Type: Symbol, Text: text[i : i+1]})
			i++
		}
	}
	return tokens
}

// matchDelimiter returns the longest registered delimiter starting at offset,
// or "" when none match.
func (l *Lexer) matchDelimiter(text string, offset int) string {
	for _, d := range l.delimiters {
		if offset+len(d) <= len(text) && text[offset:offset+len(d)] == d {
			return d
		}
	}
	return ""
}

// isWordByte reports whether b belongs to an identifier run. Multi-byte UTF-8
// sequences are treated as word characters so identifiers in any script stay
// one token.
func isWordByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
