// Package token implements the lossless lexer shared by every extraction
// strategy. The token stream preserves the input byte-for-byte: concatenating
// the Text of every token reproduces the original file exactly, which lets
// downstream stages reconstruct prototypes and declaration substrings from
// token spans instead of copied strings.
package token

import "strings"

// Type classifies a single token.
type Type int

const (
	// Word is a maximal run of identifier characters (letters, digits, '_').
	Word Type = iota
	// Space is a maximal run of spaces and tabs, never crossing a line break.
	Space
	// LineBreak is one "\n", "\r" or "\r\n" sequence.
	LineBreak
	// Symbol is a single punctuation character, or a multi-character
	// comment/string delimiter registered with the tokenizer.
	Symbol
)

func (t Type) String() string {
	switch t {
	case Word:
		return "word"
	case Space:
		return "space"
	case LineBreak:
		return "linebreak"
	case Symbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of a source file.
type Token struct {
	Type Type
	Text string
}

// Span is a half-open [Start, End) range over a token buffer. Downstream
// structures hold spans rather than copied text so that one tokenize pass
// serves every extraction stage.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span covers no tokens.
func (s Span) Empty() bool { return s.End <= s.Start }

// Text reconstructs the exact source substring a span covers.
func (s Span) Text(buf []Token) string {
	if s.Empty() || s.Start < 0 || s.End > len(buf) {
		return ""
	}
	var b strings.Builder
	for _, tok := range buf[s.Start:s.End] {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Join concatenates an entire token buffer back into source text.
func Join(buf []Token) string {
	return Span{Start: 0, End: len(buf)}.Text(buf)
}
