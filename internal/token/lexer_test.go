package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TEST PLAN: Lexer
//
// The lexer must be lossless (Join(Tokenize(x)) == x for any input) because
// later stages rebuild prototypes from token spans. Cases:
// 1. Round-trip across representative inputs (code, comments, CRLF, UTF-8)
// 2. Word runs stay single tokens
// 3. Registered multi-character delimiters stay single tokens
// 4. Longest delimiter wins at the same offset
// 5. Whitespace runs never cross line breaks

func TestLexer_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"func Foo(a, b int) error {\n\treturn nil\n}\n",
		"/* block */ code // trailing\r\nnext line\r",
		"x=1;y=2 \t done",
		"π := 3.14 // unicode idents\n",
		"line one\rline two\r\nline three\n",
	}
	lx := NewLexer([]string{"/*", "*/", "//"})
	for _, in := range inputs {
		toks := lx.Tokenize(in)
		assert.Equal(t, in, Join(toks), "round-trip failed for %q", in)
	}
}

func TestLexer_WordRuns(t *testing.T) {
	t.Parallel()

	lx := NewLexer(nil)
	toks := lx.Tokenize("foo_bar42 baz")
	require.Len(t, toks, 3)
	assert.Equal(t, Token{Type: Word, Text: "foo_bar42"}, toks[0])
	assert.Equal(t, Token{Type: Space, Text: " "}, toks[1])
	assert.Equal(t, Token{Type: Word, Text: "baz"}, toks[2])
}

func TestLexer_Delimiters(t *testing.T) {
	t.Parallel()

	lx := NewLexer([]string{"/*", "*/", "//"})
	toks := lx.Tokenize("a/*b*/c")
	require.Len(t, toks, 5)
	assert.Equal(t, Token{Type: Symbol, Text: "/*"}, toks[1])
	assert.Equal(t, Token{Type: Symbol, Text: "*/"}, toks[3])
}

func TestLexer_LongestDelimiterWins(t *testing.T) {
	t.Parallel()

	lx := NewLexer([]string{"/*", "/**"})
	toks := lx.Tokenize("/**doc")
	require.NotEmpty(t, toks)
	assert.Equal(t, Token{Type: Symbol, Text: "/**"}, toks[0])
}

func TestLexer_WhitespaceStopsAtLineBreak(t *testing.T) {
	t.Parallel()

	lx := NewLexer(nil)
	toks := lx.Tokenize("  \n  ")
	require.Len(t, toks, 3)
	assert.Equal(t, Space, toks[0].Type)
	assert.Equal(t, LineBreak, toks[1].Type)
	assert.Equal(t, Space, toks[2].Type)
}

func TestSpan_Text(t *testing.T) {
	t.Parallel()

	lx := NewLexer(nil)
	toks := lx.Tokenize("func Foo()")
	s := Span{Start: 0, End: 3}
	assert.Equal(t, "func Foo", s.Text(toks))
	assert.Equal(t, "", Span{Start: 2, End: 2}.Text(toks))
	assert.Equal(t, "", Span{Start: 5, End: 99}.Text(toks))
}
