package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol_General(t *testing.T) {
	t.Parallel()

	tp := &Topic{Kind: KindFunction, Title: "Bar", Package: "Foo"}
	assert.Equal(t, "Foo.Bar", tp.Symbol())

	tp = &Topic{Kind: KindFunction, Title: "Bar"}
	assert.Equal(t, "Bar", tp.Symbol())
}

func TestSymbol_FileForcesGlobal(t *testing.T) {
	t.Parallel()

	tp := &Topic{Kind: KindFile, Title: "parser.h", Package: "Foo"}
	assert.Equal(t, "parser.h", tp.Symbol())
	// Package is retained for body-scope resolution.
	assert.Equal(t, "Foo", tp.Package)
}

func TestScopePackage_ClassNestsByTitle(t *testing.T) {
	t.Parallel()

	tp := &Topic{Kind: KindClass, Title: "Inner", Package: "Outer"}
	assert.Equal(t, "Outer.Inner", tp.ScopePackage())

	fn := &Topic{Kind: KindFunction, Title: "Bar", Package: "Outer.Inner"}
	assert.Equal(t, "Outer.Inner", fn.ScopePackage())
}

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"Foo::Bar", "Foo.Bar"},
		{"Foo -> Bar", "Foo.Bar"},
		{"Foo . Bar", "Foo.Bar"},
		{"  Foo(a, b)  ", "Foo"},
		{"Foo(a)(b)", "Foo"},
		{"Plain", "Plain"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeSymbol(c.in), "input %q", c.in)
	}
}

func TestStripParams(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Foo", StripParams("Foo(a, b)"))
	assert.Equal(t, "Foo(a", StripParams("Foo(a"))
	assert.Equal(t, "Foo", StripParams("Foo"))
}

func TestKind_Base(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindFunction, KindFunctionList.Base())
	assert.Equal(t, KindClass, KindClassList.Base())
	assert.Equal(t, KindSection, KindSection.Base())
	assert.True(t, KindVariableList.IsList())
	assert.False(t, KindVariable.IsList())
}
