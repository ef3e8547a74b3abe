package extract

import (
	"strings"

	"github.com/scribedocs/scribe/internal/lang"
	"github.com/scribedocs/scribe/internal/markup"
	"github.com/scribedocs/scribe/internal/token"
	"github.com/scribedocs/scribe/internal/topic"
)

// frameKind tags what construct a scope frame belongs to. Declarations are
// only auto-detected at file, namespace, and class level; function and
// block bodies are skipped over.
type frameKind int

const (
	frameFile frameKind = iota
	frameNamespace
	frameClass
	frameFunction
	frameBlock
)

// scopeFrame is one entry of the scope stack. Fields left empty at push
// time inherit from the frame below; the push helper resolves that
// inheritance eagerly so lookups stay O(1).
type scopeFrame struct {
	closeSym   string
	namespace  string
	pkg        string
	protection string
	using      []string
	kind       frameKind
}

// statementExtractor is the scope-aware strategy: tokenize once, then
// repeatedly recognize, in priority order, comments, package declarations,
// function declarations, and variable declarations, tracking brace scopes
// in between. Declarations need no preceding comment; they synthesize
// auto-topics that merge with documentation topics when both exist.
type statementExtractor struct {
	d  *lang.Descriptor
	lx *token.Lexer
}

func newStatementExtractor(d *lang.Descriptor) *statementExtractor {
	return &statementExtractor{d: d, lx: token.NewLexer(d.Delimiters())}
}

// stmtParse is the per-file mutable state of one extraction pass.
type stmtParse struct {
	d      *lang.Descriptor
	toks   []token.Token
	pos    int
	line   int
	stack  []scopeFrame
	topics []*topic.Topic

	// pending holds the topics of the most recent documentation comment;
	// the next declaration may claim one of them instead of emitting an
	// auto-topic. Cleared by the first statement after the comment.
	pending []*topic.Topic
}

func (e *statementExtractor) Extract(source string) []*topic.Topic {
	p := &stmtParse{
		d:     e.d,
		toks:  e.lx.Tokenize(source),
		line:  1,
		stack: []scopeFrame{{kind: frameFile}},
	}
	p.run()
	return p.topics
}

func (p *stmtParse) run() {
	for p.pos < len(p.toks) {
		p.skipBlank()
		if p.pos >= len(p.toks) {
			break
		}
		if p.atLineComment() {
			p.handleLineComments()
			continue
		}
		if pair, ok := p.atBlockComment(); ok {
			p.handleBlockComment(pair)
			continue
		}
		p.parseStatement()
	}
	// An unclosed scope at EOF is tolerated: partial files simply stop
	// being scope-tracked.
}

func (p *stmtParse) current() *scopeFrame { return &p.stack[len(p.stack)-1] }

// push enters a scope, inheriting unset attributes from the frame below.
func (p *stmtParse) push(f scopeFrame) {
	below := p.current()
	if f.namespace == "" {
		f.namespace = below.namespace
	}
	if f.pkg == "" {
		f.pkg = below.pkg
	}
	if f.protection == "" {
		f.protection = below.protection
	}
	p.stack = append(p.stack, f)
}

func (p *stmtParse) pop() {
	if len(p.stack) > 1 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// visibleUsing collects the using scopes visible at the current position,
// outermost first.
func (p *stmtParse) visibleUsing() []string {
	var out []string
	for _, f := range p.stack {
		out = append(out, f.using...)
	}
	return out
}

func (p *stmtParse) advance() {
	if p.pos < len(p.toks) {
		if p.toks[p.pos].Type == token.LineBreak {
			p.line++
		}
		p.pos++
	}
}

func (p *stmtParse) skipBlank() {
	for p.pos < len(p.toks) {
		t := p.toks[p.pos].Type
		if t != token.Space && t != token.LineBreak {
			return
		}
		p.advance()
	}
}

func (p *stmtParse) atLineComment() bool {
	return p.matchSymbol(p.d.LineComments) != ""
}

func (p *stmtParse) atBlockComment() (lang.CommentPair, bool) {
	for _, pair := range p.d.BlockComments {
		if p.toks[p.pos].Text == pair.Open {
			return pair, true
		}
	}
	return lang.CommentPair{}, false
}

func (p *stmtParse) matchSymbol(symbols []string) string {
	for _, s := range symbols {
		if p.toks[p.pos].Text == s {
			return s
		}
	}
	return ""
}

// handleLineComments consumes a run of consecutive line comments and parses
// it as one documentation comment.
func (p *stmtParse) handleLineComments() {
	startLine := p.line
	var lines []string
	for p.pos < len(p.toks) && p.atLineComment() {
		p.advance() // the comment symbol
		var b strings.Builder
		for p.pos < len(p.toks) && p.toks[p.pos].Type != token.LineBreak {
			b.WriteString(p.toks[p.pos].Text)
			p.advance()
		}
		p.advance() // the line break
		text := strings.TrimPrefix(b.String(), " ")
		if isDecoration(strings.TrimSpace(text)) {
			text = ""
		}
		lines = append(lines, text)
		// Only directly following comment lines continue the run.
		mark := p.pos
		p.skipSpaces()
		if p.pos >= len(p.toks) || !p.atLineComment() {
			p.pos = mark
			break
		}
	}
	p.finishComment(lines, startLine)
}

// handleBlockComment consumes one block comment. If non-whitespace follows
// the closing symbol on the same line the comment is rejected as an
// annotation that continues as code, matching the simple strategy.
func (p *stmtParse) handleBlockComment(pair lang.CommentPair) {
	startLine := p.line
	p.advance() // open symbol
	var b strings.Builder
	closed := false
	for p.pos < len(p.toks) {
		if p.toks[p.pos].Text == pair.Close {
			p.advance()
			closed = true
			break
		}
		b.WriteString(p.toks[p.pos].Text)
		p.advance()
	}
	if closed {
		mark := p.pos
		p.skipSpaces()
		if p.pos < len(p.toks) && p.toks[p.pos].Type != token.LineBreak {
			p.pos = mark
			return // rejected: code follows the close on the same line
		}
		p.pos = mark
	}
	lines := splitLines(b.String())
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "*") {
			l = strings.TrimPrefix(strings.TrimPrefix(l, "*"), " ")
		}
		if isDecoration(l) {
			l = ""
		}
		lines[i] = l
	}
	p.finishComment(lines, startLine)
}

func (p *stmtParse) skipSpaces() {
	for p.pos < len(p.toks) && p.toks[p.pos].Type == token.Space {
		p.advance()
	}
}

func (p *stmtParse) finishComment(lines []string, startLine int) {
	parsed := markup.ParseComment(lines, startLine)
	if len(parsed) == 0 {
		return
	}
	cur := p.current()
	for _, tp := range parsed {
		if tp.Package == "" {
			tp.Package = cur.pkg
		}
		tp.Using = append([]string(nil), p.visibleUsing()...)
	}
	p.topics = append(p.topics, parsed...)
	p.pending = parsed
}

// statement is one collected statement: its source span up to (not
// including) the boundary symbol, the boundary itself, the source line it
// starts on, and the indices of its code tokens: the span minus string
// literals and embedded comments, which declaration scanning must not see.
type statement struct {
	span     token.Span
	code     []int
	boundary string
	line     int
}

// parseStatement collects the next statement and classifies it.
func (p *stmtParse) parseStatement() {
	st := p.collectStatement()
	defer func() { p.pending = nil }()

	words := p.stmtWords(st)
	if len(words) == 0 {
		switch st.boundary {
		case "{":
			p.push(scopeFrame{closeSym: "}", kind: frameBlock})
		case "}":
			p.pop()
		}
		return
	}

	rest, protection := stripModifiers(words)
	if len(rest) == 0 {
		p.closeOrPush(st)
		return
	}

	switch strings.ToLower(rest[0]) {
	case "namespace", "package":
		p.handleNamespace(rest[1:], st)
		return
	case "using", "import":
		p.handleUsing(rest[1:])
		p.skipBoundaryScope(st)
		return
	case "class", "struct", "interface", "enum":
		if len(rest) >= 2 {
			p.handleClass(rest[1], protection, st)
			return
		}
	}

	if name, ok := p.functionName(st); ok && p.canAutoDetect() {
		p.handleFunction(name, protection, st)
		return
	}
	if name, ok := p.variableName(st); ok && p.canAutoDetect() {
		p.handleVariable(name, protection, st)
		return
	}
	p.closeOrPush(st)
}

// closeOrPush handles the scope bookkeeping of an unrecognized statement.
func (p *stmtParse) closeOrPush(st statement) {
	switch st.boundary {
	case "{":
		p.push(scopeFrame{closeSym: "}", kind: frameBlock})
	case "}":
		p.pop()
	}
}

// canAutoDetect reports whether declarations at the current scope should
// synthesize topics. Function and block bodies are skipped: their locals
// are not documentation.
func (p *stmtParse) canAutoDetect() bool {
	switch p.current().kind {
	case frameFunction, frameBlock:
		return false
	default:
		return true
	}
}

// collectStatement advances to the next statement boundary. String literals
// and embedded comments stay inside the span (prototypes keep the exact
// source text) but are excluded from the code token list.
func (p *stmtParse) collectStatement() statement {
	start := p.pos
	line := p.line
	var code []int
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		switch {
		case t.Text == ";" || t.Text == "{" || t.Text == "}":
			st := statement{
				span:     token.Span{Start: start, End: p.pos},
				code:     code,
				boundary: t.Text,
				line:     line,
			}
			p.advance()
			return st
		case t.Text == "\"" || t.Text == "'" || t.Text == "`":
			p.skipString(t.Text)
		case p.atLineComment():
			for p.pos < len(p.toks) && p.toks[p.pos].Type != token.LineBreak {
				p.advance()
			}
		default:
			if pair, ok := p.atBlockComment(); ok {
				p.advance()
				for p.pos < len(p.toks) && p.toks[p.pos].Text != pair.Close {
					p.advance()
				}
				p.advance()
				continue
			}
			if t.Type != token.Space && t.Type != token.LineBreak {
				code = append(code, p.pos)
			}
			p.advance()
		}
	}
	return statement{span: token.Span{Start: start, End: p.pos}, code: code, boundary: "", line: line}
}

func (p *stmtParse) skipString(quote string) {
	p.advance() // opening quote
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		if t.Text == "\\" {
			p.advance()
			p.advance()
			continue
		}
		if t.Text == quote || t.Type == token.LineBreak {
			p.advance()
			return
		}
		p.advance()
	}
}

// stmtWords returns the code word tokens of a statement in order.
func (p *stmtParse) stmtWords(st statement) []string {
	var words []string
	for _, i := range st.code {
		if p.toks[i].Type == token.Word {
			words = append(words, p.toks[i].Text)
		}
	}
	return words
}

var modifierWords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "final": true, "abstract": true, "virtual": true,
	"override": true, "export": true, "default": true, "async": true,
	"sealed": true, "readonly": true, "inline": true, "extern": true,
}

var protectionWords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
}

// stripModifiers removes leading modifier keywords, returning the remainder
// and the protection level found, if any.
func stripModifiers(words []string) (rest []string, protection string) {
	i := 0
	for i < len(words) && modifierWords[strings.ToLower(words[i])] {
		if protectionWords[strings.ToLower(words[i])] {
			protection = strings.ToLower(words[i])
		}
		i++
	}
	return words[i:], protection
}

var controlWords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "return": true, "throw": true,
	"catch": true, "try": true, "new": true, "delete": true, "goto": true,
	"break": true, "continue": true, "sizeof": true, "typeof": true,
}

// functionName finds a function declaration's name: the code word
// immediately before the statement's first parenthesis, which must not be a
// control keyword.
func (p *stmtParse) functionName(st statement) (string, bool) {
	parenAt := -1
	for pos, i := range st.code {
		if p.toks[i].Text == "(" {
			parenAt = pos
			break
		}
	}
	if parenAt <= 0 {
		return "", false
	}
	prev := p.toks[st.code[parenAt-1]]
	if prev.Type != token.Word {
		return "", false
	}
	if controlWords[strings.ToLower(prev.Text)] {
		return "", false
	}
	return prev.Text, true
}

// variableName finds a variable declaration's name: the last word before
// the first "=", or the statement's last word when there is no initializer
// but at least two words (type then name). Statements holding parentheses
// or starting with a control keyword never match.
func (p *stmtParse) variableName(st statement) (string, bool) {
	if st.boundary != ";" {
		return "", false
	}
	var words []string
	for _, i := range st.code {
		t := p.toks[i]
		if t.Text == "(" || t.Text == ")" {
			return "", false
		}
		if t.Text == "=" {
			if len(words) == 0 {
				return "", false
			}
			name := words[len(words)-1]
			if controlWords[strings.ToLower(name)] {
				return "", false
			}
			return name, true
		}
		if t.Type == token.Word {
			words = append(words, t.Text)
		}
	}
	if len(words) < 2 {
		return "", false
	}
	if controlWords[strings.ToLower(words[0])] {
		return "", false
	}
	return words[len(words)-1], true
}

func (p *stmtParse) handleNamespace(nameWords []string, st statement) {
	name := strings.Join(nameWords, ".")
	if name == "" {
		p.closeOrPush(st)
		return
	}
	switch st.boundary {
	case "{":
		cur := p.current()
		p.push(scopeFrame{
			closeSym:  "}",
			namespace: topic.JoinSymbol(cur.namespace, name),
			pkg:       topic.JoinSymbol(cur.pkg, name),
			kind:      frameNamespace,
		})
	case ";":
		// File-scoped package declaration applies to the whole file.
		base := &p.stack[0]
		base.namespace = topic.JoinSymbol(base.namespace, name)
		base.pkg = topic.JoinSymbol(base.pkg, name)
		for i := 1; i < len(p.stack); i++ {
			if p.stack[i].pkg == "" {
				p.stack[i].pkg = base.pkg
			}
		}
	}
}

func (p *stmtParse) handleUsing(nameWords []string) {
	name := strings.Join(nameWords, ".")
	if name == "" {
		return
	}
	cur := p.current()
	cur.using = append(cur.using, name)
}

// skipBoundaryScope keeps the scope stack consistent for statements that
// were consumed for their content but still ended on a scope symbol.
func (p *stmtParse) skipBoundaryScope(st statement) {
	p.closeOrPush(st)
}

func (p *stmtParse) handleClass(name, protection string, st statement) {
	if st.boundary != "{" {
		// Forward declaration; nothing to document.
		return
	}
	cur := p.current()
	tp := &topic.Topic{
		Kind:       topic.KindClass,
		Title:      name,
		Package:    cur.pkg,
		Using:      append([]string(nil), p.visibleUsing()...),
		Prototype:  p.declarationText(st, false),
		LineNumber: st.line,
	}
	p.emit(tp, protection)
	p.push(scopeFrame{
		closeSym:   "}",
		pkg:        topic.JoinSymbol(cur.pkg, name),
		protection: "",
		kind:       frameClass,
	})
}

func (p *stmtParse) handleFunction(name, protection string, st statement) {
	cur := p.current()
	tp := &topic.Topic{
		Kind:       topic.KindFunction,
		Title:      name,
		Package:    cur.pkg,
		Using:      append([]string(nil), p.visibleUsing()...),
		Prototype:  p.declarationText(st, st.boundary == ";"),
		LineNumber: st.line,
	}
	p.emit(tp, protection)
	if st.boundary == "{" {
		p.push(scopeFrame{closeSym: "}", kind: frameFunction})
	}
}

func (p *stmtParse) handleVariable(name, protection string, st statement) {
	cur := p.current()
	// The initializer is not part of the prototype.
	end := st.span.End
	for _, i := range st.code {
		if p.toks[i].Text == "=" {
			end = i
			break
		}
	}
	tp := &topic.Topic{
		Kind:       topic.KindVariable,
		Title:      name,
		Package:    cur.pkg,
		Using:      append([]string(nil), p.visibleUsing()...),
		Prototype:  strings.TrimSpace(token.Span{Start: st.span.Start, End: end}.Text(p.toks)),
		LineNumber: st.line,
	}
	p.emit(tp, protection)
}

// declarationText reconstructs the exact source substring of a declaration,
// optionally keeping its terminating semicolon.
func (p *stmtParse) declarationText(st statement, keepSemicolon bool) string {
	text := strings.TrimSpace(st.span.Text(p.toks))
	if keepSemicolon {
		text += ";"
	}
	return text
}

// emit either merges an auto-topic into the pending documentation topic
// that names the same entity, or appends it as its own topic. Public class
// members are exported so they also resolve globally.
func (p *stmtParse) emit(tp *topic.Topic, protection string) {
	if protection == "" {
		protection = p.current().protection
	}
	tp.Exported = p.current().kind == frameClass && protection == "public"

	for _, doc := range p.pending {
		if doc.Kind.Base() != tp.Kind.Base() || doc.Kind.IsList() {
			continue
		}
		if topic.NormalizeSymbol(doc.Title) != topic.NormalizeSymbol(tp.Title) {
			continue
		}
		if doc.Prototype == "" {
			doc.Prototype = tp.Prototype
		}
		doc.LineNumber = min(doc.LineNumber, tp.LineNumber)
		doc.Exported = doc.Exported || tp.Exported
		return
	}
	p.topics = append(p.topics, tp)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
