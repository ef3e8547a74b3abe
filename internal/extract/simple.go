package extract

import (
	"strings"

	"github.com/scribedocs/scribe/internal/lang"
	"github.com/scribedocs/scribe/internal/prototype"
	"github.com/scribedocs/scribe/internal/topic"
)

// simpleExtractor is the line-oriented strategy: classify every line as
// comment or code, parse comment runs into topics, and scan the code run
// after each topic for its prototype.
type simpleExtractor struct {
	d *lang.Descriptor
}

func newSimpleExtractor(d *lang.Descriptor) *simpleExtractor {
	return &simpleExtractor{d: d}
}

// maxPrototypeLines bounds how far past a comment the prototype scan reads
// before giving up. Enders further away than this belong to unrelated code.
const maxPrototypeLines = 20

func (e *simpleExtractor) Extract(source string) []*topic.Topic {
	lines := splitLines(source)

	if e.d.FileIsComment() {
		topics := parseCommentRun(lines, 1)
		applyScopes(topics)
		return topics
	}

	classes := e.classify(lines)

	var topics []*topic.Topic
	i := 0
	for i < len(lines) {
		if classes[i] == lineCode {
			i++
			continue
		}
		// Gather one comment run.
		start := i
		for i < len(lines) && classes[i] != lineCode {
			i++
		}
		run := e.cleanCommentRun(lines[start:i], classes[start:i])
		parsed := parseCommentRun(run, start+1)
		if len(parsed) == 0 {
			continue
		}
		topics = append(topics, parsed...)

		// The code run after the comment may hold the last topic's
		// prototype.
		last := parsed[len(parsed)-1]
		e.attachPrototype(last, lines, classes, i)
	}

	applyScopes(topics)
	return topics
}

type lineClass int

const (
	lineCode lineClass = iota
	lineComment
	blockComment
)

// classify assigns a class to every line. Block comments whose closing
// symbol is followed by non-whitespace on the same line are rejected
// retroactively: annotation syntaxes that look like closed comments but
// continue as code.
func (e *simpleExtractor) classify(lines []string) []lineClass {
	classes := make([]lineClass, len(lines))
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		if e.lineCommentAt(trimmed) {
			classes[i] = lineComment
			i++
			continue
		}

		if pair, ok := e.blockOpenAt(trimmed); ok {
			end, clean := e.scanBlock(lines, i, pair)
			cls := blockComment
			if !clean {
				cls = lineCode
			}
			for j := i; j <= end && j < len(lines); j++ {
				classes[j] = cls
			}
			i = end + 1
			continue
		}

		classes[i] = lineCode
		i++
	}
	return classes
}

func (e *simpleExtractor) lineCommentAt(trimmed string) bool {
	for _, sym := range e.d.LineComments {
		if strings.HasPrefix(trimmed, sym) {
			return true
		}
	}
	return false
}

func (e *simpleExtractor) blockOpenAt(trimmed string) (lang.CommentPair, bool) {
	for _, pair := range e.d.BlockComments {
		if strings.HasPrefix(trimmed, pair.Open) {
			return pair, true
		}
	}
	return lang.CommentPair{}, false
}

// scanBlock finds the line holding the block's closing symbol. clean is
// false when text follows the close on that line, which disqualifies the
// whole block. An unterminated block runs to EOF and is accepted.
func (e *simpleExtractor) scanBlock(lines []string, start int, pair lang.CommentPair) (end int, clean bool) {
	search := strings.TrimSpace(lines[start])[len(pair.Open):]
	for i := start; i < len(lines); i++ {
		if i > start {
			search = lines[i]
		}
		if at := strings.Index(search, pair.Close); at >= 0 {
			rest := search[at+len(pair.Close):]
			return i, strings.TrimSpace(rest) == ""
		}
	}
	return len(lines) - 1, true
}

// cleanCommentRun strips comment symbols and decoration, leaving the text
// handed to the comment parser. Line positions are preserved one to one so
// topic line numbers stay accurate.
func (e *simpleExtractor) cleanCommentRun(lines []string, classes []lineClass) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if classes[i] == lineComment {
			for _, sym := range e.d.LineComments {
				if strings.HasPrefix(trimmed, sym) {
					trimmed = strings.TrimPrefix(trimmed, sym)
					break
				}
			}
		} else {
			for _, pair := range e.d.BlockComments {
				if strings.HasPrefix(trimmed, pair.Open) {
					trimmed = trimmed[len(pair.Open):]
					break
				}
			}
			for _, pair := range e.d.BlockComments {
				if at := strings.Index(trimmed, pair.Close); at >= 0 {
					trimmed = trimmed[:at]
					break
				}
			}
			// Javadoc-style gutter.
			if strings.HasPrefix(trimmed, "*") && !strings.HasPrefix(trimmed, "*/") {
				trimmed = strings.TrimPrefix(trimmed, "*")
			}
		}
		trimmed = strings.TrimPrefix(trimmed, " ")
		if isDecoration(strings.TrimSpace(trimmed)) {
			trimmed = ""
		}
		out[i] = trimmed
	}
	return out
}

// isDecoration reports whether a cleaned line is a horizontal rule of
// repeated punctuation rather than content.
func isDecoration(s string) bool {
	if len(s) < 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '=', '-', '/', '#', '~', '_':
		default:
			return false
		}
	}
	return true
}

// attachPrototype scans the code run starting at firstCode for the topic's
// prototype: skip leading blank lines, then grow a window line by line
// until the normalizer finds an ender. The extracted text must contain the
// topic's title (parameter list stripped) or it is rejected as unrelated
// code. No ender within the window means no prototype, not an error.
func (e *simpleExtractor) attachPrototype(tp *topic.Topic, lines []string, classes []lineClass, firstCode int) {
	isFunction, wants := prototypeKind(tp.Kind)
	if !wants {
		return
	}

	i := firstCode
	for i < len(lines) && classes[i] == lineCode && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	var window []string
	for j := i; j < len(lines) && classes[j] == lineCode && len(window) < maxPrototypeLines; j++ {
		window = append(window, lines[j])
		if e.tryPrototype(tp, strings.Join(window, "\n"), isFunction) {
			return
		}
	}
	// A declaration on the last line of the file has no break after it;
	// give the line-break ender one more chance.
	if len(window) > 0 {
		e.tryPrototype(tp, strings.Join(window, "\n")+"\n", isFunction)
	}
}

// tryPrototype runs the normalizer over a candidate window and attaches the
// result when it passes the title check. It reports whether scanning should
// stop, which is the case once any ender was found.
func (e *simpleExtractor) tryPrototype(tp *topic.Topic, candidate string, isFunction bool) bool {
	proto, ok := prototype.Extract(candidate, e.d, isFunction)
	if !ok {
		return false
	}
	if strings.Contains(proto, topic.StripParams(tp.Title)) {
		tp.Prototype = cleanPrototype(proto, e.d)
	}
	return true
}

// splitLines splits source into lines without their break characters.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	lines := strings.Split(source, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
