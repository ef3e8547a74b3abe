package markup

import (
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`\b(?:https?|ftp)://[^\s<>"]+[^\s<>".,;:!?)]`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	linkPattern  = regexp.MustCompile(`<([^<>\n]+)>`)
	descPattern  = regexp.MustCompile(`^(\S[^-]*?)\s+-\s+(.+)$`)
)

// ParseBody converts raw comment body lines into the lightweight markup
// interchange format. Recognized shapes, line by line:
//
//	blank line          paragraph break
//	"- item" / "* item" bullet list entry (indented lines continue it)
//	"term - definition" description list entry
//	"Heading:" alone    heading
//	"> text"            code line, kept verbatim
//	anything else       paragraph text
func ParseBody(lines []string) string {
	var b strings.Builder
	var para []string
	state := stateNone

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		text := strings.Join(para, " ")
		para = nil
		if state == stateBullet {
			b.WriteString("<li>" + inline(text) + "</li>")
			return
		}
		if heading, ok := asHeading(text); ok && state == stateNone {
			b.WriteString("<h>" + inline(heading) + "</h>")
			return
		}
		b.WriteString("<p>" + inline(text) + "</p>")
	}
	closeList := func() {
		switch state {
		case stateBullet:
			flushPara()
			b.WriteString("</ul>")
		case stateDesc:
			b.WriteString("</dl>")
		case stateCode:
			b.WriteString("</code>")
		}
		state = stateNone
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			if state == stateBullet {
				closeList()
			} else if state == stateCode || state == stateDesc {
				closeList()
			}
			flushPara()

		case strings.HasPrefix(trimmed, "> "), trimmed == ">":
			flushPara()
			if state != stateCode {
				closeList()
				b.WriteString("<code>")
				state = stateCode
			} else {
				b.WriteString("\n")
			}
			b.WriteString(escape(strings.TrimPrefix(strings.TrimPrefix(trimmed, ">"), " ")))

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			if state == stateBullet {
				flushPara()
			} else {
				closeList()
				flushPara()
				b.WriteString("<ul>")
				state = stateBullet
			}
			para = append(para, trimmed[2:])

		case state != stateBullet && descPattern.MatchString(trimmed):
			flushPara()
			m := descPattern.FindStringSubmatch(trimmed)
			if state != stateDesc {
				closeList()
				b.WriteString("<dl>")
				state = stateDesc
			}
			b.WriteString("<de>" + inline(m[1]) + "</de><dd>" + inline(m[2]) + "</dd>")

		default:
			if state == stateDesc || state == stateCode {
				closeList()
			}
			if state == stateBullet && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
				closeList()
			}
			para = append(para, trimmed)
		}
	}
	closeList()
	flushPara()
	return b.String()
}

type bodyState int

const (
	stateNone bodyState = iota
	stateBullet
	stateDesc
	stateCode
)

// asHeading reports whether a one-line paragraph is a heading: short, ends
// with a colon, and contains no sentence punctuation before it.
func asHeading(text string) (string, bool) {
	if !strings.HasSuffix(text, ":") || len(text) > 80 {
		return "", false
	}
	body := strings.TrimSuffix(text, ":")
	if body == "" || strings.ContainsAny(body, ".:;") {
		return "", false
	}
	return body, true
}

// inline converts link, URL, and email spans in paragraph text and escapes
// everything else.
func inline(text string) string {
	type span struct {
		start, end int
		tag        string
		inner      string
	}
	var spans []span
	for _, m := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		inner := text[m[2]:m[3]]
		tag := "link"
		switch {
		case urlPattern.MatchString(inner) && urlPattern.FindString(inner) == inner:
			tag = "url"
		case emailPattern.MatchString(inner) && emailPattern.FindString(inner) == inner:
			tag = "email"
		}
		spans = append(spans, span{start: m[0], end: m[1], tag: tag, inner: inner})
	}
	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(plainInline(text[last:s.start]))
		b.WriteString("<" + s.tag + ">" + escape(s.inner) + "</" + s.tag + ">")
		last = s.end
	}
	b.WriteString(plainInline(text[last:]))
	return b.String()
}

// plainInline escapes text and converts bare URLs and email addresses.
func plainInline(text string) string {
	out := escapeKeepMarks(text)
	out = urlPattern.ReplaceAllStringFunc(out, func(u string) string {
		return "<url>" + u + "</url>"
	})
	out = emailPattern.ReplaceAllStringFunc(out, func(e string) string {
		return "<email>" + e + "</email>"
	})
	return out
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeKeepMarks escapes like escape; the caller substitutes URL and email
// spans afterwards, which contain no escapable characters.
func escapeKeepMarks(s string) string {
	return escape(s)
}

// Links returns the free-text link expressions in a markup body, in order.
// The symbol table registers each of these for resolution.
func Links(body string) []string {
	var links []string
	for _, m := range regexp.MustCompile(`<link>(.*?)</link>`).FindAllStringSubmatch(body, -1) {
		links = append(links, unescape(m[1]))
	}
	return links
}

// DescriptionTerms returns the <de> terms of a markup body, used to collect
// the per-entry symbols of list topics.
func DescriptionTerms(body string) []string {
	var terms []string
	for _, m := range regexp.MustCompile(`<de>(.*?)</de>`).FindAllStringSubmatch(body, -1) {
		terms = append(terms, unescape(m[1]))
	}
	return terms
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

// Summary extracts the one-sentence summary from a markup body: the first
// paragraph's text up to and including the first sentence-ending period,
// with inline tags stripped.
func Summary(body string) string {
	m := regexp.MustCompile(`<p>(.*?)</p>`).FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	text := regexp.MustCompile(`</?(?:link|url|email)>`).ReplaceAllString(m[1], "")
	text = unescape(text)
	for i := 0; i < len(text); i++ {
		if text[i] != '.' {
			continue
		}
		if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\t' {
			return text[:i+1]
		}
	}
	return text
}
