// Package markup parses documentation comments: it recognizes topic header
// lines ("Function: Foo"), converts body text into the lightweight tag
// vocabulary the renderer consumes, and derives one-sentence summaries. The
// tag set is fixed: p, h, ul/li, dl/de/dd, code, link, url, email.
package markup

import (
	"strings"

	"github.com/scribedocs/scribe/internal/topic"
)

// keywords maps a topic header keyword to its kind. Plural forms map to the
// list variants.
var keywords = map[string]topic.Kind{
	"class":     topic.KindClass,
	"package":   topic.KindClass,
	"struct":    topic.KindClass,
	"namespace": topic.KindClass,
	"interface": topic.KindClass,

	"classes":    topic.KindClassList,
	"packages":   topic.KindClassList,
	"structs":    topic.KindClassList,
	"namespaces": topic.KindClassList,

	"section": topic.KindSection,
	"title":   topic.KindSection,

	"group": topic.KindGroup,

	"function":    topic.KindFunction,
	"func":        topic.KindFunction,
	"procedure":   topic.KindFunction,
	"proc":        topic.KindFunction,
	"method":      topic.KindFunction,
	"constructor": topic.KindFunction,
	"destructor":  topic.KindFunction,
	"callback":    topic.KindFunction,
	"macro":       topic.KindFunction,

	"functions":  topic.KindFunctionList,
	"funcs":      topic.KindFunctionList,
	"procedures": topic.KindFunctionList,
	"methods":    topic.KindFunctionList,
	"callbacks":  topic.KindFunctionList,
	"macros":     topic.KindFunctionList,

	"variable": topic.KindVariable,
	"var":      topic.KindVariable,
	"constant": topic.KindVariable,
	"const":    topic.KindVariable,
	"property": topic.KindVariable,
	"field":    topic.KindVariable,
	"type":     topic.KindVariable,
	"typedef":  topic.KindVariable,
	"enum":     topic.KindVariable,

	"variables":  topic.KindVariableList,
	"vars":       topic.KindVariableList,
	"constants":  topic.KindVariableList,
	"consts":     topic.KindVariableList,
	"properties": topic.KindVariableList,
	"fields":     topic.KindVariableList,
	"types":      topic.KindVariableList,
	"enums":      topic.KindVariableList,

	"file":    topic.KindFile,
	"program": topic.KindFile,
	"script":  topic.KindFile,
	"module":  topic.KindFile,

	"files":    topic.KindFileList,
	"programs": topic.KindFileList,
	"scripts":  topic.KindFileList,

	"topic": topic.KindGeneric,
	"about": topic.KindGeneric,
	"note":  topic.KindGeneric,
}

// KindForKeyword resolves a topic header keyword, case-insensitively.
func KindForKeyword(word string) (topic.Kind, bool) {
	k, ok := keywords[strings.ToLower(strings.TrimSpace(word))]
	return k, ok
}
