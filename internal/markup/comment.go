package markup

import (
	"regexp"
	"strings"

	"github.com/scribedocs/scribe/internal/topic"
)

var headerPattern = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z ]*?)\s*:\s*(\S.*?)\s*$`)

// ParseComment turns the cleaned lines of one documentation comment into
// topics. A line of the form "Keyword: Title" with a recognized keyword
// starts a topic; everything up to the next header is its body. Lines before
// the first header are discarded (the comment documents nothing). startLine
// is the 1-based source line of the first comment line, used to stamp topic
// line numbers.
//
// Bodies are converted to markup and summarized here; list topics collect
// their per-entry symbols from the description list terms.
func ParseComment(lines []string, startLine int) []*topic.Topic {
	var topics []*topic.Topic
	var bodyLines []string
	var current *topic.Topic

	finish := func() {
		if current == nil {
			bodyLines = nil
			return
		}
		body := ParseBody(trimBlankEdges(bodyLines))
		current.Body = body
		current.Summary = Summary(body)
		if current.Kind.IsList() {
			current.ListSymbols = DescriptionTerms(body)
		}
		topics = append(topics, current)
		current = nil
		bodyLines = nil
	}

	for i, line := range lines {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			if kind, ok := KindForKeyword(m[1]); ok {
				finish()
				current = &topic.Topic{
					Kind:       kind,
					Title:      m[2],
					LineNumber: startLine + i,
				}
				continue
			}
		}
		bodyLines = append(bodyLines, line)
	}
	finish()
	return topics
}

func trimBlankEdges(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
