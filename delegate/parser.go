// Package delegate implements the textual delegation-marker protocol by which
// an agent's generated reply hands sub-tasks to other agents. A reply line of
// the form
//
//	[DELEGATE to AgentName]: Task description
//
// is a directive; everything else is prose. Matching is case-insensitive and
// line-scoped: a task description never spans lines, and non-matching lines
// are skipped without stopping the scan. There is no escaping convention, so
// prose that happens to contain the marker on its own line is parsed as a
// directive.
package delegate

import (
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`(?i)\[DELEGATE to (\w+)\]:\s*(.+)`)

// Directive is one extracted (target agent, task text) pair.
type Directive struct {
	Agent string
	Task  string
}

// Parse extracts all delegation directives from a block of agent-produced
// text, preserving first-to-last appearance order. Text with no marker lines
// yields a nil slice.
func Parse(text string) []Directive {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	directives := make([]Directive, 0, len(matches))
	for _, m := range matches {
		directives = append(directives, Directive{
			Agent: m[1],
			Task:  strings.TrimRight(m[2], " \t\r"),
		})
	}
	return directives
}
