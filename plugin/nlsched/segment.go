package nlsched

import (
	"regexp"
	"strings"

	"github.com/agendamail/agendamail/plugin/annotate"
)

// clauseSplitPattern splits on commas and the standalone word "and".
var clauseSplitPattern = regexp.MustCompile(`,|\band\b`)

// Segment splits a sentence into independently processable clauses. A
// sentence is split only when its annotation carries two or more DATE/TIME
// entities; otherwise it is returned whole. Over-splitting a single event
// that mentions a start and an end time is an accepted trade-off.
func Segment(sentence string, ann *annotate.Annotation) []string {
	trimmed := strings.TrimSpace(sentence)

	mentions := 0
	if ann != nil {
		mentions = len(ann.EntitiesOf(annotate.EntityDate)) + len(ann.EntitiesOf(annotate.EntityTime))
	}
	if mentions < 2 {
		return []string{trimmed}
	}

	parts := clauseSplitPattern.Split(sentence, -1)
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			clauses = append(clauses, part)
		}
	}
	if len(clauses) == 0 {
		return []string{trimmed}
	}
	return clauses
}
