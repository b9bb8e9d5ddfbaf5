package nlsched

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agendamail/agendamail/plugin/annotate"
)

// NoEventLabel is the sentinel label for clauses with no extractable event.
const NoEventLabel = "No event"

// priorityWords maps action words to the activity noun reported for them.
// Order matters: the first key found as a substring of the clause wins.
var priorityWords = []struct {
	word string
	noun string
}{
	{"meet", "meeting"},
	{"submit", "submission"},
	{"present", "presentation"},
	{"deadline", "deadline"},
	{"plan", "planning"},
	{"report", "report"},
	{"discuss", "discussion"},
	{"call", "call"},
	{"sync", "sync"},
	{"launch", "launch"},
	{"lecture", "lecture"},
	{"session", "session"},
	{"workshop", "workshop"},
}

type patternElem struct {
	pos      annotate.POS
	optional bool
}

// eventPatterns are the syntactic templates tried, in priority order, over
// the annotated token sequence.
var eventPatterns = [][]patternElem{
	{{annotate.POSNoun, false}, {annotate.POSNoun, true}},
	{{annotate.POSAdj, false}, {annotate.POSNoun, false}},
	{{annotate.POSVerb, false}, {annotate.POSNoun, true}},
	{{annotate.POSVerb, false}, {annotate.POSAdp, true}, {annotate.POSNoun, false}},
	{{annotate.POSNoun, false}, {annotate.POSAdp, false}, {annotate.POSNoun, false}},
}

// Extractor derives a short human-readable event label from a clause. It
// holds only immutable rule tables plus the annotator used to re-tag
// candidate labels, so a single Extractor is safe for concurrent use.
type Extractor struct {
	annotator annotate.Annotator
}

// NewExtractor creates a label extractor backed by the given annotator.
func NewExtractor(annotator annotate.Annotator) *Extractor {
	if annotator == nil {
		annotator = annotate.NewTagger()
	}
	return &Extractor{annotator: annotator}
}

// Extract runs the heuristic cascade over the clause and its annotation,
// first applicable rule wins, then applies the shared post-processing.
func (e *Extractor) Extract(ctx context.Context, clause string, ann *annotate.Annotation) string {
	return e.postProcess(ctx, e.candidate(clause, ann))
}

func (e *Extractor) candidate(clause string, ann *annotate.Annotation) string {
	lowered := strings.ToLower(clause)

	// Rule 1: priority dictionary over the raw clause.
	for _, p := range priorityWords {
		if strings.Contains(lowered, p.word) {
			return p.noun
		}
	}

	// Rule 2: verb lemmas against the dictionary.
	for _, tok := range tokensOf(ann) {
		if tok.POS != annotate.POSVerb {
			continue
		}
		lemma := tok.Lemma
		if lemma == "" {
			lemma = annotate.VerbLemma(tok.Text)
		}
		for _, p := range priorityWords {
			if lemma == p.word {
				return p.noun
			}
		}
	}

	// Rule 3: syntactic templates; tokens inside DATE/TIME spans are
	// ignored so weekday and clock words never leak into labels.
	if span, ok := matchPatterns(ann); ok {
		return span
	}

	// Rule 4: every noun outside an entity span.
	var nouns []string
	for _, tok := range tokensOf(ann) {
		if tok.POS == annotate.POSNoun && !ann.InEntity(tok.Index) {
			nouns = append(nouns, tok.Text)
		}
	}
	if len(nouns) > 0 {
		return strings.Join(nouns, " ")
	}

	// Rule 5: first verb, noun-lemmatized or turned into a gerund.
	for _, tok := range tokensOf(ann) {
		if tok.POS != annotate.POSVerb {
			continue
		}
		if noun := NounLemma(tok.Text); noun != strings.ToLower(tok.Text) {
			return noun
		}
		base := tok.Lemma
		if base == "" {
			base = annotate.VerbLemma(tok.Text)
		}
		return Gerund(base)
	}

	// Rule 6: the clause itself.
	return strings.TrimSpace(clause)
}

func tokensOf(ann *annotate.Annotation) []annotate.Token {
	if ann == nil {
		return nil
	}
	return ann.Tokens
}

// matchPatterns returns the surface text of the first contiguous template
// match, trying templates in priority order and positions left to right.
func matchPatterns(ann *annotate.Annotation) (string, bool) {
	tokens := tokensOf(ann)
	for _, tmpl := range eventPatterns {
		for start := range tokens {
			if end, ok := matchAt(tokens, ann, start, tmpl); ok {
				parts := make([]string, 0, end-start)
				for _, tok := range tokens[start:end] {
					parts = append(parts, tok.Text)
				}
				return strings.Join(parts, " "), true
			}
		}
	}
	return "", false
}

func matchAt(tokens []annotate.Token, ann *annotate.Annotation, start int, tmpl []patternElem) (int, bool) {
	i := start
	for _, elem := range tmpl {
		if i < len(tokens) && tokens[i].POS == elem.pos && !ann.InEntity(i) {
			i++
			continue
		}
		if elem.optional {
			continue
		}
		return 0, false
	}
	return i, true
}

// postProcess strips meridiem residue, demotes results made of nothing but
// adjectives and adverbs to the no-event sentinel, and capitalizes.
func (e *Extractor) postProcess(ctx context.Context, label string) string {
	label = strings.ReplaceAll(label, " am", "")
	label = strings.ReplaceAll(label, " pm", "")
	label = strings.TrimSpace(label)
	if label == "" {
		return NoEventLabel
	}

	if ann, err := e.annotator.Annotate(ctx, label); err == nil && !ann.Empty() {
		qualifierOnly := true
		for _, tok := range ann.Tokens {
			if tok.POS != annotate.POSAdj && tok.POS != annotate.POSAdv {
				qualifierOnly = false
				break
			}
		}
		if qualifierOnly {
			return NoEventLabel
		}
	}

	return capitalize(label)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
