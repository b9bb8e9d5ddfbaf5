package annotate

import (
	"context"
	"regexp"
	"strings"
)

// Pre-compiled token patterns.
var (
	numberTokenPattern  = regexp.MustCompile(`^\d{1,2}(:\d{2})?$`)
	ordinalTokenPattern = regexp.MustCompile(`^\d{1,2}(st|nd|rd|th)$`)
	clockTokenPattern   = regexp.MustCompile(`^\d{1,2}:\d{2}(am|pm)?$`)
	meridiemPattern     = regexp.MustCompile(`^\d{1,2}(:\d{2})?(am|pm)$`)
	yearTokenPattern    = regexp.MustCompile(`^\d{4}$`)
	numericDatePattern  = regexp.MustCompile(`^\d{1,4}[-/]\d{1,2}[-/]\d{1,4}$`)
)

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

// adpositions form the ADP closed class.
var adpositions = map[string]bool{
	"at": true, "in": true, "on": true, "with": true, "about": true,
	"for": true, "of": true, "to": true, "from": true, "by": true,
	"during": true, "before": true, "after": true, "until": true,
	"till": true, "between": true, "over": true, "under": true,
	"into": true, "through": true,
}

// functionWords are closed-class words tagged OTHER.
var functionWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true,
	"will": true, "would": true, "shall": true, "should": true,
	"can": true, "could": true, "may": true, "might": true, "must": true,
	"do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true,
	"and": true, "or": true, "but": true, "not": true, "no": true,
	"this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "he": true, "she": true, "they": true,
	"them": true, "we": true, "us": true, "i": true, "you": true,
	"me": true, "my": true, "your": true, "his": true, "her": true,
	"their": true, "our": true, "there": true, "please": true,
	"am": true, "pm": true, "o'clock": true,
	"half": true, "quarter": true, "past": true,
}

var adverbWords = map[string]bool{
	"also": true, "soon": true, "very": true, "quite": true, "too": true,
	"now": true, "then": true, "here": true, "outside": true, "inside": true,
	"maybe": true, "perhaps": true, "again": true, "already": true,
	"still": true, "just": true, "only": true, "really": true, "almost": true,
}

var adjectiveWords = map[string]bool{
	"new": true, "big": true, "small": true, "important": true,
	"urgent": true, "quick": true, "annual": true, "weekly": true,
	"monthly": true, "final": true, "last": true, "next": true,
	"good": true, "great": true, "free": true, "busy": true, "due": true,
	"early": true, "late": true, "long": true, "short": true,
	"key": true, "main": true, "major": true, "online": true,
	"remote": true, "internal": true, "external": true,
}

// nounWords pins noun readings for words the inflection rules would
// otherwise mistake for verbs (gerund-shaped event nouns, verb lookalikes).
var nounWords = map[string]bool{
	"meeting": true, "meetings": true, "planning": true, "training": true,
	"morning": true, "evening": true, "afternoon": true,
	"submission": true, "presentation": true, "deadline": true,
	"discussion": true, "lecture": true, "session": true, "workshop": true,
	"report": true, "call": true, "sync": true, "break": true,
	"plan": true, "launch": true, "review": true, "class": true,
	"interview": true, "conference": true, "appointment": true,
	"seminar": true, "demo": true, "party": true,
	"dinner": true, "lunch": true, "breakfast": true,
}

// verbBases are base-form verbs recognized by the tagger; inflected -ing/-s
// forms are resolved through VerbLemma.
var verbBases = map[string]bool{
	"meet": true, "discuss": true, "submit": true, "present": true,
	"schedule": true, "cancel": true, "postpone": true, "attend": true,
	"join": true, "visit": true, "prepare": true, "complete": true,
	"deliver": true, "arrange": true, "organize": true,
	"start": true, "finish": true, "begin": true, "end": true,
	"walk": true, "go": true, "come": true, "leave": true, "send": true,
	"talk": true, "speak": true, "run": true, "give": true, "take": true,
	"make": true, "move": true, "bring": true, "get": true, "set": true,
}

// irregularPasts maps irregular past forms to their base verb.
var irregularPasts = map[string]string{
	"met": "meet", "sent": "send", "held": "hold", "ran": "run",
	"began": "begin", "spoke": "speak", "went": "go", "gave": "give",
	"took": "take", "made": "make", "came": "come", "left": "leave",
	"got": "get", "brought": "bring",
}

// Tagger is the builtin rule-based annotator. It is used when no tagging
// sidecar is configured and as the deterministic annotator in tests. All
// rule tables are immutable; a single Tagger is safe for concurrent use.
type Tagger struct{}

// NewTagger creates the builtin annotator.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Annotate tokenizes the clause, assigns coarse POS tags and lemmas, and
// recognizes DATE/TIME entity spans.
func (t *Tagger) Annotate(_ context.Context, clause string) (*Annotation, error) {
	words := tokenize(clause)
	tokens := make([]Token, 0, len(words))
	for i, w := range words {
		pos, lemma := classify(w)
		tokens = append(tokens, Token{Text: w, POS: pos, Lemma: lemma, Index: i})
	}
	annotation := &Annotation{Tokens: tokens}
	annotation.Entities = recognizeEntities(tokens)
	return annotation, nil
}

// tokenize splits on whitespace and strips surrounding punctuation, keeping
// word-internal apostrophes ("o'clock") and colons ("3:30").
func tokenize(clause string) []string {
	fields := strings.Fields(clause)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			switch r {
			case '.', ',', ';', '!', '?', '"', '(', ')', '[', ']', '“', '”', '‘', '’':
				return true
			}
			return false
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func classify(word string) (POS, string) {
	lower := strings.ToLower(word)

	switch {
	case adpositions[lower]:
		return POSAdp, lower
	case functionWords[lower]:
		return POSOther, lower
	case adverbWords[lower]:
		return POSAdv, lower
	case adjectiveWords[lower]:
		return POSAdj, lower
	case nounWords[lower]:
		return POSNoun, lower
	}

	if numberTokenPattern.MatchString(lower) || ordinalTokenPattern.MatchString(lower) ||
		meridiemPattern.MatchString(lower) || yearTokenPattern.MatchString(lower) ||
		numericDatePattern.MatchString(lower) {
		return POSOther, lower
	}

	if base, ok := irregularPasts[lower]; ok {
		return POSVerb, base
	}
	if verbBases[lower] {
		return POSVerb, lower
	}
	if strings.HasSuffix(lower, "ing") || strings.HasSuffix(lower, "s") {
		if base := VerbLemma(lower); verbBases[base] {
			return POSVerb, base
		}
	}

	if strings.HasSuffix(lower, "ly") {
		return POSAdv, lower
	}
	for _, suffix := range []string{"ful", "ous", "ive", "able", "ible", "ic"} {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix)+2 {
			return POSAdj, lower
		}
	}
	// Bare -ed forms read as participial adjectives; finite past forms of
	// known verbs are covered by the irregular table.
	if strings.HasSuffix(lower, "ed") {
		return POSAdj, lower
	}

	return POSNoun, lower
}

// VerbLemma reduces an inflected verb form to its base form.
func VerbLemma(word string) string {
	lower := strings.ToLower(word)
	if base, ok := irregularPasts[lower]; ok {
		return base
	}
	if verbBases[lower] {
		return lower
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		return lower[:len(lower)-3] + "y"
	case strings.HasSuffix(lower, "ing") && len(lower) > 4:
		return undouble(lower[:len(lower)-3])
	case strings.HasSuffix(lower, "ied") && len(lower) > 4:
		return lower[:len(lower)-3] + "y"
	case strings.HasSuffix(lower, "ed") && len(lower) > 3:
		return undouble(lower[:len(lower)-2])
	case strings.HasSuffix(lower, "es") && len(lower) > 3:
		stem := lower[:len(lower)-2]
		if verbBases[stem] || strings.HasSuffix(stem, "ss") || strings.HasSuffix(stem, "sh") ||
			strings.HasSuffix(stem, "ch") || strings.HasSuffix(stem, "x") {
			return stem
		}
		return lower[:len(lower)-1]
	case strings.HasSuffix(lower, "s") && len(lower) > 2 && !strings.HasSuffix(lower, "ss"):
		return lower[:len(lower)-1]
	}
	return lower
}

// undouble fixes stems produced by suffix stripping: doubled final
// consonants are collapsed ("submitt" -> "submit") and a dropped final "e"
// is restored when the stem is a known verb that way ("mak" -> "make").
func undouble(stem string) string {
	if verbBases[stem] {
		return stem
	}
	n := len(stem)
	if n >= 2 && stem[n-1] == stem[n-2] && !isVowel(stem[n-1]) {
		if collapsed := stem[:n-1]; verbBases[collapsed] || !verbBases[stem] {
			return collapsed
		}
	}
	if verbBases[stem+"e"] {
		return stem + "e"
	}
	return stem
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// recognizeEntities scans the token sequence for DATE and TIME spans.
// At each position the more specific TIME patterns are tried before DATE
// patterns; matched spans never overlap.
func recognizeEntities(tokens []Token) []Entity {
	var entities []Entity
	i := 0
	for i < len(tokens) {
		if end, ok := matchTime(tokens, i); ok {
			entities = append(entities, makeEntity(tokens, i, end, EntityTime))
			i = end
			continue
		}
		if end, ok := matchDate(tokens, i); ok {
			entities = append(entities, makeEntity(tokens, i, end, EntityDate))
			i = end
			continue
		}
		i++
	}
	return entities
}

func makeEntity(tokens []Token, start, end int, kind EntityKind) Entity {
	parts := make([]string, 0, end-start)
	for _, tok := range tokens[start:end] {
		parts = append(parts, tok.Text)
	}
	return Entity{Text: strings.Join(parts, " "), Kind: kind, Start: start, End: end}
}

func lowerAt(tokens []Token, i int) string {
	if i < 0 || i >= len(tokens) {
		return ""
	}
	return strings.ToLower(tokens[i].Text)
}

func isHourToken(s string) bool {
	return numberTokenPattern.MatchString(s) && !strings.Contains(s, ":")
}

func isMeridiem(s string) bool {
	return s == "am" || s == "pm"
}

// matchTime reports the exclusive end index of a TIME span starting at i.
func matchTime(tokens []Token, i int) (int, bool) {
	w := lowerAt(tokens, i)

	// Idiomatic prefix: "half past 3 [pm]", "quarter to 12 [am]".
	if (w == "half" || w == "quarter") &&
		(lowerAt(tokens, i+1) == "past" || (w == "quarter" && lowerAt(tokens, i+1) == "to")) {
		if third := lowerAt(tokens, i+2); isHourToken(third) || meridiemPattern.MatchString(third) {
			end := i + 3
			if isMeridiem(lowerAt(tokens, end)) {
				end++
			}
			return end, true
		}
	}

	// Explicit numeric range: "12 to 1 [pm]".
	if isHourToken(w) && lowerAt(tokens, i+1) == "to" && isHourToken(lowerAt(tokens, i+2)) {
		end := i + 3
		if isMeridiem(lowerAt(tokens, end)) {
			end++
		}
		return end, true
	}

	// "3 o'clock [pm]".
	if isHourToken(w) && lowerAt(tokens, i+1) == "o'clock" {
		end := i + 2
		if isMeridiem(lowerAt(tokens, end)) {
			end++
		}
		return end, true
	}

	// "3:30", "3:30pm", "3pm" with optional trailing meridiem token.
	if clockTokenPattern.MatchString(w) || meridiemPattern.MatchString(w) {
		end := i + 1
		if isMeridiem(lowerAt(tokens, end)) {
			end++
		}
		return end, true
	}

	// Bare number following "at": "at 3".
	if isHourToken(w) && lowerAt(tokens, i-1) == "at" {
		end := i + 1
		if isMeridiem(lowerAt(tokens, end)) {
			end++
		}
		return end, true
	}

	// Bare number directly followed by a meridiem: "3 pm".
	if isHourToken(w) && isMeridiem(lowerAt(tokens, i+1)) {
		return i + 2, true
	}

	if w == "noon" || w == "midnight" {
		return i + 1, true
	}

	return 0, false
}

// matchDate reports the exclusive end index of a DATE span starting at i.
func matchDate(tokens []Token, i int) (int, bool) {
	w := lowerAt(tokens, i)

	// "[the] day after tomorrow".
	if w == "day" && lowerAt(tokens, i+1) == "after" && lowerAt(tokens, i+2) == "tomorrow" {
		return i + 3, true
	}

	// "next week", "next month", "next Friday", "this Friday".
	if w == "next" || w == "this" {
		second := lowerAt(tokens, i+1)
		if second == "week" || second == "month" || weekdayNames[second] {
			return i + 2, true
		}
	}

	if weekdayNames[w] {
		return i + 1, true
	}

	if w == "today" || w == "tomorrow" || w == "yesterday" {
		return i + 1, true
	}

	// "March 5", "March 5th", "March 5 2026".
	if monthNames[w] {
		second := lowerAt(tokens, i+1)
		if isHourToken(second) || ordinalTokenPattern.MatchString(second) {
			end := i + 2
			if yearTokenPattern.MatchString(lowerAt(tokens, end)) {
				end++
			}
			return end, true
		}
	}

	// "5th [of] March", "5 March".
	if isHourToken(w) || ordinalTokenPattern.MatchString(w) {
		next := i + 1
		if lowerAt(tokens, next) == "of" {
			next++
		}
		if monthNames[lowerAt(tokens, next)] {
			return next + 1, true
		}
	}

	// "the 5th", "the 5th of March".
	if w == "the" && ordinalTokenPattern.MatchString(lowerAt(tokens, i+1)) {
		if end, ok := matchDate(tokens, i+1); ok {
			return end, true
		}
		return i + 2, true
	}

	if ordinalTokenPattern.MatchString(w) {
		return i + 1, true
	}

	// "05-03-25", "2026-03-05", "5/3/26".
	if numericDatePattern.MatchString(w) {
		return i + 1, true
	}

	return 0, false
}
