package nlsched

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/agendamail/agendamail/plugin/annotate"
)

// Sentinel values substituted for fields that stay unresolved.
const (
	UnknownEventSentinel = "Unknown Event"
	NoDateSentinel       = "No Date"
	NoTimeSentinel       = "No Time"
)

// CancelledSuffix is the canonical textual rendering appended to the label
// of a cancelled event.
const CancelledSuffix = ": Cancelled"

// Record is one extracted schedule entry. Records are immutable once
// assembled and appear in clause order of the source text.
type Record struct {
	Event     string `json:"Event"`
	Date      string `json:"Date"`
	Time      string `json:"Time"`
	Cancelled bool   `json:"Cancelled"`
}

// parseContext carries the most recently resolved date across the clauses
// of one paragraph. It is created fresh per Process call and never shared.
type parseContext struct {
	currentDate string
}

// Service runs the extraction pipeline. It is stateless beyond its
// immutable rule tables and annotator reference; construct once and share.
type Service struct {
	annotator annotate.Annotator
	extractor *Extractor
	now       func() time.Time
}

// NewService creates a pipeline service. A nil annotator selects the
// builtin tagger.
func NewService(annotator annotate.Annotator) *Service {
	if annotator == nil {
		annotator = annotate.NewTagger()
	}
	return &Service{
		annotator: annotator,
		extractor: NewExtractor(annotator),
		now:       time.Now,
	}
}

// IsCancelled reports whether the clause mentions a cancellation.
func IsCancelled(clause string) bool {
	lowered := strings.ToLower(clause)
	return strings.Contains(lowered, "cancelled") || strings.Contains(lowered, "canceled")
}

// Process extracts schedule records from the paragraph anchored at the
// current time.
func (s *Service) Process(ctx context.Context, paragraph string) []Record {
	return s.ProcessAt(ctx, paragraph, s.now())
}

// ProcessAt extracts schedule records from the paragraph with an explicit
// "today" anchor. Output is deterministic for identical (paragraph, today).
func (s *Service) ProcessAt(ctx context.Context, paragraph string, today time.Time) []Record {
	records := []Record{}
	pctx := &parseContext{}

	for _, sentence := range splitSentences(paragraph) {
		ann := s.annotate(ctx, sentence)
		for _, clause := range Segment(sentence, ann) {
			if record, ok := s.processClause(ctx, clause, today, pctx); ok {
				records = append(records, record)
			}
		}
	}

	return records
}

// splitSentences splits a paragraph on terminal periods, re-appending the
// period and discarding empty fragments.
func splitSentences(paragraph string) []string {
	parts := strings.Split(paragraph, ".")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			sentences = append(sentences, part+".")
		}
	}
	return sentences
}

// processClause resolves one clause into a record. The boolean is false
// when the clause is suppressed as noise (no event label and no time).
func (s *Service) processClause(ctx context.Context, clause string, today time.Time, pctx *parseContext) (Record, bool) {
	ann := s.annotate(ctx, clause)

	// Resolve dates, threading the carry-forward context.
	var resolved []string
	for _, ent := range ann.EntitiesOf(annotate.EntityDate) {
		t, ok := NormalizeDate(ent.Text, today)
		if !ok {
			slog.Debug("unresolvable date phrase", "phrase", ent.Text)
			continue
		}
		canonical := FormatDate(t)
		resolved = append(resolved, canonical)
		pctx.currentDate = canonical
	}
	date := strings.Join(resolved, ", ")
	if date == "" {
		if pctx.currentDate != "" {
			date = pctx.currentDate
		} else {
			date = FormatDate(today)
		}
	}

	// Resolve times.
	var times []string
	for _, ent := range ann.EntitiesOf(annotate.EntityTime) {
		times = append(times, NormalizeTime(ent.Text))
	}
	timeField := strings.Join(times, ", ")

	label := s.extractor.Extract(ctx, clause, ann)
	if label == NoEventLabel && len(times) == 0 {
		return Record{}, false
	}

	cancelled := IsCancelled(clause)
	if cancelled {
		label += CancelledSuffix
	}

	record := Record{
		Event:     label,
		Date:      date,
		Time:      timeField,
		Cancelled: cancelled,
	}
	return normalizeRecord(record), true
}

// normalizeRecord substitutes the documented sentinels for missing fields.
func normalizeRecord(r Record) Record {
	if r.Event == "" {
		r.Event = UnknownEventSentinel
	}
	if r.Date == "" {
		r.Date = NoDateSentinel
	}
	if r.Time == "" {
		r.Time = NoTimeSentinel
	}
	return r
}

// annotate degrades annotator failure to an empty annotation; the cascade
// then falls through to its final fallbacks instead of aborting.
func (s *Service) annotate(ctx context.Context, clause string) *annotate.Annotation {
	ann, err := s.annotator.Annotate(ctx, clause)
	if err != nil || ann == nil {
		if err != nil {
			slog.Debug("annotation failed, continuing with empty annotation", "error", err)
		}
		return &annotate.Annotation{}
	}
	return ann
}
