package annotate

import (
	"context"
)

// Mock is an Annotator for tests. It replays canned annotations keyed by
// clause text and falls back to the builtin tagger for anything else, so a
// test can pin down just the clauses it cares about.
type Mock struct {
	// Canned maps clause text to the annotation to return.
	Canned map[string]*Annotation
	// Err, when set, is returned for every clause.
	Err error

	fallback *Tagger
}

// NewMock creates a Mock with no canned annotations.
func NewMock() *Mock {
	return &Mock{Canned: map[string]*Annotation{}}
}

// Annotate returns the canned annotation for the clause, or the builtin
// tagger's output when none is registered.
func (m *Mock) Annotate(ctx context.Context, clause string) (*Annotation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if ann, ok := m.Canned[clause]; ok {
		return ann, nil
	}
	if m.fallback == nil {
		m.fallback = NewTagger()
	}
	return m.fallback.Annotate(ctx, clause)
}

var _ Annotator = (*Mock)(nil)
