// Package annotate provides the linguistic annotation contract consumed by
// the schedule extraction pipeline: part-of-speech tagged tokens plus
// DATE/TIME entity spans for a single clause.
package annotate

import (
	"context"
)

// POS is the coarse part-of-speech tag of a token.
type POS string

const (
	POSNoun  POS = "NOUN"
	POSVerb  POS = "VERB"
	POSAdj   POS = "ADJ"
	POSAdv   POS = "ADV"
	POSAdp   POS = "ADP"
	POSOther POS = "OTHER"
)

// EntityKind is the label of a recognized entity span.
type EntityKind string

const (
	EntityDate EntityKind = "DATE"
	EntityTime EntityKind = "TIME"
)

// Token is a single annotated token of a clause.
type Token struct {
	Text  string `json:"text"`
	POS   POS    `json:"pos"`
	Lemma string `json:"lemma"`
	Index int    `json:"index"`
}

// Entity is a contiguous DATE or TIME span over the token sequence.
// Start and End are token indexes; End is exclusive.
type Entity struct {
	Text  string     `json:"text"`
	Kind  EntityKind `json:"kind"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// Annotation is the full annotator output for one clause.
type Annotation struct {
	Tokens   []Token  `json:"tokens"`
	Entities []Entity `json:"entities"`
}

// Empty reports whether the annotation carries no tokens at all.
func (a *Annotation) Empty() bool {
	return a == nil || len(a.Tokens) == 0
}

// EntitiesOf returns the entity spans with the given kind, in order.
func (a *Annotation) EntitiesOf(kind EntityKind) []Entity {
	if a == nil {
		return nil
	}
	var out []Entity
	for _, e := range a.Entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// InEntity reports whether the token at index idx is covered by any
// DATE or TIME entity span.
func (a *Annotation) InEntity(idx int) bool {
	if a == nil {
		return false
	}
	for _, e := range a.Entities {
		if idx >= e.Start && idx < e.End {
			return true
		}
	}
	return false
}

// Annotator produces annotations for clauses. Implementations must be
// deterministic for identical input and free of side effects; callers treat
// annotation failure as "no tokens, no entities" rather than a hard error.
type Annotator interface {
	Annotate(ctx context.Context, clause string) (*Annotation, error)
}
