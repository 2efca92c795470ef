// Package extract finds candidate phrases in parsed sentences and assigns
// them to taxonomy entries.
//
// For every sentence, trigger strategies propose seed tokens. Each seed is
// grown into a span along its dependency children, the span is joined into a
// phrase and the phrase is matched against the taxonomy. Prepositional
// triggers run first; later triggers whose seed already sits inside a
// constructed span or under a captured preposition are skipped, so a word is
// never counted twice. A sentence yields at most one mention per taxonomy
// entry.
package extract

import (
	"strings"
	"time"

	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

// Mention is one categorized phrase.
type Mention struct {
	ReviewID    string      `json:"review_id"`
	ReviewIndex int         `json:"review_index"`
	Main        string      `json:"main_category"`
	Sub         string      `json:"sub_category"`
	EntryIndex  int         `json:"entry_index"`
	Keyword     string      `json:"keyword"`
	Phrase      string      `json:"phrase"`
	Sentence    string      `json:"sentence"`
	Timestamp   time.Time   `json:"timestamp"`
	Trigger     TriggerKind `json:"trigger"`
}

// Key returns the "main/sub" category key.
func (m Mention) Key() string {
	return m.Main + "/" + m.Sub
}

// Source identifies the review a sentence belongs to.
type Source struct {
	ReviewID    string
	ReviewIndex int
	Timestamp   time.Time
}

// Extractor pairs a trigger strategy and span rules with a categorizer.
type Extractor struct {
	cat      *Categorizer
	triggers TriggerStrategy
	span     SpanRules
}

// New creates an extractor.
func New(cat *Categorizer, triggers TriggerStrategy, span SpanRules) *Extractor {
	return &Extractor{cat: cat, triggers: triggers, span: span}
}

// ForTaxonomy builds an extractor from the taxonomy's extraction profile.
func ForTaxonomy(tax *taxonomy.Taxonomy) *Extractor {
	triggers, span := Profile(tax)
	return New(NewCategorizer(tax), triggers, span)
}

// Profile returns the trigger strategy and span rules described by the
// taxonomy's extraction profile, falling back to the defaults for unset
// fields.
func Profile(tax *taxonomy.Taxonomy) (TriggerStrategy, SpanRules) {
	x := tax.Extraction()

	strategies := Composite{
		Prepositional{Words: x.Prepositions},
		Descriptive{Tags: x.Tags},
	}
	if x.Verbs {
		strategies = append(strategies, Verbal{})
	}

	span := DefaultSpanRules()
	if len(x.Pre) > 0 {
		span.Pre = x.Pre
	}
	if len(x.Post) > 0 {
		span.Post = x.Post
	}
	return strategies, span
}

// Sentence extracts the mentions of one sentence. Token graphs that fail
// validation are rejected with an error wrapping ErrMalformedSentence.
func (x *Extractor) Sentence(src Source, s nlp.Sentence) ([]Mention, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	covered := make([]bool, len(s.Tokens))
	seen := make(map[int]bool)
	var out []Mention

	for _, tr := range x.triggers.Triggers(s) {
		if tr.Kind != KindPrepositional && covered[tr.Seed] {
			continue
		}
		span := x.span.Build(s, tr.Seed)
		if len(span.Tokens) == 0 {
			continue
		}
		for _, i := range span.Tokens {
			covered[i] = true
		}
		if tr.Kind == KindPrepositional {
			for _, i := range s.Subtree(tr.Anchor) {
				covered[i] = true
			}
		}

		phrase := span.Phrase()
		m, ok := x.cat.Categorize(phrase)
		if !ok || seen[m.Index] {
			continue
		}
		seen[m.Index] = true
		out = append(out, Mention{
			ReviewID:    src.ReviewID,
			ReviewIndex: src.ReviewIndex,
			Main:        m.Entry.Main,
			Sub:         m.Entry.Sub,
			EntryIndex:  m.Index,
			Keyword:     m.Keyword,
			Phrase:      strings.ToLower(phrase),
			Sentence:    s.Text,
			Timestamp:   src.Timestamp,
			Trigger:     tr.Kind,
		})
	}
	return out, nil
}

// Review extracts every sentence of one review. A malformed sentence aborts
// the review: its error is returned with the mentions found so far discarded.
func (x *Extractor) Review(src Source, sentences []nlp.Sentence) ([]Mention, error) {
	var out []Mention
	for _, s := range sentences {
		ms, err := x.Sentence(src, s)
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
	}
	return out, nil
}
