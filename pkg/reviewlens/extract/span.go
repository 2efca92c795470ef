package extract

import (
	"sort"
	"strings"

	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp"
)

// SpanRules choose which dependents of a seed extend its phrase. Pre
// dependents left of the seed contribute themselves; Post dependents right of
// the seed contribute their whole subtree.
type SpanRules struct {
	Pre  []string
	Post []string
}

// DefaultSpanRules returns compound/amod pre-modifiers and prep/advmod
// post-modifiers.
func DefaultSpanRules() SpanRules {
	return SpanRules{
		Pre:  []string{nlp.DepCompound, nlp.DepAmod},
		Post: []string{nlp.DepPrep, nlp.DepAdvmod},
	}
}

// Span is a phrase candidate: token indices in sentence order.
type Span struct {
	Tokens []int
	Words  []string
}

// Phrase joins the span words with single spaces.
func (sp Span) Phrase() string {
	return strings.Join(sp.Words, " ")
}

// Build constructs the span rooted at seed.
func (r SpanRules) Build(s nlp.Sentence, seed int) Span {
	picked := map[int]bool{seed: true}
	for _, c := range s.Children(seed) {
		dep := s.Tokens[c].Dep
		switch {
		case c < seed && contains(r.Pre, dep):
			picked[c] = true
		case c > seed && contains(r.Post, dep):
			for _, d := range s.Subtree(c) {
				picked[d] = true
			}
		}
	}

	idx := make([]int, 0, len(picked))
	for i := range picked {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var sp Span
	for _, i := range idx {
		tok := s.Tokens[i]
		if tok.Tag == nlp.PUNCT {
			continue
		}
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			continue
		}
		sp.Tokens = append(sp.Tokens, i)
		sp.Words = append(sp.Words, text)
	}
	return sp
}
