package extract

import (
	"sort"
	"strings"

	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp"
)

// TriggerKind names the rule that proposed a phrase seed.
type TriggerKind string

const (
	KindPrepositional TriggerKind = "prepositional"
	KindDescriptive   TriggerKind = "descriptive"
	KindVerbal        TriggerKind = "verbal"
)

// Trigger is a candidate phrase seed. Anchor is the token that fired the
// rule: the preposition for prepositional triggers, the seed otherwise.
type Trigger struct {
	Seed   int
	Anchor int
	Kind   TriggerKind
}

// TriggerStrategy proposes phrase seeds for a sentence.
type TriggerStrategy interface {
	Triggers(s nlp.Sentence) []Trigger
}

// DefaultPrepositions are the temporal, locative and causal words that open
// a scenario phrase.
var DefaultPrepositions = []string{"when", "at", "while", "during", "in"}

// DefaultTags are the word classes that seed descriptive phrases.
var DefaultTags = []string{nlp.NOUN, nlp.ADJ}

// Prepositional fires on prep-attached tokens whose text is in Words and
// seeds the phrase with the preposition's object.
type Prepositional struct {
	Words []string
}

func (p Prepositional) Triggers(s nlp.Sentence) []Trigger {
	words := p.Words
	if len(words) == 0 {
		words = DefaultPrepositions
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}

	var out []Trigger
	for _, tok := range s.Tokens {
		if tok.Dep != nlp.DepPrep || !set[strings.ToLower(tok.Text)] {
			continue
		}
		for _, c := range s.Children(tok.Index) {
			if s.Tokens[c].Dep == nlp.DepPobj {
				out = append(out, Trigger{Seed: c, Anchor: tok.Index, Kind: KindPrepositional})
				break
			}
		}
	}
	return out
}

// Descriptive fires on tokens tagged with one of Tags. Pre-modifiers that a
// nominal or adjectival head already absorbs into its own phrase are skipped.
type Descriptive struct {
	Tags []string
}

func (d Descriptive) Triggers(s nlp.Sentence) []Trigger {
	tags := d.Tags
	if len(tags) == 0 {
		tags = DefaultTags
	}
	var out []Trigger
	for _, tok := range s.Tokens {
		if !contains(tags, tok.Tag) || absorbed(s, tok) {
			continue
		}
		out = append(out, Trigger{Seed: tok.Index, Anchor: tok.Index, Kind: KindDescriptive})
	}
	return out
}

func absorbed(s nlp.Sentence, tok nlp.Token) bool {
	if tok.Dep != nlp.DepAmod && tok.Dep != nlp.DepCompound {
		return false
	}
	if tok.Head < 0 || tok.Head <= tok.Index {
		return false
	}
	switch s.Tokens[tok.Head].Tag {
	case nlp.NOUN, nlp.PROPN, nlp.ADJ:
		return true
	}
	return false
}

// Verbal fires on every verb.
type Verbal struct{}

func (Verbal) Triggers(s nlp.Sentence) []Trigger {
	var out []Trigger
	for _, tok := range s.Tokens {
		if tok.Tag == nlp.VERB {
			out = append(out, Trigger{Seed: tok.Index, Anchor: tok.Index, Kind: KindVerbal})
		}
	}
	return out
}

// Composite merges strategies. Prepositional triggers come first, in
// sentence order; all other triggers follow in sentence order.
type Composite []TriggerStrategy

func (c Composite) Triggers(s nlp.Sentence) []Trigger {
	var out []Trigger
	for _, strategy := range c {
		out = append(out, strategy.Triggers(s)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Kind == KindPrepositional, out[j].Kind == KindPrepositional
		if pi != pj {
			return pi
		}
		return out[i].Anchor < out[j].Anchor
	})
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
