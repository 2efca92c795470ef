package extract

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp"
	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp/shallow"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

var src = Source{ReviewID: "r1", ReviewIndex: 0, Timestamp: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}

func tok(i int, text, tag, dep string, head int) nlp.Token {
	return nlp.Token{Index: i, Text: text, Lemma: text, Tag: tag, Dep: dep, Head: head}
}

func builtin(t *testing.T, name string) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	return tax
}

type got struct {
	key, phrase string
	kind        TriggerKind
}

func summarize(ms []Mention) []got {
	out := make([]got, len(ms))
	for i, m := range ms {
		out[i] = got{m.Key(), m.Phrase, m.Trigger}
	}
	return out
}

func TestPrepositionalPhrase(t *testing.T) {
	s := nlp.Sentence{
		Text: "We used it during a holiday party.",
		Tokens: []nlp.Token{
			tok(0, "We", nlp.PRON, nlp.DepNsubj, 1),
			tok(1, "used", nlp.VERB, nlp.DepRoot, -1),
			tok(2, "it", nlp.PRON, nlp.DepDobj, 1),
			tok(3, "during", nlp.ADP, nlp.DepPrep, 1),
			tok(4, "a", nlp.DET, nlp.DepDet, 6),
			tok(5, "holiday", nlp.NOUN, nlp.DepCompound, 6),
			tok(6, "party", nlp.NOUN, nlp.DepPobj, 3),
			tok(7, ".", nlp.PUNCT, nlp.DepPunct, 1),
		},
	}
	ms, err := ForTaxonomy(builtin(t, "scenario")).Sentence(src, s)
	if err != nil {
		t.Fatal(err)
	}
	want := []got{{"activity_type/special_occasion", "holiday party", KindPrepositional}}
	if !reflect.DeepEqual(summarize(ms), want) {
		t.Fatalf("mentions = %+v, want %+v", summarize(ms), want)
	}
	m := ms[0]
	if m.ReviewID != "r1" || m.Sentence != s.Text || !m.Timestamp.Equal(src.Timestamp) || m.Keyword != "party" {
		t.Errorf("mention fields = %+v", m)
	}
}

func TestDescriptiveSkipsCapturedTokens(t *testing.T) {
	// "relaxing in the quiet garden": "quiet" alone would match condition/noise
	s := nlp.Sentence{
		Text: "relaxing in the quiet garden",
		Tokens: []nlp.Token{
			tok(0, "relaxing", nlp.VERB, nlp.DepRoot, -1),
			tok(1, "in", nlp.ADP, nlp.DepPrep, 0),
			tok(2, "the", nlp.DET, nlp.DepDet, 4),
			tok(3, "quiet", nlp.ADJ, nlp.DepAmod, 4),
			tok(4, "garden", nlp.NOUN, nlp.DepPobj, 1),
		},
	}
	ms, err := ForTaxonomy(builtin(t, "scenario")).Sentence(src, s)
	if err != nil {
		t.Fatal(err)
	}
	want := []got{{"environment/outdoor", "quiet garden", KindPrepositional}}
	if !reflect.DeepEqual(summarize(ms), want) {
		t.Fatalf("mentions = %+v, want %+v", summarize(ms), want)
	}
}

func TestPostModifierSubtree(t *testing.T) {
	s := nlp.Sentence{
		Text: "party in the garden",
		Tokens: []nlp.Token{
			tok(0, "party", nlp.NOUN, nlp.DepRoot, -1),
			tok(1, "in", nlp.ADP, nlp.DepPrep, 0),
			tok(2, "the", nlp.DET, nlp.DepDet, 3),
			tok(3, "garden", nlp.NOUN, nlp.DepPobj, 1),
		},
	}
	ms, err := ForTaxonomy(builtin(t, "scenario")).Sentence(src, s)
	if err != nil {
		t.Fatal(err)
	}
	want := []got{
		{"environment/outdoor", "garden", KindPrepositional},
		{"activity_type/special_occasion", "party in the garden", KindDescriptive},
	}
	if !reflect.DeepEqual(summarize(ms), want) {
		t.Fatalf("mentions = %+v, want %+v", summarize(ms), want)
	}
}

func TestOneMentionPerEntry(t *testing.T) {
	tax, err := taxonomy.New("t", []taxonomy.Entry{
		{Main: "a", Sub: "x", Keywords: []string{"part"}},
		{Main: "b", Sub: "y", Keywords: []string{"garden"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := nlp.Sentence{
		Text: "parties and gardens and parties",
		Tokens: []nlp.Token{
			tok(0, "parties", nlp.NOUN, nlp.DepRoot, -1),
			tok(1, "and", nlp.CCONJ, nlp.DepCC, 0),
			tok(2, "gardens", nlp.NOUN, nlp.DepConj, 0),
			tok(3, "and", nlp.CCONJ, nlp.DepCC, 2),
			tok(4, "parties", nlp.NOUN, nlp.DepConj, 2),
		},
	}
	ms, err := ForTaxonomy(tax).Sentence(src, s)
	if err != nil {
		t.Fatal(err)
	}
	want := []got{{"a/x", "parties", KindDescriptive}, {"b/y", "gardens", KindDescriptive}}
	if !reflect.DeepEqual(summarize(ms), want) {
		t.Fatalf("mentions = %+v, want %+v", summarize(ms), want)
	}
}

func TestVerbalTrigger(t *testing.T) {
	s := nlp.Sentence{
		Text: "bought it to protect the floor",
		Tokens: []nlp.Token{
			tok(0, "bought", nlp.VERB, nlp.DepRoot, -1),
			tok(1, "it", nlp.PRON, nlp.DepDobj, 0),
			tok(2, "to", nlp.PART, nlp.DepAux, 3),
			tok(3, "protect", nlp.VERB, nlp.DepAdvcl, 0),
			tok(4, "the", nlp.DET, nlp.DepDet, 5),
			tok(5, "floor", nlp.NOUN, nlp.DepDobj, 3),
		},
	}
	ms, err := ForTaxonomy(builtin(t, "purpose")).Sentence(src, s)
	if err != nil {
		t.Fatal(err)
	}
	want := []got{{"maintenance/verbs", "protect the floor", KindVerbal}}
	if !reflect.DeepEqual(summarize(ms), want) {
		t.Fatalf("mentions = %+v, want %+v", summarize(ms), want)
	}
}

func TestMalformedSentence(t *testing.T) {
	s := nlp.Sentence{Text: "x y", Tokens: []nlp.Token{
		tok(0, "x", nlp.NOUN, nlp.DepDep, 1),
		tok(1, "y", nlp.NOUN, nlp.DepDep, 0),
	}}
	_, err := ForTaxonomy(builtin(t, "scenario")).Sentence(src, s)
	if !errors.Is(err, internalerr.ErrMalformedSentence) {
		t.Fatalf("expected ErrMalformedSentence, got %v", err)
	}
}

func TestCompositeOrder(t *testing.T) {
	s := nlp.Sentence{Tokens: []nlp.Token{
		tok(0, "party", nlp.NOUN, nlp.DepRoot, -1),
		tok(1, "in", nlp.ADP, nlp.DepPrep, 0),
		tok(2, "garden", nlp.NOUN, nlp.DepPobj, 1),
	}}
	trs := Composite{Descriptive{}, Prepositional{}}.Triggers(s)
	want := []Trigger{
		{Seed: 2, Anchor: 1, Kind: KindPrepositional},
		{Seed: 0, Anchor: 0, Kind: KindDescriptive},
		{Seed: 2, Anchor: 2, Kind: KindDescriptive},
	}
	if !reflect.DeepEqual(trs, want) {
		t.Fatalf("triggers = %+v, want %+v", trs, want)
	}
}

func TestWithShallowParser(t *testing.T) {
	p := shallow.NewDefault()
	x := ForTaxonomy(builtin(t, "scenario"))

	tests := []struct {
		text string
		want []string
	}{
		{"We used it during a holiday party.", []string{"activity_type/special_occasion"}},
		{"I kept it on the balcony.", []string{"environment/outdoor"}},
		{"The color matches the picture.", nil},
	}
	for _, tt := range tests {
		sents, err := p.Parse(tt.text)
		if err != nil {
			t.Fatal(err)
		}
		ms, err := x.Review(src, sents)
		if err != nil {
			t.Fatal(err)
		}
		var keys []string
		for _, m := range ms {
			keys = append(keys, m.Key())
		}
		if !reflect.DeepEqual(keys, tt.want) {
			t.Errorf("%q: keys = %v, want %v", tt.text, keys, tt.want)
		}
	}
}

func TestCategorizeDeterministic(t *testing.T) {
	faker := gofakeit.New(7)
	tax := builtin(t, "scenario")
	c := NewCategorizer(tax)

	var keywords []string
	for _, e := range tax.Entries() {
		keywords = append(keywords, e.Keywords...)
	}
	phrases := make([]string, 200)
	for i := range phrases {
		phrases[i] = faker.Adjective() + " " + faker.RandomString(keywords) + " " + faker.Noun()
	}

	first := make(map[string]Match)
	for _, p := range phrases {
		m, _ := c.Categorize(p)
		first[p] = m
	}
	faker.ShuffleStrings(phrases)
	for _, p := range phrases {
		m, _ := c.Categorize(p)
		if !reflect.DeepEqual(m, first[p]) {
			t.Fatalf("Categorize(%q) changed: %+v vs %+v", p, m, first[p])
		}
	}
}
