// Package shallow is a deterministic rule-based parser: a lexicon and suffix
// tagger followed by a noun-chunk driven dependency attacher. It produces
// spaCy-shaped labels good enough for phrase extraction from short review
// sentences; it is not a general-purpose syntactic parser.
package shallow

import (
	"fmt"
	"strings"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp"
)

// Parser implements nlp.Parser.
type Parser struct {
	lex *Lexicon
}

var _ nlp.Parser = (*Parser)(nil)

// New creates a parser over lex. A nil lexicon selects the embedded one.
func New(lex *Lexicon) *Parser {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Parser{lex: lex}
}

// NewDefault creates a parser with the embedded lexicon.
func NewDefault() *Parser {
	return New(nil)
}

// Parse segments text into sentences and attaches every token to a head.
func (p *Parser) Parse(text string) ([]nlp.Sentence, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", internalerr.ErrInvalidInput)
	}

	var out []nlp.Sentence
	for _, s := range splitSentences(text) {
		words := tokenize(s)
		if len(words) == 0 {
			continue
		}
		out = append(out, p.parseSentence(s, words))
	}
	return out, nil
}

var adjSuffixes = []string{"ous", "ful", "ive", "able", "ible", "less", "ish"}

var demonstratives = map[string]bool{
	"this": true, "that": true, "these": true, "those": true, "which": true, "what": true,
}

func (p *Parser) tagWord(word string) string {
	lower := strings.ToLower(word)
	if isPunct(word) {
		return nlp.PUNCT
	}
	if isNumeric(word) {
		return nlp.NUM
	}
	if tag, ok := p.lex.Lookup(lower); ok {
		return tag
	}
	switch {
	case strings.HasSuffix(lower, "ly") && len(lower) > 4:
		return nlp.ADV
	case strings.HasSuffix(lower, "ing") && len(lower) > 4:
		return nlp.VERB
	case strings.HasSuffix(lower, "ed") && len(lower) > 3:
		return nlp.VERB
	}
	for _, suffix := range adjSuffixes {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix)+2 {
			return nlp.ADJ
		}
	}
	return nlp.NOUN
}

func (p *Parser) tag(words []string) []string {
	tags := make([]string, len(words))
	for i, w := range words {
		tags[i] = p.tagWord(w)
	}
	// nominal readings: "the sound", "a great buy", "while cooking"
	for i := 1; i < len(tags); i++ {
		if tags[i] != nlp.VERB {
			continue
		}
		prev := strings.ToLower(words[i-1])
		switch tags[i-1] {
		case nlp.DET:
			if !demonstratives[prev] {
				tags[i] = nlp.NOUN
			}
		case nlp.ADJ:
			tags[i] = nlp.NOUN
		case nlp.ADP, nlp.SCONJ:
			if strings.HasSuffix(strings.ToLower(words[i]), "ing") {
				tags[i] = nlp.NOUN
			}
		}
	}
	return tags
}

// attacher holds the per-sentence state while heads are assigned.
type attacher struct {
	tags     []string
	chunk    []int // chunk head for members of a noun chunk, -1 otherwise
	start    []int // first member, indexed by chunk head
	prepLike []bool
	root     int
	heads    []int
	deps     []string
}

func (p *Parser) parseSentence(text string, words []string) nlp.Sentence {
	tags := p.tag(words)
	n := len(words)

	a := &attacher{
		tags:     tags,
		prepLike: make([]bool, n),
		heads:    make([]int, n),
		deps:     make([]string, n),
	}
	a.chunk, a.start = chunks(tags)
	for i, t := range tags {
		switch t {
		case nlp.ADP:
			a.prepLike[i] = i+1 >= n || tags[i+1] != nlp.VERB
		case nlp.SCONJ:
			a.prepLike[i] = i+1 < n && a.chunk[i+1] >= 0
		}
	}
	a.root = a.findRoot()
	a.attach()
	a.repair()

	sent := nlp.Sentence{Text: text, Tokens: make([]nlp.Token, n)}
	for i, w := range words {
		sent.Tokens[i] = nlp.Token{
			Index: i,
			Text:  w,
			Lemma: strings.ToLower(w),
			Tag:   tags[i],
			Dep:   a.deps[i],
			Head:  a.heads[i],
		}
	}
	return sent
}

func isNounTag(t string) bool {
	return t == nlp.NOUN || t == nlp.PROPN
}

// chunks groups DET/ADJ/NUM/NOUN runs that end in a noun. The last noun of a
// run is its head. Runs without a noun are left unchunked.
func chunks(tags []string) (head, start []int) {
	n := len(tags)
	head = make([]int, n)
	start = make([]int, n)
	for i := range head {
		head[i] = -1
		start[i] = -1
	}

	fits := func(j int, prev string) bool {
		switch tags[j] {
		case nlp.NOUN, nlp.PROPN:
			return true
		case nlp.DET:
			return prev == "" || prev == nlp.DET
		case nlp.ADJ, nlp.NUM:
			return !isNounTag(prev)
		case nlp.ADV:
			return !isNounTag(prev) && j+1 < n && tags[j+1] == nlp.ADJ
		}
		return false
	}

	for i := 0; i < n; {
		if !fits(i, "") {
			i++
			continue
		}
		j := i + 1
		for j < n && fits(j, tags[j-1]) {
			j++
		}
		if isNounTag(tags[j-1]) {
			h := j - 1
			for k := i; k < j; k++ {
				head[k] = h
			}
			start[h] = i
		}
		i = j
	}
	return head, start
}

func (a *attacher) isChunkHead(i int) bool {
	return a.chunk[i] == i
}

// isNominal reports tokens that take argument roles: chunk heads, pronouns
// and bare determiners or numbers standing in for a noun.
func (a *attacher) isNominal(i int) bool {
	if a.isChunkHead(i) || a.tags[i] == nlp.PRON {
		return true
	}
	if a.chunk[i] != -1 {
		return false
	}
	switch a.tags[i] {
	case nlp.NUM:
		return true
	case nlp.DET:
		next := i + 1
		return next >= len(a.tags) || (a.tags[next] != nlp.ADJ && a.tags[next] != nlp.ADV)
	}
	return false
}

func (a *attacher) startOf(i int) int {
	if a.isChunkHead(i) {
		return a.start[i]
	}
	return i
}

func (a *attacher) findRoot() int {
	for _, want := range []string{nlp.VERB, nlp.AUX} {
		for i, t := range a.tags {
			if t == want {
				return i
			}
		}
	}
	for i := range a.tags {
		if a.isChunkHead(i) {
			s := a.start[i]
			if s == 0 || !a.prepLike[s-1] {
				return i
			}
		}
	}
	for i, t := range a.tags {
		if (t == nlp.ADJ || t == nlp.ADV) && a.chunk[i] == -1 {
			return i
		}
	}
	for i, t := range a.tags {
		if t != nlp.PUNCT {
			return i
		}
	}
	return 0
}

func (a *attacher) prevSkipping(i int, skip ...string) int {
	for j := i - 1; j >= 0; j-- {
		if !contains(skip, a.tags[j]) {
			return j
		}
	}
	return -1
}

func (a *attacher) prevOf(i int, want ...string) int {
	for j := i - 1; j >= 0; j-- {
		if contains(want, a.tags[j]) {
			return j
		}
	}
	return -1
}

// nextOf scans forward for a wanted tag, stopping at punctuation.
func (a *attacher) nextOf(i int, want ...string) int {
	for j := i + 1; j < len(a.tags); j++ {
		if a.tags[j] == nlp.PUNCT {
			return -1
		}
		if contains(want, a.tags[j]) {
			return j
		}
	}
	return -1
}

// verbAfter finds the predicate following a subject: the next verb, looking
// past adverbs, negation and auxiliaries, else the first auxiliary (copula).
func (a *attacher) verbAfter(i int) int {
	aux := -1
	for j := i + 1; j < len(a.tags); j++ {
		switch a.tags[j] {
		case nlp.ADV, nlp.PART:
			continue
		case nlp.AUX:
			if aux == -1 {
				aux = j
			}
			continue
		case nlp.VERB:
			return j
		}
		break
	}
	return aux
}

func (a *attacher) set(i, head int, dep string) {
	a.heads[i] = head
	a.deps[i] = dep
}

func (a *attacher) attach() {
	for i, t := range a.tags {
		if i == a.root {
			a.set(i, -1, nlp.DepRoot)
			continue
		}
		switch {
		case a.chunk[i] >= 0 && !a.isChunkHead(i):
			a.attachModifier(i)
		case a.isNominal(i):
			a.attachNominal(i)
		case t == nlp.ADP || t == nlp.SCONJ:
			a.attachPreposition(i)
		case t == nlp.VERB:
			if p := a.prevSkipping(i, nlp.ADV); p >= 0 && a.tags[p] == nlp.CCONJ {
				a.set(i, a.root, nlp.DepConj)
			} else {
				a.set(i, a.root, nlp.DepAdvcl)
			}
		case t == nlp.AUX:
			if v := a.nextOf(i, nlp.VERB); v >= 0 {
				a.set(i, v, nlp.DepAux)
			} else if p := a.prevSkipping(i, nlp.ADV); p >= 0 && a.tags[p] == nlp.CCONJ {
				a.set(i, a.root, nlp.DepConj)
			} else {
				a.set(i, a.root, nlp.DepDep)
			}
		case t == nlp.ADJ:
			if v := a.prevSkipping(i, nlp.ADV, nlp.PART); v >= 0 && (a.tags[v] == nlp.VERB || a.tags[v] == nlp.AUX) {
				a.set(i, v, nlp.DepAcomp)
			} else {
				a.set(i, a.root, nlp.DepDep)
			}
		case t == nlp.ADV:
			a.attachAdverb(i)
		case t == nlp.PART:
			if h := a.nextOf(i, nlp.VERB, nlp.ADJ); h >= 0 {
				a.set(i, h, nlp.DepNeg)
			} else if h := a.prevOf(i, nlp.VERB, nlp.AUX); h >= 0 {
				a.set(i, h, nlp.DepNeg)
			} else {
				a.set(i, a.root, nlp.DepNeg)
			}
		case t == nlp.CCONJ:
			h := a.root
			for j := i - 1; j >= 0; j-- {
				if a.isChunkHead(j) || a.tags[j] == nlp.VERB {
					h = j
					break
				}
			}
			a.set(i, h, nlp.DepCC)
		case t == nlp.PUNCT:
			a.set(i, a.root, nlp.DepPunct)
		case t == nlp.DET && i+1 < len(a.tags):
			a.set(i, i+1, nlp.DepDet)
		default:
			a.set(i, a.root, nlp.DepDep)
		}
	}
}

func (a *attacher) attachModifier(i int) {
	h := a.chunk[i]
	switch a.tags[i] {
	case nlp.NOUN, nlp.PROPN:
		a.set(i, h, nlp.DepCompound)
	case nlp.ADJ:
		a.set(i, h, nlp.DepAmod)
	case nlp.DET:
		a.set(i, h, nlp.DepDet)
	case nlp.NUM:
		a.set(i, h, nlp.DepNummod)
	case nlp.ADV:
		a.set(i, i+1, nlp.DepAdvmod)
	default:
		a.set(i, h, nlp.DepDep)
	}
}

func (a *attacher) attachNominal(h int) {
	s := a.startOf(h)
	prev := s - 1
	if prev >= 0 && a.prepLike[prev] {
		a.set(h, prev, nlp.DepPobj)
		return
	}
	if v := a.prevSkipping(s, nlp.ADV); v >= 0 && a.tags[v] == nlp.VERB {
		a.set(h, v, nlp.DepDobj)
		return
	}
	if prev >= 1 && a.tags[prev] == nlp.CCONJ && a.isNominal(prev-1) {
		a.set(h, prev-1, nlp.DepConj)
		return
	}
	if v := a.verbAfter(h); v >= 0 {
		a.set(h, v, nlp.DepNsubj)
		return
	}
	a.set(h, a.root, nlp.DepDep)
}

func (a *attacher) attachPreposition(i int) {
	if !a.prepLike[i] {
		if a.tags[i] == nlp.ADP {
			a.set(i, i+1, nlp.DepAux)
		} else if v := a.nextOf(i, nlp.VERB, nlp.AUX); v >= 0 {
			a.set(i, v, nlp.DepMark)
		} else {
			a.set(i, a.root, nlp.DepMark)
		}
		return
	}
	if i > 0 && a.isChunkHead(i-1) {
		a.set(i, i-1, nlp.DepPrep)
		return
	}
	if v := a.prevOf(i, nlp.VERB, nlp.AUX); v >= 0 {
		a.set(i, v, nlp.DepPrep)
		return
	}
	a.set(i, a.root, nlp.DepPrep)
}

func (a *attacher) attachAdverb(i int) {
	if next := i + 1; next < len(a.tags) && (a.tags[next] == nlp.ADJ || a.tags[next] == nlp.ADV) {
		a.set(i, next, nlp.DepAdvmod)
		return
	}
	if v := a.prevOf(i, nlp.VERB, nlp.AUX); v >= 0 {
		a.set(i, v, nlp.DepAdvmod)
		return
	}
	if v := a.nextOf(i, nlp.VERB, nlp.AUX); v >= 0 {
		a.set(i, v, nlp.DepAdvmod)
		return
	}
	a.set(i, a.root, nlp.DepAdvmod)
}

// repair re-points any token whose head chain is broken or cyclic at the
// root, so the result always validates.
func (a *attacher) repair() {
	n := len(a.heads)
	for i := range a.heads {
		if i == a.root {
			continue
		}
		if h := a.heads[i]; h < 0 || h >= n || h == i {
			a.set(i, a.root, nlp.DepDep)
		}
	}
	for i := range a.heads {
		steps := 0
		for cur := a.heads[i]; cur != -1; cur = a.heads[cur] {
			steps++
			if steps > n {
				a.set(i, a.root, nlp.DepDep)
				break
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
