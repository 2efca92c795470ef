// Package nlp defines the boundary to the syntactic parser: sentences made of
// tagged tokens linked into a dependency tree.
package nlp

import (
	"fmt"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Part-of-speech tags (Universal Dependencies coarse tag set).
const (
	NOUN  = "NOUN"
	PROPN = "PROPN"
	ADJ   = "ADJ"
	ADV   = "ADV"
	VERB  = "VERB"
	AUX   = "AUX"
	ADP   = "ADP"
	DET   = "DET"
	PRON  = "PRON"
	SCONJ = "SCONJ"
	CCONJ = "CCONJ"
	NUM   = "NUM"
	PART  = "PART"
	PUNCT = "PUNCT"
	X     = "X"
)

// Dependency labels.
const (
	DepPrep     = "prep"
	DepPobj     = "pobj"
	DepAmod     = "amod"
	DepCompound = "compound"
	DepAdvmod   = "advmod"
	DepDet      = "det"
	DepNsubj    = "nsubj"
	DepDobj     = "dobj"
	DepAcomp    = "acomp"
	DepMark     = "mark"
	DepCC       = "cc"
	DepConj     = "conj"
	DepNeg      = "neg"
	DepAux      = "aux"
	DepPunct    = "punct"
	DepAdvcl    = "advcl"
	DepNummod   = "nummod"
	DepDep      = "dep"
	DepRoot     = "ROOT"
)

// Token is a read-only view of one parsed word.
type Token struct {
	Index int    // position within the sentence, starting at 0
	Text  string // surface text
	Lemma string // lower-cased base form when the parser provides one
	Tag   string // part-of-speech tag
	Dep   string // dependency label
	Head  int    // index of the governing token; -1 for the root
}

// Sentence is one segmented sentence with its dependency graph.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Parser turns raw text into parsed sentences. Implementations must be
// deterministic for identical input.
type Parser interface {
	Parse(text string) ([]Sentence, error)
}

// Validate rejects token graphs the extractor cannot walk safely:
// index mismatches, heads out of range and head cycles.
func (s Sentence) Validate() error {
	n := len(s.Tokens)
	for i, tok := range s.Tokens {
		if tok.Index != i {
			return fmt.Errorf("%w: token %d has index %d", internalerr.ErrMalformedSentence, i, tok.Index)
		}
		if tok.Head < -1 || tok.Head >= n || tok.Head == i {
			return fmt.Errorf("%w: token %d has head %d", internalerr.ErrMalformedSentence, i, tok.Head)
		}
	}
	for i := range s.Tokens {
		steps := 0
		for cur := s.Tokens[i].Head; cur != -1; cur = s.Tokens[cur].Head {
			steps++
			if steps > n {
				return fmt.Errorf("%w: head cycle through token %d", internalerr.ErrMalformedSentence, i)
			}
		}
	}
	return nil
}

// Children returns the indices of the direct dependents of token i in
// left-to-right order.
func (s Sentence) Children(i int) []int {
	var out []int
	for _, tok := range s.Tokens {
		if tok.Head == i {
			out = append(out, tok.Index)
		}
	}
	return out
}

// Governs reports whether token anc is an ancestor of token i.
func (s Sentence) Governs(anc, i int) bool {
	steps := 0
	for cur := s.Tokens[i].Head; cur != -1 && steps <= len(s.Tokens); cur = s.Tokens[cur].Head {
		if cur == anc {
			return true
		}
		steps++
	}
	return false
}

// Subtree returns token i and all of its descendants in left-to-right order.
func (s Sentence) Subtree(i int) []int {
	var out []int
	for _, tok := range s.Tokens {
		if tok.Index == i || s.Governs(i, tok.Index) {
			out = append(out, tok.Index)
		}
	}
	return out
}
