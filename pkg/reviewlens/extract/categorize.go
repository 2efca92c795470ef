package extract

import (
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

// Match is a categorization outcome. Keyword is the keyword that decided it.
type Match struct {
	Entry   taxonomy.Entry
	Index   int
	Keyword string
}

// Categorizer assigns phrases to taxonomy entries.
type Categorizer struct {
	tax *taxonomy.Taxonomy
}

// NewCategorizer wraps tax.
func NewCategorizer(tax *taxonomy.Taxonomy) *Categorizer {
	return &Categorizer{tax: tax}
}

// Taxonomy returns the wrapped taxonomy.
func (c *Categorizer) Taxonomy() *taxonomy.Taxonomy { return c.tax }

// Categorize returns the first entry whose keyword occurs in the lower-cased
// phrase. It depends only on the phrase and the taxonomy.
func (c *Categorizer) Categorize(phrase string) (Match, bool) {
	i, kw, ok := c.tax.MatchKeyword(phrase)
	if !ok {
		return Match{}, false
	}
	return Match{Entry: c.tax.Entry(i), Index: i, Keyword: kw}, true
}
