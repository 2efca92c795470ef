// Package taxonomy holds the ordered (main, sub, keywords) category tables
// phrases are classified against.
//
// Matching is a literal substring test in declaration order; the first entry
// with a matching keyword wins. Tables should therefore list their most
// specific entries first.
package taxonomy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Entry is one (main, sub) category with its keywords.
type Entry struct {
	Main     string
	Sub      string
	Keywords []string
}

// Key returns the "main/sub" category key.
func (e Entry) Key() string {
	return e.Main + "/" + e.Sub
}

// Extraction describes how phrases are found for a taxonomy: which
// prepositions and word classes trigger a phrase and which dependents extend
// it. Zero values select the extractor defaults.
type Extraction struct {
	Prepositions []string `yaml:"prepositions"`
	Tags         []string `yaml:"tags"`
	Verbs        bool     `yaml:"verbs"`
	Pre          []string `yaml:"pre"`
	Post         []string `yaml:"post"`
}

// Template is a dimension-specific finding for one main category. In the
// texts, {sub} expands to the sub-category with underscores as spaces and
// {Sub} to the same with a capital first letter.
type Template struct {
	Text string `yaml:"text"`
	// Unfavorable replaces Text when negative mentions are at least as many
	// as positive ones.
	Unfavorable string `yaml:"unfavorable,omitempty"`
	// Support is the percentage a category must exceed; nil leaves the
	// choice to the ranker.
	Support *float64 `yaml:"support,omitempty"`
}

// Render fills in sub.
func (tpl Template) Render(sub string, favorable bool) string {
	text := tpl.Text
	if !favorable && tpl.Unfavorable != "" {
		text = tpl.Unfavorable
	}
	words := strings.ReplaceAll(sub, "_", " ")
	title := words
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return strings.NewReplacer("{sub}", words, "{Sub}", title).Replace(text)
}

func (tpl Template) clone() Template {
	if tpl.Support != nil {
		v := *tpl.Support
		tpl.Support = &v
	}
	return tpl
}

// Taxonomy is an immutable ordered set of entries.
type Taxonomy struct {
	name       string
	entries    []Entry
	extraction Extraction
	insights   map[string]Template
	identity   string
}

// New builds a taxonomy. Keywords are lower-cased and trimmed; empty keywords
// are dropped. Duplicate (main, sub) pairs are rejected.
func New(name string, entries []Entry) (*Taxonomy, error) {
	return build(name, Extraction{}, entries, nil)
}

func build(name string, x Extraction, entries []Entry, insights map[string]Template) (*Taxonomy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: taxonomy name is required", internalerr.ErrInvalidConfig)
	}

	t := &Taxonomy{name: name, extraction: copyExtraction(x)}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		e.Main = strings.TrimSpace(e.Main)
		e.Sub = strings.TrimSpace(e.Sub)
		if e.Main == "" || e.Sub == "" {
			return nil, fmt.Errorf("%w: taxonomy %s: entry without main or sub category", internalerr.ErrInvalidConfig, name)
		}
		if seen[e.Key()] {
			return nil, fmt.Errorf("%w: taxonomy %s: duplicate entry %s", internalerr.ErrInvalidConfig, name, e.Key())
		}
		seen[e.Key()] = true

		keywords := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		e.Keywords = keywords
		t.entries = append(t.entries, e)
	}

	mains := make(map[string]bool, len(t.entries))
	for _, e := range t.entries {
		mains[e.Main] = true
	}
	for main, tpl := range insights {
		switch {
		case !mains[main]:
			return nil, fmt.Errorf("%w: taxonomy %s: insight for unknown main category %s", internalerr.ErrInvalidConfig, name, main)
		case strings.TrimSpace(tpl.Text) == "":
			return nil, fmt.Errorf("%w: taxonomy %s: insight for %s has no text", internalerr.ErrInvalidConfig, name, main)
		case tpl.Support != nil && (*tpl.Support < 0 || *tpl.Support > 100):
			return nil, fmt.Errorf("%w: taxonomy %s: insight support for %s must be within [0, 100]", internalerr.ErrInvalidConfig, name, main)
		}
		if t.insights == nil {
			t.insights = make(map[string]Template, len(insights))
		}
		t.insights[main] = tpl.clone()
	}

	t.identity = t.computeIdentity()
	return t, nil
}

func copyExtraction(x Extraction) Extraction {
	return Extraction{
		Prepositions: append([]string(nil), x.Prepositions...),
		Tags:         append([]string(nil), x.Tags...),
		Verbs:        x.Verbs,
		Pre:          append([]string(nil), x.Pre...),
		Post:         append([]string(nil), x.Post...),
	}
}

// Name returns the taxonomy (dimension) name.
func (t *Taxonomy) Name() string { return t.name }

// Len returns the number of entries.
func (t *Taxonomy) Len() int { return len(t.entries) }

// Entry returns entry i.
func (t *Taxonomy) Entry(i int) Entry {
	e := t.entries[i]
	e.Keywords = append([]string(nil), e.Keywords...)
	return e
}

// Entries returns a copy of all entries in declaration order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i := range t.entries {
		out[i] = t.Entry(i)
	}
	return out
}

// Extraction returns the phrase extraction profile.
func (t *Taxonomy) Extraction() Extraction {
	return copyExtraction(t.extraction)
}

// Index returns the declaration position of a "main/sub" key, or -1.
func (t *Taxonomy) Index(key string) int {
	for i, e := range t.entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// MatchKeyword returns the index of the first entry, in declaration order,
// with a keyword that occurs in the lower-cased phrase, and that keyword.
func (t *Taxonomy) MatchKeyword(phrase string) (int, string, bool) {
	lower := strings.ToLower(phrase)
	for i, e := range t.entries {
		for _, kw := range e.Keywords {
			if strings.Contains(lower, kw) {
				return i, kw, true
			}
		}
	}
	return -1, "", false
}

// Insight returns the template for a main category.
func (t *Taxonomy) Insight(main string) (Template, bool) {
	tpl, ok := t.insights[main]
	return tpl.clone(), ok
}

// Insights returns a copy of all templates keyed by main category.
func (t *Taxonomy) Insights() map[string]Template {
	out := make(map[string]Template, len(t.insights))
	for main, tpl := range t.insights {
		out[main] = tpl.clone()
	}
	return out
}

// Identity is a content hash of the name, the extraction profile and the
// ordered entries. Two taxonomies with the same identity classify alike.
// Insight templates are not part of it: they never change an analysis
// result, only the findings ranked from it.
func (t *Taxonomy) Identity() string {
	return t.identity
}

func (t *Taxonomy) computeIdentity() string {
	h := sha256.New()
	fmt.Fprintf(h, "name=%s\n", t.name)
	x := t.extraction
	fmt.Fprintf(h, "prep=%s\ntags=%s\nverbs=%t\npre=%s\npost=%s\n",
		strings.Join(x.Prepositions, ","), strings.Join(x.Tags, ","), x.Verbs,
		strings.Join(x.Pre, ","), strings.Join(x.Post, ","))
	for _, e := range t.entries {
		fmt.Fprintf(h, "%s\x00%s\x00%s\n", e.Main, e.Sub, strings.Join(e.Keywords, "\x00"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
