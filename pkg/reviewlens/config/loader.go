package config

import (
	"fmt"
	"sort"

	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp/shallow"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

// Loader loads the files a Config names and constructs components.
type Loader struct {
	TaxonomyFiles        map[string]string
	ParserLexiconPath    string
	SentimentLexiconPath string
}

// NewLoader takes its paths from cfg.
func NewLoader(cfg Config) *Loader {
	return &Loader{
		TaxonomyFiles:        cfg.TaxonomyFiles,
		ParserLexiconPath:    cfg.ParserLexicon,
		SentimentLexiconPath: cfg.SentimentLexicon,
	}
}

// Components holds everything the engine needs besides the config itself.
type Components struct {
	Parser     *shallow.Parser
	Oracle     sentiment.Oracle
	Taxonomies map[string]*taxonomy.Taxonomy
	// Dimensions lists the taxonomy names: built-ins first, then additional
	// file-defined dimensions sorted by name.
	Dimensions []string
}

// Load reads all configured files. Missing paths fall back to the embedded
// defaults.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Taxonomies: make(map[string]*taxonomy.Taxonomy)}

	if l.ParserLexiconPath != "" {
		lex, err := shallow.LoadLexicon(l.ParserLexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load parser lexicon: %w", err)
		}
		comp.Parser = shallow.New(lex)
	} else {
		comp.Parser = shallow.NewDefault()
	}

	if l.SentimentLexiconPath != "" {
		lex, err := sentiment.LoadLexicon(l.SentimentLexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load sentiment lexicon: %w", err)
		}
		comp.Oracle = lex
	} else {
		comp.Oracle = sentiment.Default()
	}

	for _, name := range taxonomy.BuiltinNames() {
		tax, err := l.Taxonomy(name)
		if err != nil {
			return nil, err
		}
		comp.Taxonomies[name] = tax
		comp.Dimensions = append(comp.Dimensions, name)
	}

	var extra []string
	for name := range l.TaxonomyFiles {
		if _, ok := comp.Taxonomies[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		tax, err := l.Taxonomy(name)
		if err != nil {
			return nil, err
		}
		comp.Taxonomies[name] = tax
		comp.Dimensions = append(comp.Dimensions, name)
	}
	return comp, nil
}

// Taxonomy resolves one dimension: a configured file wins over the built-in
// table of the same name.
func (l *Loader) Taxonomy(dim string) (*taxonomy.Taxonomy, error) {
	if path, ok := l.TaxonomyFiles[dim]; ok && path != "" {
		tax, err := taxonomy.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy %s: %w", dim, err)
		}
		return tax, nil
	}
	return taxonomy.Builtin(dim)
}
