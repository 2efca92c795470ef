package shallow

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Lexicon maps lower-cased words to part-of-speech tags.
//
// Expected YAML format:
//
//	classes:
//	  DET: [a, an, the]
//	  ADP: [in, at, during]
//
// A word listed under several classes keeps the class that sorts last.
type Lexicon struct {
	tags map[string]string
}

var knownTags = map[string]bool{
	nlp.NOUN: true, nlp.PROPN: true, nlp.ADJ: true, nlp.ADV: true,
	nlp.VERB: true, nlp.AUX: true, nlp.ADP: true, nlp.DET: true,
	nlp.PRON: true, nlp.SCONJ: true, nlp.CCONJ: true, nlp.NUM: true,
	nlp.PART: true, nlp.PUNCT: true, nlp.X: true,
}

// NewLexicon creates an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{tags: make(map[string]string)}
}

// DefaultLexicon returns the embedded English word-class lexicon.
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexicon)
	if err != nil {
		panic(fmt.Sprintf("shallow: embedded lexicon: %v", err))
	}
	return lex
}

// LoadLexicon reads a word-class lexicon from a YAML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes a YAML word-class lexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var config struct {
		Classes map[string][]string `yaml:"classes"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(config.Classes))
	for tag := range config.Classes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	lex := NewLexicon()
	for _, tag := range tags {
		if err := lex.AddWords(tag, config.Classes[tag]); err != nil {
			return nil, err
		}
	}
	return lex, nil
}

// AddWords assigns tag to every word in words.
func (l *Lexicon) AddWords(tag string, words []string) error {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if !knownTags[tag] {
		return fmt.Errorf("shallow: unknown tag %q", tag)
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		l.tags[w] = tag
	}
	return nil
}

// Lookup returns the configured tag for a word.
func (l *Lexicon) Lookup(word string) (string, bool) {
	tag, ok := l.tags[strings.ToLower(word)]
	return tag, ok
}

// Len returns the number of words in the lexicon.
func (l *Lexicon) Len() int {
	return len(l.tags)
}
