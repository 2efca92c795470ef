package sentiment

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const (
	negationScope   = 3
	intensifierGain = 1.3
)

// Lexicon is a word-weight Oracle for domains where a hand-tuned word list
// beats the general-purpose Default.
//
// Expected YAML format:
//
//	words:
//	  great: 0.8
//	  awful: -1.0
//	negators: [not, never]
//	intensifiers: [very, really]
//
// The score is the mean weight of the polar words found, clamped to [-1, 1].
// Text without polar words scores 0.
type Lexicon struct {
	weights      map[string]float64
	negators     map[string]bool
	intensifiers map[string]bool
}

// LoadLexicon reads a polarity lexicon from a YAML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes a YAML polarity lexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var config struct {
		Words        map[string]float64 `yaml:"words"`
		Negators     []string           `yaml:"negators"`
		Intensifiers []string           `yaml:"intensifiers"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := &Lexicon{
		weights:      make(map[string]float64, len(config.Words)),
		negators:     make(map[string]bool),
		intensifiers: make(map[string]bool),
	}
	for w, weight := range config.Words {
		if weight < -1 || weight > 1 {
			return nil, fmt.Errorf("sentiment: weight for %q out of range: %v", w, weight)
		}
		lex.weights[strings.ToLower(w)] = weight
	}
	for _, w := range config.Negators {
		lex.negators[strings.ToLower(w)] = true
	}
	for _, w := range config.Intensifiers {
		lex.intensifiers[strings.ToLower(w)] = true
	}
	return lex, nil
}

// Score implements Oracle.
func (l *Lexicon) Score(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '’'
	})

	var sum float64
	var matched int
	negated := 0
	boost := 1.0
	for _, w := range words {
		w = strings.ReplaceAll(w, "’", "'")
		if l.negators[w] || strings.HasSuffix(w, "n't") {
			negated = negationScope
			continue
		}
		if l.intensifiers[w] {
			boost *= intensifierGain
			continue
		}

		weight, ok := l.weights[w]
		if ok {
			weight *= boost
			if negated > 0 {
				weight = -weight
			}
			sum += weight
			matched++
		}
		boost = 1.0
		if negated > 0 {
			negated--
		}
	}

	if matched == 0 {
		return 0
	}
	return clamp(sum / float64(matched))
}
