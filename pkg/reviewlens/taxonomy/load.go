package taxonomy

import (
	"embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Load decodes a taxonomy from YAML.
//
// Expected format (mapping order is declaration order):
//
//	name: scenario
//	extraction:
//	  prepositions: [in, at, during]
//	  tags: [NOUN, ADJ]
//	categories:
//	  environment:
//	    outdoor: [balcony, patio]
//	    indoor: [home, office]
//	insights:
//	  environment:
//	    support: 15
//	    text: "{Sub} environments are a key usage context"
func Load(r io.Reader) (*Taxonomy, error) {
	var doc struct {
		Name       string     `yaml:"name"`
		Extraction Extraction          `yaml:"extraction"`
		Categories yaml.Node           `yaml:"categories"`
		Insights   map[string]Template `yaml:"insights"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	cats := &doc.Categories
	if cats.Kind == 0 {
		return nil, fmt.Errorf("%w: taxonomy %s has no categories", internalerr.ErrInvalidConfig, doc.Name)
	}
	if cats.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: taxonomy %s: categories must be a mapping (line %d)", internalerr.ErrInvalidConfig, doc.Name, cats.Line)
	}

	var entries []Entry
	for i := 0; i+1 < len(cats.Content); i += 2 {
		main, subs := cats.Content[i].Value, cats.Content[i+1]
		if subs.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: taxonomy %s: %s must map sub-categories to keywords (line %d)", internalerr.ErrInvalidConfig, doc.Name, main, subs.Line)
		}
		for j := 0; j+1 < len(subs.Content); j += 2 {
			sub := subs.Content[j].Value
			var keywords []string
			if err := subs.Content[j+1].Decode(&keywords); err != nil {
				return nil, fmt.Errorf("%w: taxonomy %s: %s/%s: %v", internalerr.ErrInvalidConfig, doc.Name, main, sub, err)
			}
			entries = append(entries, Entry{Main: main, Sub: sub, Keywords: keywords})
		}
	}
	return build(doc.Name, doc.Extraction, entries, doc.Insights)
}

// LoadFile reads a taxonomy YAML file.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

//go:embed data/*.yaml
var builtinFS embed.FS

var builtinNames = []string{
	"scenario", "purpose", "user", "location",
	"timing", "motivation", "experience", "design",
}

var (
	builtinOnce sync.Once
	builtins    map[string]*Taxonomy
	builtinErr  error
)

// BuiltinNames lists the embedded taxonomies in their canonical order.
func BuiltinNames() []string {
	return append([]string(nil), builtinNames...)
}

// Builtin returns an embedded taxonomy by name.
func Builtin(name string) (*Taxonomy, error) {
	builtinOnce.Do(func() {
		builtins = make(map[string]*Taxonomy, len(builtinNames))
		for _, n := range builtinNames {
			f, err := builtinFS.Open("data/" + n + ".yaml")
			if err != nil {
				builtinErr = err
				return
			}
			t, err := Load(f)
			f.Close()
			if err != nil {
				builtinErr = fmt.Errorf("builtin %s: %w", n, err)
				return
			}
			builtins[n] = t
		}
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	t, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownDimension, name)
	}
	return t, nil
}
