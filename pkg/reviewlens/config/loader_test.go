package config

import (
	"errors"
	"testing"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

func TestLoaderDefaults(t *testing.T) {
	comp, err := NewLoader(Default()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Parser == nil || comp.Oracle == nil {
		t.Fatal("parser or oracle missing")
	}
	if _, ok := comp.Oracle.(*sentiment.Vader); !ok {
		t.Errorf("default oracle = %T, want VADER", comp.Oracle)
	}
	names := taxonomy.BuiltinNames()
	if len(comp.Dimensions) != len(names) {
		t.Fatalf("dimensions = %v", comp.Dimensions)
	}
	for i, n := range names {
		if comp.Dimensions[i] != n || comp.Taxonomies[n] == nil {
			t.Errorf("dimension %d = %s", i, comp.Dimensions[i])
		}
	}
}

func TestLoaderTaxonomyOverride(t *testing.T) {
	path := writeFile(t, "pets.yaml", `
name: pets
categories:
  animal:
    dog: [dog, puppy]
    cat: [cat, kitten]
`)
	override := writeFile(t, "scenario.yaml", `
name: scenario
categories:
  environment:
    outdoor: [yard]
`)
	l := &Loader{TaxonomyFiles: map[string]string{"pets": path, "scenario": override}}
	comp, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if last := comp.Dimensions[len(comp.Dimensions)-1]; last != "pets" {
		t.Errorf("custom dimension not appended: %v", comp.Dimensions)
	}
	if comp.Taxonomies["pets"].Len() != 2 {
		t.Errorf("pets entries = %d", comp.Taxonomies["pets"].Len())
	}
	if comp.Taxonomies["scenario"].Len() != 1 {
		t.Errorf("scenario override ignored")
	}
}

func TestLoaderErrors(t *testing.T) {
	if _, err := (&Loader{}).Taxonomy("astrology"); !errors.Is(err, internalerr.ErrUnknownDimension) {
		t.Errorf("unknown dimension: %v", err)
	}
	l := &Loader{ParserLexiconPath: "/nonexistent/lexicon.yaml"}
	if _, err := l.Load(); err == nil {
		t.Error("expected error for missing parser lexicon")
	}
	l = &Loader{SentimentLexiconPath: "/nonexistent/sentiment.yaml"}
	if _, err := l.Load(); err == nil {
		t.Error("expected error for missing sentiment lexicon")
	}
	l = &Loader{TaxonomyFiles: map[string]string{"pets": "/nonexistent/pets.yaml"}}
	if _, err := l.Load(); err == nil {
		t.Error("expected error for missing taxonomy file")
	}
}
