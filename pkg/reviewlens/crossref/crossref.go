// Package crossref relates the categories of two dimensions through the
// reviews that mention both.
package crossref

import (
	"fmt"
	"sort"

	"github.com/cognicore/reviewlens/pkg/reviewlens/extract"
)

// Correlation types.
const (
	Positive = "positive"
	Weak     = "weak"
)

// Thresholds on Strength.
const (
	MinStrength      = 0.1
	PositiveStrength = 0.3
)

// Correlation links one category of each dimension.
//
// Strength is co-occurring reviews over the sum of both categories' review
// counts, so it never exceeds 0.5.
type Correlation struct {
	DimensionA   string  `json:"dimension_a"`
	CategoryA    string  `json:"category_a"`
	DimensionB   string  `json:"dimension_b"`
	CategoryB    string  `json:"category_b"`
	Cooccurrence int     `json:"cooccurrence"`
	Strength     float64 `json:"strength"`
	Type         string  `json:"type"`
}

// String renders a one-line description.
func (c Correlation) String() string {
	return fmt.Sprintf("%s %s:%s and %s:%s co-occur in %d reviews (strength %.2f)",
		c.Type, c.DimensionA, c.CategoryA, c.DimensionB, c.CategoryB, c.Cooccurrence, c.Strength)
}

// reviewSets maps category key to the set of review indexes mentioning it.
func reviewSets(mentions []extract.Mention) map[string]map[int]bool {
	out := make(map[string]map[int]bool)
	for _, m := range mentions {
		set, ok := out[m.Key()]
		if !ok {
			set = make(map[int]bool)
			out[m.Key()] = set
		}
		set[m.ReviewIndex] = true
	}
	return out
}

// Correlate compares every category pair across the two mention sets. Both
// sets must come from the same review dataset. Pairs with strength at or
// below MinStrength are dropped.
func Correlate(dimA string, mentionsA []extract.Mention, dimB string, mentionsB []extract.Mention) []Correlation {
	setsA := reviewSets(mentionsA)
	setsB := reviewSets(mentionsB)

	var out []Correlation
	for catA, a := range setsA {
		for catB, b := range setsB {
			co := 0
			for r := range a {
				if b[r] {
					co++
				}
			}
			strength := float64(co) / float64(len(a)+len(b))
			if strength <= MinStrength {
				continue
			}
			typ := Weak
			if strength > PositiveStrength {
				typ = Positive
			}
			out = append(out, Correlation{
				DimensionA:   dimA,
				CategoryA:    catA,
				DimensionB:   dimB,
				CategoryB:    catB,
				Cooccurrence: co,
				Strength:     strength,
				Type:         typ,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Strength != out[j].Strength {
			return out[i].Strength > out[j].Strength
		}
		if out[i].CategoryA != out[j].CategoryA {
			return out[i].CategoryA < out[j].CategoryA
		}
		return out[i].CategoryB < out[j].CategoryB
	})
	return out
}
