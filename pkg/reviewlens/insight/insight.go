// Package insight turns category summaries into ranked textual findings.
package insight

import (
	"fmt"
	"math"
	"sort"

	"github.com/cognicore/reviewlens/pkg/reviewlens/aggregate"
	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

// Kind is the statistic an insight is derived from.
type Kind string

const (
	Frequency Kind = "frequency"
	Sentiment Kind = "sentiment"
	Trend     Kind = "trend"
	// Specific insights come from the taxonomy's per-main-category templates.
	Specific Kind = "specific"
)

func (k Kind) order() int {
	switch k {
	case Frequency:
		return 0
	case Sentiment:
		return 1
	case Trend:
		return 2
	case Specific:
		return 3
	}
	return 4
}

// Tier buckets priorities for sorting and filtering.
type Tier string

const (
	High    Tier = "high"
	Medium  Tier = "medium"
	Low     Tier = "low"
	Minimal Tier = "minimal"
)

// Tier thresholds.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.5
	LowThreshold    = 0.3
)

// TierOf maps a priority to its tier.
func TierOf(priority float64) Tier {
	switch {
	case priority >= HighThreshold:
		return High
	case priority >= MediumThreshold:
		return Medium
	case priority >= LowThreshold:
		return Low
	default:
		return Minimal
	}
}

func (t Tier) rank() int {
	switch t {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}
	return 0
}

// ParseTier accepts "high", "medium", "low" or "minimal".
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case High, Medium, Low, Minimal:
		return t, nil
	case "":
		return Minimal, nil
	}
	return "", fmt.Errorf("%w: unknown tier %q", internalerr.ErrInvalidConfig, s)
}

// Insight is one derived finding.
type Insight struct {
	Dimension string  `json:"dimension"`
	Category  string  `json:"category"`
	Kind      Kind    `json:"kind"`
	Text      string  `json:"text"`
	Priority  float64 `json:"priority"`
	Tier      Tier    `json:"tier"`

	dimOrder int
	catOrder int
}

// Stock Ranker settings, see DefaultRanker.
const (
	DefaultMinSupport         = 10.0
	DefaultSentimentThreshold = 0.5
	DefaultSlopeCap           = 2.0
	DefaultSpecificSupport    = 15.0
)

// Ranker derives insights from an AnalysisResult. Every field is used as
// given, zero included.
type Ranker struct {
	// MinSupport is the percentage a category must exceed to get a
	// frequency insight.
	MinSupport float64
	// SentimentThreshold is the |mean| a category must exceed to get a
	// sentiment insight.
	SentimentThreshold float64
	// SlopeCap normalizes |slope| into a trend priority. A non-positive cap
	// saturates every trend priority at 1.
	SlopeCap float64
	// SpecificSupport is the percentage a category must exceed to get its
	// taxonomy template, unless the template sets its own support.
	SpecificSupport float64
	// Weights scales priorities per dimension; missing dimensions weigh 1.
	Weights map[string]float64
}

// DefaultRanker returns the stock thresholds with no dimension weights.
func DefaultRanker() Ranker {
	return Ranker{
		MinSupport:         DefaultMinSupport,
		SentimentThreshold: DefaultSentimentThreshold,
		SlopeCap:           DefaultSlopeCap,
		SpecificSupport:    DefaultSpecificSupport,
	}
}

func (r Ranker) weight(dim string) float64 {
	if w, ok := r.Weights[dim]; ok {
		return clamp01(w)
	}
	return 1
}

// Input is one dimension's result together with the taxonomy that
// produced it.
type Input struct {
	Dimension string
	Taxonomy  *taxonomy.Taxonomy
	Result    aggregate.AnalysisResult
}

// Rank derives the insights of a single dimension, sorted. tax may be nil,
// which leaves ties in key order and yields no specific insights.
func (r Ranker) Rank(dim string, tax *taxonomy.Taxonomy, result aggregate.AnalysisResult) []Insight {
	return r.RankAll([]Input{{Dimension: dim, Taxonomy: tax, Result: result}})
}

// RankAll merges the insights of several dimensions. Output is sorted by
// priority descending; ties go to input order, then taxonomy declaration
// order, then kind.
func (r Ranker) RankAll(inputs []Input) []Insight {
	var out []Insight
	for d, in := range inputs {
		rank := func(string) int { return 0 }
		if in.Taxonomy != nil {
			tax := in.Taxonomy
			rank = func(key string) int {
				if i := tax.Index(key); i >= 0 {
					return i
				}
				return tax.Len()
			}
		}
		for _, key := range in.Result.SortedKeys(rank) {
			for _, ins := range r.summarize(in.Dimension, in.Taxonomy, key, in.Result.Categories[key]) {
				ins.dimOrder = d
				ins.catOrder = rank(key)
				out = append(out, ins)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.dimOrder != b.dimOrder {
			return a.dimOrder < b.dimOrder
		}
		if a.catOrder != b.catOrder {
			return a.catOrder < b.catOrder
		}
		return a.Kind.order() < b.Kind.order()
	})
	return out
}

func (r Ranker) summarize(dim string, tax *taxonomy.Taxonomy, key string, s aggregate.CategorySummary) []Insight {
	label := dim + ": " + key
	w := r.weight(dim)
	var out []Insight

	if s.Percentage > r.MinSupport {
		p := w * clamp01(s.Percentage/100)
		out = append(out, Insight{
			Dimension: dim, Category: key, Kind: Frequency,
			Text: frequencyText(label, s.Percentage), Priority: p, Tier: TierOf(p),
		})
	}

	if math.Abs(s.Sentiment.Mean) > r.SentimentThreshold {
		p := w * clamp01(math.Abs(s.Sentiment.Mean))
		out = append(out, Insight{
			Dimension: dim, Category: key, Kind: Sentiment,
			Text: sentimentText(label, s.Sentiment), Priority: p, Tier: TierOf(p),
		})
	}

	if s.Trend.Direction != aggregate.Stable && s.Trend.Direction != "" {
		p := w
		if r.SlopeCap > 0 {
			p = w * clamp01(math.Abs(s.Trend.Slope)/r.SlopeCap)
		}
		out = append(out, Insight{
			Dimension: dim, Category: key, Kind: Trend,
			Text: trendText(label, s.Trend), Priority: p, Tier: TierOf(p),
		})
	}

	if tax == nil {
		return out
	}
	if tpl, ok := tax.Insight(s.Main); ok {
		support := r.SpecificSupport
		if tpl.Support != nil {
			support = *tpl.Support
		}
		if s.Percentage > support {
			p := w * clamp01(s.Percentage/100)
			favorable := s.Sentiment.Positive > s.Sentiment.Negative
			out = append(out, Insight{
				Dimension: dim, Category: key, Kind: Specific,
				Text: tpl.Render(s.Sub, favorable), Priority: p, Tier: TierOf(p),
			})
		}
	}
	return out
}

// Filter keeps insights at or above minTier, preserving order.
func Filter(insights []Insight, minTier Tier) []Insight {
	out := make([]Insight, 0, len(insights))
	for _, ins := range insights {
		if ins.Tier.rank() >= minTier.rank() {
			out = append(out, ins)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
