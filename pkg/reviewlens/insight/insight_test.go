package insight

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/cognicore/reviewlens/pkg/reviewlens/aggregate"
	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New("scenario", []taxonomy.Entry{
		{Main: "activity_type", Sub: "special_occasion", Keywords: []string{"party"}},
		{Main: "environment", Sub: "outdoor", Keywords: []string{"balcony"}},
		{Main: "environment", Sub: "indoor", Keywords: []string{"kitchen"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tax
}

func summary(pct, mean, slope float64, dir aggregate.Direction) aggregate.CategorySummary {
	return aggregate.CategorySummary{
		Percentage: pct,
		Sentiment:  aggregate.Sentiment{Mean: mean, Positive: 3, Neutral: 1},
		Trend:      aggregate.Trend{Slope: slope, Direction: dir},
	}
}

func TestTierOf(t *testing.T) {
	cases := []struct {
		p    float64
		want Tier
	}{
		{1, High}, {0.8, High}, {0.79, Medium}, {0.5, Medium}, {0.3, Low}, {0.29, Minimal}, {0, Minimal},
	}
	for _, c := range cases {
		if got := TierOf(c.p); got != c.want {
			t.Errorf("TierOf(%v) = %s, want %s", c.p, got, c.want)
		}
	}
}

func TestRankThresholds(t *testing.T) {
	tax := testTaxonomy(t)
	res := aggregate.AnalysisResult{Categories: map[string]aggregate.CategorySummary{
		"environment/outdoor":            summary(60, 0.7, 1, aggregate.Increasing),
		"environment/indoor":             summary(10, 0.5, 0.05, aggregate.Stable),
		"activity_type/special_occasion": summary(30, -0.9, -0.5, aggregate.Decreasing),
	}}

	got := DefaultRanker().Rank("scenario", tax, res)
	// indoor: 10% is not above 10, |0.5| is not above 0.5, stable
	for _, ins := range got {
		if ins.Category == "environment/indoor" {
			t.Fatalf("unexpected insight for indoor: %+v", ins)
		}
	}
	if len(got) != 6 {
		t.Fatalf("got %d insights, want 6: %+v", len(got), got)
	}

	wantOrder := []struct {
		cat  string
		kind Kind
	}{
		{"activity_type/special_occasion", Sentiment}, // 0.9
		{"environment/outdoor", Sentiment},            // 0.7
		{"environment/outdoor", Frequency},            // 0.6
		{"environment/outdoor", Trend},                // 0.5
		{"activity_type/special_occasion", Frequency}, // 0.3
		{"activity_type/special_occasion", Trend},     // 0.25
	}
	for i, w := range wantOrder {
		if got[i].Category != w.cat || got[i].Kind != w.kind {
			t.Errorf("insight %d = %s/%s, want %s/%s", i, got[i].Category, got[i].Kind, w.cat, w.kind)
		}
	}
	if got[0].Tier != High || got[5].Tier != Minimal {
		t.Errorf("tiers = %s, %s", got[0].Tier, got[5].Tier)
	}
	if !strings.Contains(got[0].Text, "significant negative feedback") {
		t.Errorf("text = %q", got[0].Text)
	}
	if !strings.Contains(got[2].Text, "highly prevalent, appearing in 60.0%") {
		t.Errorf("text = %q", got[2].Text)
	}
	if !strings.Contains(got[3].Text, "increasing trend, growing by 1.0 mentions per period") {
		t.Errorf("text = %q", got[3].Text)
	}
}

func TestRankTieBreaks(t *testing.T) {
	tax := testTaxonomy(t)
	same := summary(40, 0.4, 0.8, aggregate.Increasing) // frequency 0.4, trend 0.4
	res := aggregate.AnalysisResult{Categories: map[string]aggregate.CategorySummary{
		"environment/outdoor":            same,
		"activity_type/special_occasion": same,
	}}
	got := DefaultRanker().RankAll([]Input{
		{Dimension: "scenario", Taxonomy: tax, Result: res},
		{Dimension: "location", Taxonomy: tax, Result: res},
	})
	if len(got) != 8 {
		t.Fatalf("got %d insights", len(got))
	}
	want := []string{
		"scenario activity_type/special_occasion frequency",
		"scenario activity_type/special_occasion trend",
		"scenario environment/outdoor frequency",
		"scenario environment/outdoor trend",
		"location activity_type/special_occasion frequency",
	}
	for i, w := range want {
		if s := got[i].Dimension + " " + got[i].Category + " " + string(got[i].Kind); s != w {
			t.Errorf("insight %d = %q, want %q", i, s, w)
		}
	}
}

func TestWeightsAndCap(t *testing.T) {
	res := aggregate.AnalysisResult{Categories: map[string]aggregate.CategorySummary{
		"environment/outdoor": summary(0, 0, 9, aggregate.Increasing),
	}}
	r := DefaultRanker()
	r.Weights = map[string]float64{"scenario": 0.5}
	got := r.Rank("scenario", nil, res)
	if len(got) != 1 || got[0].Kind != Trend || math.Abs(got[0].Priority-0.5) > 1e-12 {
		t.Fatalf("got %+v", got)
	}
}

func TestZeroThresholdsAreHonored(t *testing.T) {
	res := aggregate.AnalysisResult{Categories: map[string]aggregate.CategorySummary{
		"environment/outdoor": summary(5, 0.1, 0, aggregate.Stable),
		"environment/indoor":  summary(0, 0, 0, aggregate.Stable),
	}}

	if got := DefaultRanker().Rank("scenario", nil, res); len(got) != 0 {
		t.Fatalf("stock thresholds let through %+v", got)
	}

	r := DefaultRanker()
	r.MinSupport = 0
	r.SentimentThreshold = 0
	got := r.Rank("scenario", nil, res)
	// indoor sits exactly on both thresholds and stays out
	if len(got) != 2 || got[0].Category != "environment/outdoor" || got[1].Category != "environment/outdoor" {
		t.Fatalf("got %+v", got)
	}
	kinds := map[Kind]bool{got[0].Kind: true, got[1].Kind: true}
	if !kinds[Frequency] || !kinds[Sentiment] {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestZeroSlopeCapSaturates(t *testing.T) {
	res := aggregate.AnalysisResult{Categories: map[string]aggregate.CategorySummary{
		"environment/outdoor": summary(0, 0, 0.2, aggregate.Increasing),
	}}
	r := DefaultRanker()
	r.SlopeCap = 0
	got := r.Rank("scenario", nil, res)
	if len(got) != 1 || got[0].Priority != 1 || got[0].Tier != High {
		t.Fatalf("got %+v", got)
	}
}

func templatedTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Load(strings.NewReader(`
name: design
categories:
  aesthetics:
    color_finish: [color]
  ergonomics:
    grip: [grip]
insights:
  aesthetics:
    support: 30
    text: "Users appreciate the product's {sub}"
    unfavorable: "The product's {sub} could be improved"
  ergonomics:
    text: "{Sub} is a significant factor in user experience"
`))
	if err != nil {
		t.Fatal(err)
	}
	return tax
}

func specific(ins []Insight) []Insight {
	var out []Insight
	for _, in := range ins {
		if in.Kind == Specific {
			out = append(out, in)
		}
	}
	return out
}

func TestSpecificInsights(t *testing.T) {
	tax := templatedTaxonomy(t)
	cat := func(main, sub string, pct float64, pos, neg int) aggregate.CategorySummary {
		return aggregate.CategorySummary{
			Main: main, Sub: sub, Percentage: pct,
			Sentiment: aggregate.Sentiment{Positive: pos, Negative: neg},
			Trend:     aggregate.Trend{Direction: aggregate.Stable},
		}
	}

	res := aggregate.AnalysisResult{Categories: map[string]aggregate.CategorySummary{
		"aesthetics/color_finish": cat("aesthetics", "color_finish", 40, 1, 3),
		"ergonomics/grip":         cat("ergonomics", "grip", 20, 2, 0),
	}}
	got := specific(DefaultRanker().Rank("design", tax, res))
	if len(got) != 2 {
		t.Fatalf("specific insights = %+v", got)
	}
	if got[0].Category != "aesthetics/color_finish" || got[0].Text != "The product's color finish could be improved" {
		t.Errorf("aesthetics = %+v", got[0])
	}
	if got[1].Text != "Grip is a significant factor in user experience" || math.Abs(got[1].Priority-0.2) > 1e-12 {
		t.Errorf("ergonomics = %+v", got[1])
	}

	// template support wins over the ranker's; the ranker's applies otherwise
	res.Categories["aesthetics/color_finish"] = cat("aesthetics", "color_finish", 25, 3, 1)
	r := DefaultRanker()
	r.SpecificSupport = 20
	if got := specific(r.Rank("design", tax, res)); len(got) != 0 {
		t.Fatalf("below support: %+v", got)
	}
	r.SpecificSupport = 0
	res.Categories["aesthetics/color_finish"] = cat("aesthetics", "color_finish", 35, 3, 1)
	got = specific(r.Rank("design", tax, res))
	if len(got) != 2 || got[0].Text != "Users appreciate the product's color finish" {
		t.Fatalf("favorable = %+v", got)
	}
	if got := specific(r.Rank("design", nil, res)); len(got) != 0 {
		t.Fatalf("no taxonomy, no templates: %+v", got)
	}
}

func TestFilter(t *testing.T) {
	ins := []Insight{{Tier: High}, {Tier: Low}, {Tier: Minimal}, {Tier: Medium}}
	if got := Filter(ins, Medium); len(got) != 2 || got[0].Tier != High || got[1].Tier != Medium {
		t.Fatalf("Filter = %+v", got)
	}
	if got := Filter(ins, Minimal); len(got) != 4 {
		t.Fatalf("Filter(minimal) dropped insights")
	}
	if _, err := ParseTier("urgent"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("ParseTier: %v", err)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	faker := gofakeit.New(5)
	tax := testTaxonomy(t)
	res := aggregate.AnalysisResult{Categories: map[string]aggregate.CategorySummary{}}
	dirs := []aggregate.Direction{aggregate.Increasing, aggregate.Decreasing, aggregate.Stable}
	for _, e := range tax.Entries() {
		res.Categories[e.Key()] = summary(
			faker.Float64Range(0, 100),
			faker.Float64Range(-1, 1),
			faker.Float64Range(-3, 3),
			dirs[faker.Number(0, 2)],
		)
	}
	first := DefaultRanker().Rank("scenario", tax, res)
	for i := 0; i < 10; i++ {
		again := DefaultRanker().Rank("scenario", tax, res)
		if len(again) != len(first) {
			t.Fatal("insight count changed")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differs at %d", i, j)
			}
		}
	}
	for j := 1; j < len(first); j++ {
		if first[j].Priority > first[j-1].Priority {
			t.Fatal("not sorted by priority")
		}
	}
	for _, ins := range first {
		if ins.Priority < 0 || ins.Priority > 1 {
			t.Fatalf("priority out of range: %v", ins.Priority)
		}
	}
}
