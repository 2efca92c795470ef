// Package aggregate folds categorized mentions into per-category summaries:
// counts, percentages, characteristic phrases, example sentences, sentiment
// and a bucketed trend.
package aggregate

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/reviewlens/pkg/reviewlens/extract"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
)

// Stock settings, see DefaultOptions.
const (
	DefaultMaxCharacteristics = 10
	DefaultMaxExamples        = 5
	DefaultSlopeThreshold     = 0.1
)

// Options configures an Aggregator. Caps and thresholds are used exactly as
// given, zero included; start from DefaultOptions to get the stock values.
type Options struct {
	MaxCharacteristics int
	MaxExamples        int
	Thresholds         sentiment.Thresholds
	Bucket             Bucket
	SlopeThreshold     float64
	Oracle             sentiment.Oracle

	// SeriesStart and SeriesEnd span the trend axis, normally the earliest
	// and latest review timestamps of the dataset. When zero, the range of
	// each category's own mentions is used.
	SeriesStart time.Time
	SeriesEnd   time.Time
}

// DefaultOptions returns the stock settings with the VADER oracle.
func DefaultOptions() Options {
	return Options{
		MaxCharacteristics: DefaultMaxCharacteristics,
		MaxExamples:        DefaultMaxExamples,
		Thresholds:         sentiment.DefaultThresholds(),
		Bucket:             Month,
		SlopeThreshold:     DefaultSlopeThreshold,
		Oracle:             sentiment.Default(),
	}
}

type group struct {
	main, sub string
	mentions  []extract.Mention
}

// Aggregator accumulates mentions. Summaries are rebuilt from scratch on
// every call; nothing is updated incrementally.
type Aggregator struct {
	opts   Options
	groups map[string]*group
	total  int
}

// New creates an aggregator. A nil Oracle falls back to sentiment.Default
// and an empty Bucket to Month; no other field is touched.
func New(opts Options) *Aggregator {
	if opts.Oracle == nil {
		opts.Oracle = sentiment.Default()
	}
	if opts.Bucket == "" {
		opts.Bucket = Month
	}
	return &Aggregator{
		opts:   opts,
		groups: make(map[string]*group),
	}
}

// Add records one mention. Mentions must be added in review order.
func (a *Aggregator) Add(m extract.Mention) {
	g, ok := a.groups[m.Key()]
	if !ok {
		g = &group{main: m.Main, sub: m.Sub}
		a.groups[m.Key()] = g
	}
	g.mentions = append(g.mentions, m)
	a.total++
}

// TotalMentions returns the number of mentions added.
func (a *Aggregator) TotalMentions() int { return a.total }

// Summaries builds one CategorySummary per category seen.
func (a *Aggregator) Summaries(totalReviews int) map[string]CategorySummary {
	out := make(map[string]CategorySummary, len(a.groups))
	for key, g := range a.groups {
		out[key] = a.summarize(g, totalReviews)
	}
	return out
}

func (a *Aggregator) summarize(g *group, totalReviews int) CategorySummary {
	s := CategorySummary{
		Main:                   g.main,
		Sub:                    g.sub,
		MentionCount:           len(g.mentions),
		Characteristics:        []string{},
		RepresentativeExamples: []string{},
	}
	if totalReviews > 0 {
		s.Percentage = float64(len(g.mentions)) / float64(totalReviews) * 100
	}

	phrases := make(map[string]bool)
	examples := make(map[string]bool)
	for _, m := range g.mentions {
		if !phrases[m.Phrase] && len(s.Characteristics) < a.opts.MaxCharacteristics {
			s.Characteristics = append(s.Characteristics, m.Phrase)
		}
		phrases[m.Phrase] = true
		if !examples[m.Sentence] && len(s.RepresentativeExamples) < a.opts.MaxExamples {
			s.RepresentativeExamples = append(s.RepresentativeExamples, m.Sentence)
		}
		examples[m.Sentence] = true
	}

	s.Sentiment = a.sentiment(g.mentions)
	s.Trend = a.trend(g.mentions)
	return s
}

func (a *Aggregator) sentiment(mentions []extract.Mention) Sentiment {
	var out Sentiment
	if len(mentions) == 0 {
		return out
	}
	scores := make([]float64, len(mentions))
	for i, m := range mentions {
		score := a.opts.Oracle.Score(m.Sentence)
		scores[i] = score
		switch a.opts.Thresholds.Classify(score) {
		case sentiment.Positive:
			out.Positive++
		case sentiment.Negative:
			out.Negative++
		default:
			out.Neutral++
		}
	}
	out.Mean = stat.Mean(scores, nil)
	return out
}

func (a *Aggregator) trend(mentions []extract.Mention) Trend {
	stable := Trend{Slope: 0, Direction: Stable}

	b := a.opts.Bucket
	counts := make(map[time.Time]int)
	var first, last time.Time
	for _, m := range mentions {
		if m.Timestamp.IsZero() {
			continue
		}
		start := b.Start(m.Timestamp)
		counts[start]++
		if first.IsZero() || m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	if len(counts) < 2 {
		return stable
	}

	from, to := first, last
	if !a.opts.SeriesStart.IsZero() && a.opts.SeriesStart.Before(from) {
		from = a.opts.SeriesStart
	}
	if !a.opts.SeriesEnd.IsZero() && a.opts.SeriesEnd.After(to) {
		to = a.opts.SeriesEnd
	}

	axis := b.axis(from, to)
	ys := make([]float64, len(axis))
	series := make([]BucketCount, len(axis))
	for i, start := range axis {
		ys[i] = float64(counts[start])
		series[i] = BucketCount{Bucket: b.Label(start), Count: counts[start]}
	}

	slope := Slope(ys)
	t := Trend{
		Slope:     slope,
		Direction: Classify(slope, a.opts.SlopeThreshold),
		Series:    series,
	}
	if ys[0] != 0 {
		t.ChangeRate = (ys[len(ys)-1] - ys[0]) / ys[0]
	}
	return t
}

// Slope is the ordinary least-squares slope of ys against 0..n-1.
func Slope(ys []float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

// Classify maps a slope to a direction. Slopes within ±threshold are stable.
func Classify(slope, threshold float64) Direction {
	threshold = math.Abs(threshold)
	switch {
	case slope > threshold:
		return Increasing
	case slope < -threshold:
		return Decreasing
	default:
		return Stable
	}
}

// Confidence is categorized mentions over total reviews, clipped to [0, 1].
func Confidence(totalMentions, totalReviews int) float64 {
	if totalReviews <= 0 || totalMentions <= 0 {
		return 0
	}
	return math.Min(1, float64(totalMentions)/float64(totalReviews))
}
