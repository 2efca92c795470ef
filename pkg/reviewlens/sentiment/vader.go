package sentiment

import (
	"sync"

	"github.com/jonreiter/govader"
)

// Vader scores text with the VADER rule set and lexicon. The score is the
// compound polarity, already normalized to [-1, 1]; the ±0.05 neutral band of
// DefaultThresholds is VADER's own convention.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var (
	vaderOnce sync.Once
	vader     *Vader
)

// Default returns the shared VADER oracle. The lexicon is loaded once per
// process.
func Default() *Vader {
	vaderOnce.Do(func() {
		vader = &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
	})
	return vader
}

// Score implements Oracle.
func (v *Vader) Score(text string) float64 {
	return clamp(v.analyzer.PolarityScores(text).Compound)
}
