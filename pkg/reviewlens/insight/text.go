package insight

import (
	"fmt"
	"math"

	"github.com/cognicore/reviewlens/pkg/reviewlens/aggregate"
)

func frequencyText(label string, pct float64) string {
	switch {
	case pct > 50:
		return fmt.Sprintf("%s is highly prevalent, appearing in %.1f%% of reviews", label, pct)
	case pct > 25:
		return fmt.Sprintf("%s shows moderate presence, mentioned in %.1f%% of reviews", label, pct)
	default:
		return fmt.Sprintf("%s has limited presence, only in %.1f%% of reviews", label, pct)
	}
}

func sentimentText(label string, s aggregate.Sentiment) string {
	total := s.Positive + s.Neutral + s.Negative
	if total == 0 {
		return fmt.Sprintf("%s has no sentiment data", label)
	}
	pos := float64(s.Positive) / float64(total) * 100
	neg := float64(s.Negative) / float64(total) * 100
	switch {
	case s.Mean > 0.5:
		return fmt.Sprintf("%s receives highly positive feedback (%.1f%% positive)", label, pos)
	case s.Mean > 0:
		return fmt.Sprintf("%s receives moderately positive feedback (%.1f%% positive)", label, pos)
	case s.Mean < -0.5:
		return fmt.Sprintf("%s receives significant negative feedback (%.1f%% negative)", label, neg)
	case s.Mean < 0:
		return fmt.Sprintf("%s receives some negative feedback (%.1f%% negative)", label, neg)
	default:
		return fmt.Sprintf("%s receives mixed feedback", label)
	}
}

func trendText(label string, t aggregate.Trend) string {
	if t.Direction == aggregate.Increasing {
		return fmt.Sprintf("%s shows an increasing trend, growing by %.1f mentions per period", label, t.Slope)
	}
	return fmt.Sprintf("%s shows a decreasing trend, declining by %.1f mentions per period", label, math.Abs(t.Slope))
}
