// Package sentiment scores review text polarity in [-1, 1] and classifies it.
package sentiment

import (
	"sync"
)

// Oracle scores the polarity of a piece of text. Implementations must be pure
// and deterministic: cached analysis results depend on it.
type Oracle interface {
	Score(text string) float64
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(text string) float64

// Score implements Oracle.
func (f OracleFunc) Score(text string) float64 { return f(text) }

// Label is a coarse polarity class.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Thresholds bound the neutral band.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds returns the ±0.05 neutral band.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.05, Negative: -0.05}
}

// Classify maps a score onto a label. Both bounds are inclusive.
func (t Thresholds) Classify(score float64) Label {
	switch {
	case score >= t.Positive:
		return Positive
	case score <= t.Negative:
		return Negative
	default:
		return Neutral
	}
}

// Memo caches an Oracle's scores by text. One Memo should live for a single
// analysis run.
type Memo struct {
	oracle Oracle

	mu     sync.Mutex
	scores map[string]float64
	calls  int
}

// NewMemo wraps oracle.
func NewMemo(oracle Oracle) *Memo {
	return &Memo{oracle: oracle, scores: make(map[string]float64)}
}

// Score implements Oracle.
func (m *Memo) Score(text string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.scores[text]; ok {
		return s
	}
	s := clamp(m.oracle.Score(text))
	m.scores[text] = s
	m.calls++
	return s
}

// Calls returns how many times the wrapped oracle was invoked.
func (m *Memo) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
