// Package config holds the tunable analysis settings and loads the
// components they point at.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/reviewlens/pkg/reviewlens/aggregate"
	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Config is the recognized option set. Field names follow the YAML keys.
type Config struct {
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	CachePath       string `yaml:"cache_path"` // empty keeps the cache in memory

	MinSupportPercentage       float64 `yaml:"min_support_percentage"`
	SentimentPositiveThreshold float64 `yaml:"sentiment_positive_threshold"`
	SentimentNegativeThreshold float64 `yaml:"sentiment_negative_threshold"`
	SentimentInsightThreshold  float64 `yaml:"sentiment_insight_threshold"`

	// SpecificInsightSupport applies to taxonomy insight templates that do
	// not set their own support.
	SpecificInsightSupport float64 `yaml:"specific_insight_support"`

	TrendBucket         string  `yaml:"trend_bucket"`
	TrendSlopeThreshold float64 `yaml:"trend_slope_threshold"`
	TrendSlopeCap       float64 `yaml:"trend_slope_cap"`

	MaxRepresentativeExamples int `yaml:"max_representative_examples"`
	MaxCharacteristics        int `yaml:"max_characteristics"`

	// TaxonomyFiles overrides or adds dimensions: name -> YAML path.
	TaxonomyFiles    map[string]string  `yaml:"taxonomy_files"`
	DimensionWeights map[string]float64 `yaml:"dimension_weights"`
	ParserLexicon    string             `yaml:"parser_lexicon"`
	SentimentLexicon string             `yaml:"sentiment_lexicon"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		CacheTTLSeconds:            86400,
		MinSupportPercentage:       10,
		SentimentPositiveThreshold: 0.05,
		SentimentNegativeThreshold: -0.05,
		SentimentInsightThreshold:  0.5,
		SpecificInsightSupport:     15,
		TrendBucket:                string(aggregate.Month),
		TrendSlopeThreshold:        0.1,
		TrendSlopeCap:              2.0,
		MaxRepresentativeExamples:  5,
		MaxCharacteristics:         10,
		LogLevel:                   "info",
	}
}

// LoadFile overlays a YAML file on the defaults and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{internalerr.ErrInvalidConfig}, args...)...)
	}
	switch {
	case c.CacheTTLSeconds < 0:
		return bad("cache_ttl_seconds must not be negative")
	case c.MinSupportPercentage < 0 || c.MinSupportPercentage > 100:
		return bad("min_support_percentage must be within [0, 100]")
	case c.SentimentPositiveThreshold < -1 || c.SentimentPositiveThreshold > 1,
		c.SentimentNegativeThreshold < -1 || c.SentimentNegativeThreshold > 1:
		return bad("sentiment thresholds must be within [-1, 1]")
	case c.SentimentNegativeThreshold > c.SentimentPositiveThreshold:
		return bad("sentiment_negative_threshold exceeds sentiment_positive_threshold")
	case c.SentimentInsightThreshold < 0 || c.SentimentInsightThreshold > 1:
		return bad("sentiment_insight_threshold must be within [0, 1]")
	case c.SpecificInsightSupport < 0 || c.SpecificInsightSupport > 100:
		return bad("specific_insight_support must be within [0, 100]")
	case c.TrendSlopeThreshold < 0:
		return bad("trend_slope_threshold must not be negative")
	case c.TrendSlopeCap <= 0:
		return bad("trend_slope_cap must be positive")
	case c.MaxRepresentativeExamples <= 0:
		return bad("max_representative_examples must be positive")
	case c.MaxCharacteristics <= 0:
		return bad("max_characteristics must be positive")
	}
	if _, err := aggregate.ParseBucket(c.TrendBucket); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return bad("log_level: %v", err)
		}
	}
	for dim, w := range c.DimensionWeights {
		if w < 0 || w > 1 {
			return bad("dimension_weights[%s] must be within [0, 1]", dim)
		}
	}
	return nil
}

// TTL returns the cache lifetime.
func (c Config) TTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Fingerprint hashes the settings that change analysis output. Cache and
// logging settings are left out, as are insight-only settings. Taxonomies
// are keyed by their own identity.
func (c Config) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "pos=%g;neg=%g;bucket=%s;slope=%g;examples=%d;chars=%d;",
		c.SentimentPositiveThreshold,
		c.SentimentNegativeThreshold,
		c.TrendBucket,
		c.TrendSlopeThreshold,
		c.MaxRepresentativeExamples,
		c.MaxCharacteristics,
	)
	fmt.Fprintf(h, "parser=%s;sentiment=%s;", c.ParserLexicon, c.SentimentLexicon)
	return hex.EncodeToString(h.Sum(nil))
}
