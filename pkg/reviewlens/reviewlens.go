// Package reviewlens categorizes product reviews along configurable
// dimensions. An Engine runs one dimension: it parses every review, extracts
// categorized mentions, folds them into per-category summaries and memoizes
// the whole result in a TTL cache.
package reviewlens

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/reviewlens/pkg/reviewlens/aggregate"
	"github.com/cognicore/reviewlens/pkg/reviewlens/cache"
	"github.com/cognicore/reviewlens/pkg/reviewlens/cache/memcache"
	"github.com/cognicore/reviewlens/pkg/reviewlens/config"
	"github.com/cognicore/reviewlens/pkg/reviewlens/extract"
	"github.com/cognicore/reviewlens/pkg/reviewlens/insight"
	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp"
	"github.com/cognicore/reviewlens/pkg/reviewlens/nlp/shallow"
	"github.com/cognicore/reviewlens/pkg/reviewlens/review"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/taxonomy"
)

// Analyzer is the contract shared by every dimension.
type Analyzer interface {
	Name() string
	// Analyze fails only when the dataset is empty or lacks a required
	// field. Per-review failures are recorded in the result metadata.
	Analyze(ctx context.Context, reviews []review.Record) (aggregate.AnalysisResult, error)
	// ExtractCategories maps "main/sub" to the distinct phrases found.
	ExtractCategories(ctx context.Context, reviews []review.Record) (map[string][]string, error)
}

// Dimension is the domain knowledge of one analyzer. Triggers and Span
// override the taxonomy's extraction profile when set.
type Dimension struct {
	Name     string
	Taxonomy *taxonomy.Taxonomy
	Triggers extract.TriggerStrategy
	Span     *extract.SpanRules
}

// BuiltinDimension returns the dimension backed by an embedded taxonomy.
func BuiltinDimension(name string) (Dimension, error) {
	tax, err := taxonomy.Builtin(name)
	if err != nil {
		return Dimension{}, err
	}
	return Dimension{Name: name, Taxonomy: tax}, nil
}

// Options configures an Engine. Zero fields take defaults: the shallow
// parser, the VADER oracle, a private in-memory cache, config.Default()
// and the standard logrus logger.
type Options struct {
	Parser   nlp.Parser
	Oracle   sentiment.Oracle
	Cache    cache.Store
	Config   *config.Config
	Logger   logrus.FieldLogger
	Now      func() time.Time
	Progress func(done, total int)
}

// Engine analyzes reviews along one dimension.
//
// An Engine assumes one run at a time. Two concurrent runs on the same
// dataset race on the cache write and the last one wins.
type Engine struct {
	dim       Dimension
	extractor *extract.Extractor
	profile   string

	parser   nlp.Parser
	oracle   sentiment.Oracle
	cache    *cache.ReadThrough
	cfg      config.Config
	bucket   aggregate.Bucket
	log      logrus.FieldLogger
	now      func() time.Time
	progress func(done, total int)

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var _ Analyzer = (*Engine)(nil)

// New creates an engine for dim.
func New(dim Dimension, opts Options) (*Engine, error) {
	if dim.Taxonomy == nil {
		return nil, fmt.Errorf("%w: dimension %q has no taxonomy", internalerr.ErrInvalidConfig, dim.Name)
	}
	if dim.Name == "" {
		dim.Name = dim.Taxonomy.Name()
	}

	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bucket, err := aggregate.ParseBucket(cfg.TrendBucket)
	if err != nil {
		return nil, err
	}

	triggers, span := extract.Profile(dim.Taxonomy)
	if dim.Triggers != nil {
		triggers = dim.Triggers
	}
	if dim.Span != nil {
		span = *dim.Span
	}

	e := &Engine{
		dim:       dim,
		extractor: extract.New(extract.NewCategorizer(dim.Taxonomy), triggers, span),
		parser:    opts.Parser,
		oracle:    opts.Oracle,
		cfg:       cfg,
		bucket:    bucket,
		log:       opts.Logger,
		now:       opts.Now,
		progress:  opts.Progress,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
	if e.parser == nil {
		e.parser = shallow.NewDefault()
	}
	if e.oracle == nil {
		e.oracle = sentiment.Default()
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.log = e.log.WithField("analyzer", dim.Name)

	store := opts.Cache
	if store == nil {
		store = memcache.New()
	}
	e.cache = &cache.ReadThrough{Store: store, TTL: cfg.TTL(), Now: e.now, Logger: e.log}
	e.profile = fmt.Sprintf("%T|%T|%#v|%#v", e.parser, e.oracle, triggers, span)
	return e, nil
}

// Name implements Analyzer.
func (e *Engine) Name() string { return e.dim.Name }

// Taxonomy returns the dimension's taxonomy.
func (e *Engine) Taxonomy() *taxonomy.Taxonomy { return e.dim.Taxonomy }

func (e *Engine) cacheKey(reviews []review.Record) string {
	return cache.Key(
		review.Fingerprint(reviews),
		e.dim.Taxonomy.Identity(),
		e.cfg.Fingerprint(),
		e.dim.Name,
		e.profile,
	)
}

// Analyze implements Analyzer. Review text is parsed as given: LoadFromJSONL
// already cleans it, and callers building records by hand should pass the
// text through review.CleanText first. Within the cache TTL, repeated calls on the
// same dataset return the stored result without parsing anything.
func (e *Engine) Analyze(ctx context.Context, reviews []review.Record) (aggregate.AnalysisResult, error) {
	if err := review.ValidateDataset(reviews); err != nil {
		return aggregate.AnalysisResult{}, err
	}

	key := e.cacheKey(reviews)
	if payload, ok := e.cache.Lookup(ctx, key); ok {
		var res aggregate.AnalysisResult
		err := json.Unmarshal(payload, &res)
		if err == nil {
			e.log.WithFields(logrus.Fields{
				"reviews": len(reviews),
				"cached":  true,
				"run_id":  res.Metadata.RunID,
			}).Debug("analysis replayed from cache")
			return res, nil
		}
		e.log.WithError(fmt.Errorf("%w: %v", internalerr.ErrCorruptEntry, err)).
			WithField("cache_key", key).Warn("undecodable cache entry, recomputing")
	}

	fresh, err := e.compute(ctx, reviews)
	if err != nil {
		return aggregate.AnalysisResult{}, err
	}
	payload, err := json.Marshal(fresh)
	if err != nil {
		return aggregate.AnalysisResult{}, fmt.Errorf("encode result: %w", err)
	}
	e.cache.Save(ctx, key, payload, fresh.Metadata.Timestamp)

	var res aggregate.AnalysisResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return aggregate.AnalysisResult{}, fmt.Errorf("decode result: %w", err)
	}
	e.log.WithFields(logrus.Fields{
		"reviews":  len(reviews),
		"mentions": res.Metadata.TotalMentions,
		"failed":   res.Metadata.FailedReviews,
		"cached":   false,
		"run_id":   res.Metadata.RunID,
	}).Info("analysis complete")
	return res, nil
}

// Expire drops the cached result for reviews so the next Analyze recomputes.
func (e *Engine) Expire(ctx context.Context, reviews []review.Record) error {
	return e.cache.Invalidate(ctx, e.cacheKey(reviews))
}

func (e *Engine) compute(ctx context.Context, reviews []review.Record) (aggregate.AnalysisResult, error) {
	now := e.now().UTC()
	mentions, failures, err := e.extract(ctx, reviews)
	if err != nil {
		return aggregate.AnalysisResult{}, err
	}

	from, to := timeRange(reviews)
	oracle := sentiment.NewMemo(e.oracle)
	agg := aggregate.New(aggregate.Options{
		MaxCharacteristics: e.cfg.MaxCharacteristics,
		MaxExamples:        e.cfg.MaxRepresentativeExamples,
		Thresholds: sentiment.Thresholds{
			Positive: e.cfg.SentimentPositiveThreshold,
			Negative: e.cfg.SentimentNegativeThreshold,
		},
		Bucket:         e.bucket,
		SlopeThreshold: e.cfg.TrendSlopeThreshold,
		Oracle:         oracle,
		SeriesStart:    from,
		SeriesEnd:      to,
	})
	for _, m := range mentions {
		agg.Add(m)
	}
	e.log.WithFields(logrus.Fields{
		"mentions":     agg.TotalMentions(),
		"oracle_calls": oracle.Calls(),
	}).Debug("sentiment scored")

	return aggregate.AnalysisResult{
		Categories: agg.Summaries(len(reviews)),
		Metadata: aggregate.Metadata{
			Analyzer:         e.dim.Name,
			RunID:            e.newRunID(now),
			Timestamp:        now,
			TotalReviews:     len(reviews),
			ProcessedReviews: len(reviews) - len(failures),
			FailedReviews:    len(failures),
			TotalMentions:    agg.TotalMentions(),
			ConfidenceScore:  aggregate.Confidence(agg.TotalMentions(), len(reviews)),
			TaxonomyIdentity: e.dim.Taxonomy.Identity(),
			Errors:           failures,
		},
	}, nil
}

func (e *Engine) newRunID(now time.Time) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), e.entropy).String()
}

func timeRange(reviews []review.Record) (from, to time.Time) {
	for _, r := range reviews {
		if r.Timestamp.IsZero() {
			continue
		}
		if from.IsZero() || r.Timestamp.Before(from) {
			from = r.Timestamp
		}
		if r.Timestamp.After(to) {
			to = r.Timestamp
		}
	}
	return from, to
}

// ExtractCategories implements Analyzer. Phrases keep first-occurrence
// order.
func (e *Engine) ExtractCategories(ctx context.Context, reviews []review.Record) (map[string][]string, error) {
	mentions, err := e.Mentions(ctx, reviews)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	seen := make(map[string]bool)
	for _, m := range mentions {
		k := m.Key() + "\x00" + m.Phrase
		if seen[k] {
			continue
		}
		seen[k] = true
		out[m.Key()] = append(out[m.Key()], m.Phrase)
	}
	return out, nil
}

// Mentions returns every categorized mention in review order. The cache is
// not consulted.
func (e *Engine) Mentions(ctx context.Context, reviews []review.Record) ([]extract.Mention, error) {
	if err := review.ValidateDataset(reviews); err != nil {
		return nil, err
	}
	mentions, _, err := e.extract(ctx, reviews)
	return mentions, err
}

// extract runs the parser and extractor over every review. Failing reviews
// contribute no mentions and are reported instead.
func (e *Engine) extract(ctx context.Context, reviews []review.Record) ([]extract.Mention, []aggregate.ReviewError, error) {
	var mentions []extract.Mention
	var failures []aggregate.ReviewError
	for i, r := range reviews {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		ms, stage, err := e.review(i, r)
		if err != nil {
			failures = append(failures, aggregate.ReviewError{
				ReviewID:    r.ID,
				ReviewIndex: i,
				Stage:       stage,
				Message:     err.Error(),
			})
			e.log.WithFields(logrus.Fields{
				"review_id":    r.ID,
				"review_index": i,
				"stage":        stage,
			}).WithError(err).Warn("review skipped")
		} else {
			mentions = append(mentions, ms...)
		}
		if e.progress != nil {
			e.progress(i+1, len(reviews))
		}
	}
	return mentions, failures, nil
}

func (e *Engine) review(i int, r review.Record) (ms []extract.Mention, stage string, err error) {
	stage = "validate"
	defer func() {
		if p := recover(); p != nil {
			ms = nil
			err = fmt.Errorf("%w: recovered: %v", internalerr.ErrMalformedSentence, p)
		}
	}()

	if !r.HasText() {
		return nil, stage, &internalerr.ProcessingError{Stage: stage, Field: "text", Cause: internalerr.ErrMissingField}
	}

	stage = "parse"
	sentences, err := e.parser.Parse(r.Body())
	if err != nil {
		return nil, stage, err
	}

	stage = "extract"
	src := extract.Source{ReviewID: r.ID, ReviewIndex: i, Timestamp: r.Timestamp}
	ms, err = e.extractor.Review(src, sentences)
	return ms, stage, err
}

// NewRanker builds an insight ranker from cfg.
func NewRanker(cfg config.Config) insight.Ranker {
	return insight.Ranker{
		MinSupport:         cfg.MinSupportPercentage,
		SentimentThreshold: cfg.SentimentInsightThreshold,
		SlopeCap:           cfg.TrendSlopeCap,
		SpecificSupport:    cfg.SpecificInsightSupport,
		Weights:            cfg.DimensionWeights,
	}
}
