package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/reviewlens/internal/logging"
	"github.com/cognicore/reviewlens/pkg/reviewlens"
	"github.com/cognicore/reviewlens/pkg/reviewlens/cache"
	"github.com/cognicore/reviewlens/pkg/reviewlens/cache/memcache"
	"github.com/cognicore/reviewlens/pkg/reviewlens/cache/sqlite"
	"github.com/cognicore/reviewlens/pkg/reviewlens/config"
	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/review"
)

// session is everything one analysis command needs: resolved config,
// components, the cache and the loaded reviews.
type session struct {
	a       *app
	cfg     config.Config
	log     *logrus.Logger
	comp    *config.Components
	store   cache.Store
	records []review.Record
}

// resolveConfig layers defaults, the config file and explicit flags or
// environment variables, in that order.
func (a *app) resolveConfig() (config.Config, error) {
	cfg := config.Default()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if a.v.IsSet("cache-path") {
		cfg.CachePath = a.v.GetString("cache-path")
	}
	if a.v.IsSet("log-level") {
		cfg.LogLevel = a.v.GetString("log-level")
	}
	return cfg, cfg.Validate()
}

func (a *app) components() (config.Config, *logrus.Logger, *config.Components, error) {
	cfg, err := a.resolveConfig()
	if err != nil {
		return cfg, nil, nil, err
	}
	log, err := logging.Setup(cfg.LogLevel, a.errOut)
	if err != nil {
		return cfg, nil, nil, err
	}
	log.AddHook(logging.FieldsHook{"tool": "reviewlens"})

	comp, err := config.NewLoader(cfg).Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, log, comp, nil
}

func (a *app) open(ctx context.Context, input string) (*session, error) {
	if input == "" {
		return nil, fmt.Errorf("%w: --input is required", internalerr.ErrInvalidInput)
	}
	cfg, log, comp, err := a.components()
	if err != nil {
		return nil, err
	}

	records, err := review.LoadFromJSONL(input, log)
	if err != nil {
		return nil, err
	}
	if deduped := review.Dedupe(records); len(deduped) != len(records) {
		log.WithFields(logrus.Fields{
			"file":    input,
			"dropped": len(records) - len(deduped),
		}).Info("dropped duplicate reviews")
		records = deduped
	}

	var store cache.Store
	if cfg.CachePath != "" {
		store, err = sqlite.Open(ctx, cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", cfg.CachePath, err)
		}
	} else {
		store = memcache.New()
	}

	return &session{a: a, cfg: cfg, log: log, comp: comp, store: store, records: records}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// dimensions validates the requested names; none means every dimension.
func (s *session) dimensions(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return s.comp.Dimensions, nil
	}
	for _, d := range requested {
		if _, ok := s.comp.Taxonomies[d]; !ok {
			return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownDimension, d)
		}
	}
	return requested, nil
}

func (s *session) engine(dim string) (*reviewlens.Engine, error) {
	opts := reviewlens.Options{
		Parser: s.comp.Parser,
		Oracle: s.comp.Oracle,
		Cache:  s.store,
		Config: &s.cfg,
		Logger: s.log,
	}
	if !s.a.v.GetBool("quiet") {
		bar := progressbar.NewOptions(len(s.records),
			progressbar.OptionSetWriter(s.a.errOut),
			progressbar.OptionSetDescription(dim),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}
	return reviewlens.New(reviewlens.Dimension{Name: dim, Taxonomy: s.comp.Taxonomies[dim]}, opts)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
