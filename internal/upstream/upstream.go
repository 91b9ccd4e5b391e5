// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upstream wraps the external medical reference APIs behind a
// uniform search contract. Each adapter owns its rate limiter, shares the
// process-wide cache, parses its service's response shape, and absorbs
// transient failures into fallback data so an upstream outage degrades
// result richness instead of crashing the pipeline.
package upstream

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/cache"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/ratelimit"
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// SearchOptions tunes a single adapter call.
type SearchOptions struct {
	// SkipCache forces a fresh upstream call even when a cached response
	// is available.
	SkipCache bool
}

// Adapter searches one external medical reference API. Search never
// panics: on any network error, timeout, non-success status, or
// unparseable payload it logs the condition and returns fallback records
// (or an empty list) alongside a non-nil error. The error exists so the
// orchestrator can count attempted vs. successful calls; callers must
// still use whatever records came back.
type Adapter interface {
	Name() string
	Category() types.Category
	Search(ctx context.Context, term string, opts SearchOptions) ([]types.UpstreamRecord, error)
}

// client holds the pieces every adapter shares: the HTTP client with the
// upstream's bounded timeout, the shared cache, and this upstream's own
// rate limiter.
type client struct {
	name     string
	category types.Category
	cfg      types.UpstreamConfig
	http     *http.Client
	cache    *cache.Cache
	limiter  *ratelimit.Limiter
	log      *logrus.Entry
}

func newClient(name string, category types.Category, cfg types.UpstreamConfig, store *cache.Cache, log *logrus.Logger) client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return client{
		name:     name,
		category: category,
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		cache:    store,
		limiter:  ratelimit.PerMinute(cfg.RequestsPerMinute),
		log:      log.WithField("adapter", name),
	}
}

func (c *client) cacheKey(term string) string {
	return c.name + ":" + strings.ToLower(strings.TrimSpace(term))
}

// run implements the common search path: cache check, rate-limit wait,
// service-specific fetch, write-through on success, fallback on failure.
func (c *client) run(ctx context.Context, term string, opts SearchOptions,
	fetch func(ctx context.Context, term string) ([]types.UpstreamRecord, error)) ([]types.UpstreamRecord, error) {

	key := c.cacheKey(term)
	if !opts.SkipCache && c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			if recs, ok := v.([]types.UpstreamRecord); ok {
				return recs, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.log.WithError(err).WithField("term", term).Warn("rate-limit wait interrupted, serving fallback")
		return Fallback(c.name, c.category, term), err
	}

	recs, err := fetch(ctx, term)
	if err != nil {
		c.log.WithError(err).WithField("term", term).Warn("upstream search failed, serving fallback")
		return Fallback(c.name, c.category, term), err
	}
	if recs == nil {
		recs = []types.UpstreamRecord{}
	}

	if c.cache != nil {
		c.cache.Set(key, recs, c.cfg.CacheTTL)
	}
	return recs, nil
}

// Set bundles the six core adapters. HealthFinder is exposed directly as
// well because its profile-driven mode sits outside the Adapter contract.
type Set struct {
	Adapters     []Adapter
	HealthFinder *HealthFinderAdapter
}

// NewSet builds all six adapters over a shared cache.
func NewSet(cfg types.UpstreamsConfig, store *cache.Cache, log *logrus.Logger) *Set {
	hf := NewHealthFinder(cfg.HealthFinder, store, log)
	return &Set{
		Adapters: []Adapter{
			NewRxNorm(cfg.RxNorm, store, log),
			NewFHIR(cfg.FHIR, store, log),
			NewTrials(cfg.Trials, store, log),
			NewMedlinePlus(cfg.MedlinePlus, store, log),
			NewOpenFDA(cfg.OpenFDA, store, log),
			hf,
		},
		HealthFinder: hf,
	}
}
