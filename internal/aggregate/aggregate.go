// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate orchestrates one analysis: it extracts search terms
// from user text, fans the terms out concurrently to every upstream
// adapter, waits until every call has settled, and folds the surviving
// records into a deduplicated, confidence-labeled AnalysisResult.
package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/terms"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/upstream"
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// Options tunes a single Analyze call.
type Options struct {
	// SkipCache is passed through to every adapter call.
	SkipCache bool

	// Profile, when complete (age and sex at minimum), adds one
	// profile-driven guidance lookup to the fan-out.
	Profile types.HealthProfile
}

// Aggregator fans user queries out to the upstream adapters.
type Aggregator struct {
	cfg       types.AggregatorConfig
	set       *upstream.Set
	extractor *terms.Extractor
	log       *logrus.Logger
}

// New builds an Aggregator over an adapter set and a term extractor.
func New(cfg types.AggregatorConfig, set *upstream.Set, extractor *terms.Extractor, log *logrus.Logger) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = types.DefaultConfig().Aggregator.MaxTerms
	}
	if cfg.MaxCalls <= 0 {
		cfg.MaxCalls = types.DefaultConfig().Aggregator.MaxCalls
	}
	return &Aggregator{cfg: cfg, set: set, extractor: extractor, log: log}
}

// outcome is one settled upstream call. Records carry their own
// category; fold routes by it.
type outcome struct {
	source  string
	records []types.UpstreamRecord
	err     error
}

// Analyze runs the full pipeline for one user query. Transient upstream
// failures degrade the result (fewer records, lower confidence) and are
// never returned as errors; the only error paths are caller bugs such as
// an invalid profile or a cancelled context before any work started.
func (a *Aggregator) Analyze(ctx context.Context, text string, opts Options) (*types.AnalysisResult, error) {
	if !opts.Profile.IsZero() {
		if err := opts.Profile.Validate(); err != nil {
			return nil, fmt.Errorf("invalid health profile: %w", err)
		}
	}

	result := &types.AnalysisResult{
		Query:      text,
		Terms:      []string{},
		Confidence: types.ConfidenceLow,
	}
	for _, cat := range types.Categories {
		a.setCategory(result, cat, []types.UpstreamRecord{})
	}

	extracted := a.extractor.Extract(text)
	extracted = a.capTerms(extracted)
	result.Terms = extracted

	profileCall := opts.Profile.Complete() && a.set.HealthFinder != nil
	if len(extracted) == 0 && !profileCall {
		result.Timestamp = time.Now()
		return result, nil
	}

	outcomes := a.fanOut(ctx, extracted, opts, profileCall)
	a.fold(result, outcomes)

	result.Confidence = Score(result)
	result.Timestamp = time.Now()
	return result, nil
}

// capTerms truncates the term list so terms x adapters stays under the
// configured call budget.
func (a *Aggregator) capTerms(extracted []string) []string {
	if len(extracted) > a.cfg.MaxTerms {
		extracted = extracted[:a.cfg.MaxTerms]
	}
	adapters := len(a.set.Adapters)
	if adapters == 0 {
		return extracted
	}
	if max := a.cfg.MaxCalls / adapters; len(extracted) > max {
		a.log.WithFields(logrus.Fields{
			"terms": len(extracted),
			"cap":   max,
		}).Warn("truncating term list to stay under the call budget")
		extracted = extracted[:max]
	}
	return extracted
}

// fanOut issues every (adapter, term) call concurrently plus the optional
// profile lookup, and blocks until all of them have settled. Outcomes
// come back in a fixed (term-major, adapter-minor) order so downstream
// dedup and source attribution are deterministic regardless of which
// goroutine finishes first.
func (a *Aggregator) fanOut(ctx context.Context, extracted []string, opts Options, profileCall bool) []outcome {
	searchOpts := upstream.SearchOptions{SkipCache: opts.SkipCache}

	total := len(extracted) * len(a.set.Adapters)
	if profileCall {
		total++
	}
	outcomes := make([]outcome, total)

	var wg sync.WaitGroup
	slot := 0
	for _, term := range extracted {
		for _, ad := range a.set.Adapters {
			wg.Add(1)
			go func(slot int, ad upstream.Adapter, term string) {
				defer wg.Done()
				recs, err := ad.Search(ctx, term, searchOpts)
				outcomes[slot] = outcome{source: ad.Name(), records: recs, err: err}
			}(slot, ad, term)
			slot++
		}
	}

	if profileCall {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			recs, err := a.set.HealthFinder.Recommendations(ctx, opts.Profile, searchOpts)
			outcomes[slot] = outcome{source: a.set.HealthFinder.Name(), records: recs, err: err}
		}(slot)
	}

	wg.Wait()
	return outcomes
}

// fold merges settled outcomes into the result: counters first, then
// per-category first-seen dedup, then source attribution in
// first-contribution order.
func (a *Aggregator) fold(result *types.AnalysisResult, outcomes []outcome) {
	seen := make(map[string]bool)
	sourceSeen := make(map[string]bool)

	for _, o := range outcomes {
		result.SearchAttempts++
		if o.err == nil {
			result.SuccessfulSearches++
		} else {
			a.log.WithError(o.err).WithField("source", o.source).Debug("upstream call settled with failure")
		}

		contributed := false
		for _, rec := range o.records {
			key := rec.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			a.setCategory(result, rec.Category, append(result.CategoryRecords(rec.Category), rec))
			contributed = true
		}
		if contributed && !sourceSeen[o.source] {
			sourceSeen[o.source] = true
			result.Sources = append(result.Sources, o.source)
		}
	}
}

func (a *Aggregator) setCategory(result *types.AnalysisResult, cat types.Category, recs []types.UpstreamRecord) {
	switch cat {
	case types.CategoryMedications:
		result.Medications = recs
	case types.CategoryConditions:
		result.Conditions = recs
	case types.CategoryTrials:
		result.Trials = recs
	case types.CategoryHealthTopics:
		result.HealthTopics = recs
	case types.CategorySafety:
		result.Safety = recs
	case types.CategoryGuidance:
		result.Guidance = recs
	}
}
