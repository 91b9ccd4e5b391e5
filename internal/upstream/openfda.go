// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/cache"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/httputil"
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

const (
	openFDAName       = "openfda"
	openFDAEventLimit = 10
	openFDALabelChars = 500

	// Frequency buckets over reported adverse-event counts.
	openFDACommonThreshold     = 1000
	openFDAOccasionalThreshold = 100
)

// OpenFDAAdapter queries the openFDA drug database with two independent
// lookups per term: aggregated adverse-event reaction counts (top N by
// occurrence, bucketed Common/Occasional/Rare) and drug label text
// sections (warnings, contraindications, dosage), each truncated for
// downstream display.
type OpenFDAAdapter struct {
	client
}

// NewOpenFDA builds the label/adverse-event adapter. cfg.APIKey is
// optional and only raises the quota.
func NewOpenFDA(cfg types.UpstreamConfig, store *cache.Cache, log *logrus.Logger) *OpenFDAAdapter {
	return &OpenFDAAdapter{client: newClient(openFDAName, types.CategorySafety, cfg, store, log)}
}

func (a *OpenFDAAdapter) Name() string             { return openFDAName }
func (a *OpenFDAAdapter) Category() types.Category { return types.CategorySafety }

func (a *OpenFDAAdapter) Search(ctx context.Context, term string, opts SearchOptions) ([]types.UpstreamRecord, error) {
	return a.run(ctx, term, opts, a.fetch)
}

// fetch runs both lookups. One leg failing degrades the result; the call
// only counts as failed when neither leg produced anything.
func (a *OpenFDAAdapter) fetch(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
	events, eventsErr := a.fetchEvents(ctx, term)
	if eventsErr != nil {
		a.log.WithError(eventsErr).WithField("term", term).Warn("adverse-event lookup failed")
	}

	// The second leg is its own upstream call and respects the quota.
	if err := a.limiter.Wait(ctx); err != nil {
		if eventsErr == nil {
			return events, nil
		}
		return nil, err
	}

	labels, labelsErr := a.fetchLabel(ctx, term)
	if labelsErr != nil {
		a.log.WithError(labelsErr).WithField("term", term).Warn("drug-label lookup failed")
	}

	if eventsErr != nil && labelsErr != nil {
		return nil, fmt.Errorf("openFDA lookups failed: %v; %v", eventsErr, labelsErr)
	}
	return append(events, labels...), nil
}

func (a *OpenFDAAdapter) fetchEvents(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
	params := url.Values{
		"search": {fmt.Sprintf(`patient.drug.medicinalproduct:%q`, strings.ToUpper(term))},
		"count":  {"patient.reaction.reactionmeddrapt.exact"},
		"limit":  {fmt.Sprintf("%d", openFDAEventLimit)},
	}
	if a.cfg.APIKey != "" {
		params.Set("api_key", a.cfg.APIKey)
	}

	var er openFDAEventResponse
	if err := a.getJSON(ctx, "/drug/event.json?"+params.Encode(), &er); err != nil {
		return nil, err
	}

	var records []types.UpstreamRecord
	for _, result := range er.Results {
		if result.Term == "" {
			continue
		}
		records = append(records, types.UpstreamRecord{
			Key:       "event:" + result.Term,
			Title:     result.Term,
			Source:    openFDAName,
			Category:  types.CategorySafety,
			Frequency: frequencyBucket(result.Count),
			Count:     result.Count,
		})
	}
	return records, nil
}

func (a *OpenFDAAdapter) fetchLabel(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
	params := url.Values{
		"search": {fmt.Sprintf(`openfda.brand_name:%q openfda.generic_name:%q`, term, term)},
		"limit":  {"1"},
	}
	if a.cfg.APIKey != "" {
		params.Set("api_key", a.cfg.APIKey)
	}

	var lr openFDALabelResponse
	if err := a.getJSON(ctx, "/drug/label.json?"+params.Encode(), &lr); err != nil {
		return nil, err
	}
	if len(lr.Results) == 0 {
		return nil, nil
	}
	label := lr.Results[0]

	sections := []struct {
		name string
		text []string
	}{
		{"warnings", label.Warnings},
		{"contraindications", label.Contraindications},
		{"dosage", label.DosageAndAdministration},
	}

	var records []types.UpstreamRecord
	for _, s := range sections {
		if len(s.text) == 0 {
			continue
		}
		text := truncate(strings.Join(strings.Fields(strings.Join(s.text, " ")), " "), openFDALabelChars)
		if text == "" {
			continue
		}
		rec := types.UpstreamRecord{
			Key:         fmt.Sprintf("label:%s:%s", s.name, strings.ToLower(term)),
			Title:       fmt.Sprintf("%s (%s)", capitalize(s.name), term),
			Source:      openFDAName,
			Category:    types.CategorySafety,
			Description: text,
		}
		if s.name == "warnings" {
			rec.Warnings = text
		}
		if s.name == "dosage" {
			rec.Dosage = text
		}
		records = append(records, rec)
	}
	return records, nil
}

func (a *OpenFDAAdapter) getJSON(ctx context.Context, path string, out any) error {
	req, err := httputil.NewRequest(ctx, a.cfg.BaseURL+path, a.cfg.UserAgent, "application/json")
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, a.http, req, 0)
	if err != nil {
		return fmt.Errorf("openFDA API request: %w", err)
	}
	defer resp.Body.Close()

	// openFDA answers 404 for zero matches; that is "no data", not an
	// outage.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openFDA API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing openFDA response: %w", err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// frequencyBucket maps a reported-occurrence count to a coarse label.
func frequencyBucket(count int) string {
	switch {
	case count >= openFDACommonThreshold:
		return "Common"
	case count >= openFDAOccasionalThreshold:
		return "Occasional"
	default:
		return "Rare"
	}
}

// openFDA JSON structures.
type openFDAEventResponse struct {
	Results []struct {
		Term  string `json:"term"`
		Count int    `json:"count"`
	} `json:"results"`
}

type openFDALabelResponse struct {
	Results []struct {
		Warnings                []string `json:"warnings"`
		Contraindications       []string `json:"contraindications"`
		DosageAndAdministration []string `json:"dosage_and_administration"`
	} `json:"results"`
}
