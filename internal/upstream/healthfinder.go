// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/cache"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/httputil"
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

const (
	healthFinderName         = "healthfinder"
	healthFinderSummaryChars = 600
)

// HealthFinderAdapter queries the ODPHP MyHealthfinder service. It has
// two modes: keyword topic search (the Adapter contract) and a
// profile-driven recommendation call that sends only the demographic
// attributes the user supplied.
type HealthFinderAdapter struct {
	client
}

// NewHealthFinder builds the personalized-guidance adapter.
func NewHealthFinder(cfg types.UpstreamConfig, store *cache.Cache, log *logrus.Logger) *HealthFinderAdapter {
	return &HealthFinderAdapter{client: newClient(healthFinderName, types.CategoryGuidance, cfg, store, log)}
}

func (a *HealthFinderAdapter) Name() string             { return healthFinderName }
func (a *HealthFinderAdapter) Category() types.Category { return types.CategoryGuidance }

// Search runs the keyword topic mode.
func (a *HealthFinderAdapter) Search(ctx context.Context, term string, opts SearchOptions) ([]types.UpstreamRecord, error) {
	return a.run(ctx, term, opts, func(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
		params := url.Values{"keyword": {term}}
		return a.fetchResources(ctx, "/topicsearch.json?"+params.Encode())
	})
}

// Recommendations runs the profile-driven mode. Only supplied profile
// attributes are sent. Like Search it absorbs transient failures: on
// error it returns fallback records plus the error for call accounting.
func (a *HealthFinderAdapter) Recommendations(ctx context.Context, profile types.HealthProfile, opts SearchOptions) ([]types.UpstreamRecord, error) {
	params := url.Values{}
	if profile.Age > 0 {
		params.Set("age", strconv.Itoa(profile.Age))
	}
	if profile.Sex != "" {
		params.Set("sex", profile.Sex)
	}
	if profile.Pregnant != nil {
		params.Set("pregnant", yesNo(*profile.Pregnant))
	}
	if profile.TobaccoUse != nil {
		params.Set("tobaccoUse", yesNo(*profile.TobaccoUse))
	}
	if profile.Language != "" {
		params.Set("lang", profile.Language)
	}

	// Profile lookups reuse the common path keyed by the attribute set,
	// so two requests with the same profile share a cache entry.
	return a.run(ctx, "profile:"+params.Encode(), opts, func(ctx context.Context, _ string) ([]types.UpstreamRecord, error) {
		return a.fetchResources(ctx, "/myhealthfinder.json?"+params.Encode())
	})
}

func (a *HealthFinderAdapter) fetchResources(ctx context.Context, path string) ([]types.UpstreamRecord, error) {
	req, err := httputil.NewRequest(ctx, a.cfg.BaseURL+path, a.cfg.UserAgent, "application/json")
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, a.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("MyHealthfinder API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("MyHealthfinder API returned HTTP %d", resp.StatusCode)
	}

	var hr healthFinderResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return nil, fmt.Errorf("parsing MyHealthfinder response: %w", err)
	}

	var records []types.UpstreamRecord
	for _, res := range hr.Result.Resources.Resource {
		title := strings.TrimSpace(res.Title)
		if title == "" {
			continue
		}
		key := res.ID
		if key == "" {
			key = title
		}
		records = append(records, types.UpstreamRecord{
			Key:         key,
			Title:       title,
			Source:      healthFinderName,
			Category:    types.CategoryGuidance,
			Description: truncate(stripMarkup(res.sectionText()), healthFinderSummaryChars),
			URL:         res.AccessibleVersion,
		})
	}
	return records, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// MyHealthfinder JSON structures.
type healthFinderResponse struct {
	Result struct {
		Total     int `json:"Total"`
		Resources struct {
			Resource []healthFinderResource `json:"Resource"`
		} `json:"Resources"`
	} `json:"Result"`
}

type healthFinderResource struct {
	ID                string `json:"Id"`
	Title             string `json:"Title"`
	AccessibleVersion string `json:"AccessibleVersion"`
	Sections          struct {
		Section []struct {
			Title   string `json:"Title"`
			Content string `json:"Content"`
		} `json:"section"`
	} `json:"Sections"`
}

// sectionText concatenates section content for the summary field.
func (r healthFinderResource) sectionText() string {
	var parts []string
	for _, s := range r.Sections.Section {
		if s.Content != "" {
			parts = append(parts, s.Content)
		}
	}
	return strings.Join(parts, " ")
}
