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
	trialsName     = "clinicaltrials"
	trialsPageSize = 20
)

// TrialsAdapter queries the ClinicalTrials.gov v2 registry.
//
// The live API rejects its documented filter.overallStatus and
// filter.phase query parameters with an "unknown parameter" error, so
// StatusFilter and PhaseFilter are applied by filtering the fetched
// study list in-process. That is a workaround for the external API, not
// a design preference.
type TrialsAdapter struct {
	client

	// StatusFilter keeps only studies whose overall status matches
	// (case-insensitive), e.g. "RECRUITING". Empty keeps all.
	StatusFilter string

	// PhaseFilter keeps only studies listing the phase, e.g. "PHASE3".
	// Empty keeps all.
	PhaseFilter string
}

// NewTrials builds the trials-registry adapter with no post-filters.
func NewTrials(cfg types.UpstreamConfig, store *cache.Cache, log *logrus.Logger) *TrialsAdapter {
	return &TrialsAdapter{client: newClient(trialsName, types.CategoryTrials, cfg, store, log)}
}

func (a *TrialsAdapter) Name() string             { return trialsName }
func (a *TrialsAdapter) Category() types.Category { return types.CategoryTrials }

func (a *TrialsAdapter) Search(ctx context.Context, term string, opts SearchOptions) ([]types.UpstreamRecord, error) {
	return a.run(ctx, term, opts, a.fetch)
}

func (a *TrialsAdapter) fetch(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
	// Only the known-working subset of query parameters is sent; see the
	// type comment for why status and phase are not.
	params := url.Values{
		"query.term": {term},
		"pageSize":   {fmt.Sprintf("%d", trialsPageSize)},
		"format":     {"json"},
	}
	reqURL := fmt.Sprintf("%s/studies?%s", a.cfg.BaseURL, params.Encode())

	req, err := httputil.NewRequest(ctx, reqURL, a.cfg.UserAgent, "application/json")
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, a.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("ClinicalTrials API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ClinicalTrials API returned HTTP %d", resp.StatusCode)
	}

	var tr trialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing ClinicalTrials response: %w", err)
	}

	var records []types.UpstreamRecord
	for _, study := range tr.Studies {
		ident := study.ProtocolSection.IdentificationModule
		if ident.NCTID == "" {
			continue
		}
		status := study.ProtocolSection.StatusModule.OverallStatus
		phases := study.ProtocolSection.DesignModule.Phases

		if a.StatusFilter != "" && !strings.EqualFold(status, a.StatusFilter) {
			continue
		}
		if a.PhaseFilter != "" && !containsFold(phases, a.PhaseFilter) {
			continue
		}

		records = append(records, types.UpstreamRecord{
			Key:        ident.NCTID,
			Title:      strings.TrimSpace(ident.BriefTitle),
			Source:     trialsName,
			Category:   types.CategoryTrials,
			Status:     status,
			Phase:      strings.Join(phases, ", "),
			Enrollment: study.ProtocolSection.DesignModule.EnrollmentInfo.Count,
			URL:        "https://clinicaltrials.gov/study/" + ident.NCTID,
		})
	}
	return records, nil
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// ClinicalTrials.gov v2 JSON structures.
type trialsResponse struct {
	Studies       []trialsStudy `json:"studies"`
	NextPageToken string        `json:"nextPageToken"`
}

type trialsStudy struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTID      string `json:"nctId"`
			BriefTitle string `json:"briefTitle"`
		} `json:"identificationModule"`
		StatusModule struct {
			OverallStatus string `json:"overallStatus"`
		} `json:"statusModule"`
		DesignModule struct {
			Phases         []string `json:"phases"`
			EnrollmentInfo struct {
				Count int `json:"count"`
			} `json:"enrollmentInfo"`
		} `json:"designModule"`
	} `json:"protocolSection"`
}
