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

const rxnormName = "rxnorm"

// RxNormAdapter queries the NLM RxNorm drug database.
type RxNormAdapter struct {
	client
}

// NewRxNorm builds the drug-database adapter.
func NewRxNorm(cfg types.UpstreamConfig, store *cache.Cache, log *logrus.Logger) *RxNormAdapter {
	return &RxNormAdapter{client: newClient(rxnormName, types.CategoryMedications, cfg, store, log)}
}

func (a *RxNormAdapter) Name() string             { return rxnormName }
func (a *RxNormAdapter) Category() types.Category { return types.CategoryMedications }

// Search looks a drug name up and flattens the grouped concept response
// into one record per concept.
func (a *RxNormAdapter) Search(ctx context.Context, term string, opts SearchOptions) ([]types.UpstreamRecord, error) {
	return a.run(ctx, term, opts, a.fetch)
}

func (a *RxNormAdapter) fetch(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
	reqURL := fmt.Sprintf("%s/drugs.json?name=%s", a.cfg.BaseURL, url.QueryEscape(term))

	req, err := httputil.NewRequest(ctx, reqURL, a.cfg.UserAgent, "application/json")
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, a.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("RxNorm API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RxNorm API returned HTTP %d", resp.StatusCode)
	}

	var rr rxnormResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("parsing RxNorm response: %w", err)
	}

	// The response groups concepts by term type; flatten into one record
	// per concept.
	var records []types.UpstreamRecord
	for _, group := range rr.DrugGroup.ConceptGroup {
		for _, cp := range group.ConceptProperties {
			name := strings.TrimSpace(cp.Name)
			if cp.RxCUI == "" || name == "" {
				continue
			}
			tty := cp.TTY
			if tty == "" {
				tty = group.TTY
			}
			records = append(records, types.UpstreamRecord{
				Key:      cp.RxCUI,
				Title:    name,
				Source:   rxnormName,
				Category: types.CategoryMedications,
				TermType: tty,
			})
		}
	}
	return records, nil
}

// RxNorm API JSON structures.
type rxnormResponse struct {
	DrugGroup struct {
		Name         string               `json:"name"`
		ConceptGroup []rxnormConceptGroup `json:"conceptGroup"`
	} `json:"drugGroup"`
}

type rxnormConceptGroup struct {
	TTY               string                  `json:"tty"`
	ConceptProperties []rxnormConceptProperty `json:"conceptProperties"`
}

type rxnormConceptProperty struct {
	RxCUI    string `json:"rxcui"`
	Name     string `json:"name"`
	Synonym  string `json:"synonym"`
	TTY      string `json:"tty"`
	Language string `json:"language"`
}
