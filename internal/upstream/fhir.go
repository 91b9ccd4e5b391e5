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
	fhirName      = "fhir"
	fhirMediaType = "application/fhir+json"
	fhirPageSize  = 20
)

// FHIRAdapter queries a FHIR R4 terminology server. Each search runs one
// Bundle request per resource type, Condition then Medication; the
// server's mixed entries are filtered by resourceType and the nested
// coded fields projected into flat records, each resource type landing
// in its own category.
type FHIRAdapter struct {
	client
}

// NewFHIR builds the clinical-terminology adapter.
func NewFHIR(cfg types.UpstreamConfig, store *cache.Cache, log *logrus.Logger) *FHIRAdapter {
	return &FHIRAdapter{client: newClient(fhirName, types.CategoryConditions, cfg, store, log)}
}

func (a *FHIRAdapter) Name() string { return fhirName }

// Category reports the primary category. Medication records carry their
// own category on the record itself.
func (a *FHIRAdapter) Category() types.Category { return types.CategoryConditions }

func (a *FHIRAdapter) Search(ctx context.Context, term string, opts SearchOptions) ([]types.UpstreamRecord, error) {
	return a.run(ctx, term, opts, a.fetch)
}

// fetch runs both resource-type lookups. One leg failing degrades the
// result; the call only counts as failed when neither leg produced
// anything.
func (a *FHIRAdapter) fetch(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
	conditions, condErr := a.fetchResource(ctx, term, "Condition", types.CategoryConditions)
	if condErr != nil {
		a.log.WithError(condErr).WithField("term", term).Warn("condition lookup failed")
	}

	// The second leg is its own upstream call and respects the quota.
	if err := a.limiter.Wait(ctx); err != nil {
		if condErr == nil {
			return conditions, nil
		}
		return nil, err
	}

	medications, medErr := a.fetchResource(ctx, term, "Medication", types.CategoryMedications)
	if medErr != nil {
		a.log.WithError(medErr).WithField("term", term).Warn("medication lookup failed")
	}

	if condErr != nil && medErr != nil {
		return nil, fmt.Errorf("FHIR lookups failed: %v; %v", condErr, medErr)
	}
	return append(conditions, medications...), nil
}

func (a *FHIRAdapter) fetchResource(ctx context.Context, term, resource string, category types.Category) ([]types.UpstreamRecord, error) {
	params := url.Values{
		"_content": {term},
		"_count":   {fmt.Sprintf("%d", fhirPageSize)},
	}
	reqURL := fmt.Sprintf("%s/%s?%s", a.cfg.BaseURL, resource, params.Encode())

	req, err := httputil.NewRequest(ctx, reqURL, a.cfg.UserAgent, fhirMediaType)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, a.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("FHIR API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FHIR API returned HTTP %d", resp.StatusCode)
	}

	var bundle fhirBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing FHIR bundle: %w", err)
	}
	if bundle.ResourceType != "Bundle" {
		return nil, fmt.Errorf("unexpected FHIR resource type %q", bundle.ResourceType)
	}

	var records []types.UpstreamRecord
	for _, entry := range bundle.Entry {
		var res fhirResource
		if err := json.Unmarshal(entry.Resource, &res); err != nil {
			continue
		}
		// Bundles can interleave OperationOutcome and other types; keep
		// only the requested resource.
		if res.ResourceType != resource {
			continue
		}
		if rec, ok := a.project(res, category); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// project flattens one typed resource's nested coded fields.
func (a *FHIRAdapter) project(res fhirResource, category types.Category) (types.UpstreamRecord, bool) {
	rec := types.UpstreamRecord{
		Source:   fhirName,
		Category: category,
	}

	display := strings.TrimSpace(res.Code.Text)
	if len(res.Code.Coding) > 0 {
		c := res.Code.Coding[0]
		rec.Code = c.Code
		rec.CodeSystem = c.System
		if display == "" {
			display = strings.TrimSpace(c.Display)
		}
	}
	if display == "" {
		return types.UpstreamRecord{}, false
	}
	rec.Title = display

	if rec.Code != "" {
		rec.Key = rec.Code
	} else {
		rec.Key = res.ID
	}

	// Condition carries a coded clinicalStatus; Medication a plain
	// status code.
	if len(res.ClinicalStatus.Coding) > 0 {
		rec.ClinicalStatus = res.ClinicalStatus.Coding[0].Code
	}
	rec.Status = res.Status

	for _, cat := range res.Category {
		if cat.Text != "" {
			rec.Description = cat.Text
			break
		}
		if len(cat.Coding) > 0 && cat.Coding[0].Code != "" {
			rec.Description = cat.Coding[0].Code
			break
		}
	}
	return rec, true
}

// FHIR R4 JSON structures (the subset the adapter projects).
type fhirBundle struct {
	ResourceType string `json:"resourceType"`
	Total        int    `json:"total"`
	Entry        []struct {
		Resource json.RawMessage `json:"resource"`
	} `json:"entry"`
}

type fhirResource struct {
	ResourceType   string         `json:"resourceType"`
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	Code           fhirCodeable   `json:"code"`
	ClinicalStatus fhirCodeable   `json:"clinicalStatus"`
	Category       []fhirCodeable `json:"category"`
}

type fhirCodeable struct {
	Text   string `json:"text"`
	Coding []struct {
		System  string `json:"system"`
		Code    string `json:"code"`
		Display string `json:"display"`
	} `json:"coding"`
}
