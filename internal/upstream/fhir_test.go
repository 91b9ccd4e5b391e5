// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

const fhirSample = `{
  "resourceType": "Bundle",
  "type": "searchset",
  "total": 3,
  "entry": [
    {"resource": {
      "resourceType": "Condition",
      "id": "cond-1",
      "clinicalStatus": {"coding": [{"system": "http://terminology.hl7.org/CodeSystem/condition-clinical", "code": "active"}]},
      "category": [{"coding": [{"code": "problem-list-item"}], "text": "Problem List Item"}],
      "code": {
        "coding": [{"system": "http://snomed.info/sct", "code": "38341003", "display": "Hypertensive disorder"}],
        "text": "Hypertension"
      }
    }},
    {"resource": {
      "resourceType": "Medication",
      "id": "med-1",
      "status": "active",
      "code": {"coding": [{"code": "1191", "display": "aspirin"}]}
    }},
    {"resource": {
      "resourceType": "Condition",
      "id": "cond-2",
      "code": {"coding": [{"system": "http://snomed.info/sct", "code": "73211009", "display": "Diabetes mellitus"}]}
    }}
  ]
}`

// fhirServer serves the sample bundle to both resource-type lookups and
// records the request order.
func fhirServer(t *testing.T) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		io.WriteString(w, fhirSample)
	}))
	t.Cleanup(ts.Close)
	return ts, &seen
}

func TestFHIRRequestShape(t *testing.T) {
	ts, seen := fhirServer(t)

	a := NewFHIR(testCfg(ts.URL), testCache(), quietLogger())
	if _, err := a.Search(context.Background(), "hypertension", SearchOptions{}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(*seen) != 2 {
		t.Fatalf("got %d requests, want one per resource type", len(*seen))
	}
	if got := (*seen)[0].URL.Path; got != "/Condition" {
		t.Errorf("first path = %q, want /Condition", got)
	}
	if got := (*seen)[1].URL.Path; got != "/Medication" {
		t.Errorf("second path = %q, want /Medication", got)
	}
	for _, r := range *seen {
		if got := r.URL.Query().Get("_content"); got != "hypertension" {
			t.Errorf("%s _content param = %q", r.URL.Path, got)
		}
		if got := r.Header.Get("Accept"); got != fhirMediaType {
			t.Errorf("%s Accept = %q, want %q", r.URL.Path, got, fhirMediaType)
		}
	}
}

func TestFHIRFiltersByResourceType(t *testing.T) {
	ts, _ := fhirServer(t)

	a := NewFHIR(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "hypertension", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// The Condition leg must drop the interleaved Medication entry and
	// vice versa: two conditions, then one medication.
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want 3", len(recs))
	}
	for _, r := range recs[:2] {
		if r.Category != types.CategoryConditions {
			t.Errorf("record %q category = %q, want conditions", r.Title, r.Category)
		}
	}
	if recs[2].Category != types.CategoryMedications {
		t.Errorf("medication record category = %q, want medications", recs[2].Category)
	}
}

func TestFHIRProjectsCodedFields(t *testing.T) {
	ts, _ := fhirServer(t)

	a := NewFHIR(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "hypertension", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want 3", len(recs))
	}

	first := recs[0]
	if first.Key != "38341003" {
		t.Errorf("Key = %q, want the coded value", first.Key)
	}
	if first.Title != "Hypertension" {
		t.Errorf("Title = %q, want the code text over the coding display", first.Title)
	}
	if first.Code != "38341003" || first.CodeSystem != "http://snomed.info/sct" {
		t.Errorf("code fields = %q %q", first.Code, first.CodeSystem)
	}
	if first.ClinicalStatus != "active" {
		t.Errorf("ClinicalStatus = %q, want active", first.ClinicalStatus)
	}
	if first.Description != "Problem List Item" {
		t.Errorf("Description = %q, want the category text", first.Description)
	}

	// The second condition has no text; the coding display carries it.
	if recs[1].Title != "Diabetes mellitus" {
		t.Errorf("second Title = %q", recs[1].Title)
	}

	med := recs[2]
	if med.Key != "1191" || med.Title != "aspirin" {
		t.Errorf("medication record = %q %q, want the coded aspirin concept", med.Key, med.Title)
	}
	if med.Status != "active" {
		t.Errorf("medication Status = %q, want active", med.Status)
	}
}

func TestFHIROneLegFailing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Medication" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		io.WriteString(w, fhirSample)
	}))
	defer ts.Close()

	a := NewFHIR(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "hypertension", SearchOptions{})
	if err != nil {
		t.Fatalf("one failing leg should not fail the search: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want the condition records", len(recs))
	}
	for _, r := range recs {
		if r.Category != types.CategoryConditions {
			t.Errorf("record category = %q, want conditions", r.Category)
		}
	}
}

func TestFHIRNotABundle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"resourceType":"OperationOutcome"}`)
	}))
	defer ts.Close()

	a := NewFHIR(testCfg(ts.URL), testCache(), quietLogger())
	_, err := a.Search(context.Background(), "hypertension", SearchOptions{})
	if err == nil {
		t.Error("Search should report a non-Bundle response")
	}
}
