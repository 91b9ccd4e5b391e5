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

const rxnormSample = `{
  "drugGroup": {
    "name": "aspirin",
    "conceptGroup": [
      {"tty": "IN", "conceptProperties": [
        {"rxcui": "1191", "name": "aspirin", "tty": "IN", "language": "ENG"}
      ]},
      {"tty": "BN", "conceptProperties": [
        {"rxcui": "215568", "name": "Bayer Aspirin", "tty": "BN", "language": "ENG"},
        {"rxcui": "", "name": "ignored, no rxcui", "tty": "BN"}
      ]},
      {"tty": "SBD"}
    ]
  }
}`

func TestRxNormRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		io.WriteString(w, `{"drugGroup":{}}`)
	}))
	defer ts.Close()

	a := NewRxNorm(testCfg(ts.URL), testCache(), quietLogger())
	if _, err := a.Search(context.Background(), "advil pm", SearchOptions{}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got := captured.URL.Path; got != "/drugs.json" {
		t.Errorf("path = %q, want /drugs.json", got)
	}
	if got := captured.URL.Query().Get("name"); got != "advil pm" {
		t.Errorf("name param = %q, want %q", got, "advil pm")
	}
	if got := captured.Header.Get("User-Agent"); got != "test/0.1" {
		t.Errorf("User-Agent = %q, want test/0.1", got)
	}
	if got := captured.Header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want application/json", got)
	}
}

func TestRxNormFlattensConceptGroups(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, rxnormSample)
	}))
	defer ts.Close()

	a := NewRxNorm(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "aspirin", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2 (concepts without an rxcui are dropped)", len(recs))
	}

	first := recs[0]
	if first.Key != "1191" || first.Title != "aspirin" || first.TermType != "IN" {
		t.Errorf("first record = %+v", first)
	}
	if first.Source != rxnormName || first.Category != types.CategoryMedications {
		t.Errorf("record not stamped: %+v", first)
	}
	if recs[1].Key != "215568" || recs[1].TermType != "BN" {
		t.Errorf("second record = %+v", recs[1])
	}
}

func TestRxNormEmptyDrugGroup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"drugGroup":{"name":"nomatch"}}`)
	}))
	defer ts.Close()

	a := NewRxNorm(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "nomatch", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("recs = %v, want empty", recs)
	}
}

func TestRxNormMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	}))
	defer ts.Close()

	a := NewRxNorm(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "aspirin", SearchOptions{})
	if err == nil {
		t.Error("Search should report the parse failure")
	}
	if len(recs) == 0 {
		t.Error("parse failure for a common term should serve fallback records")
	}
}
