// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const trialsSample = `{
  "studies": [
    {"protocolSection": {
      "identificationModule": {"nctId": "NCT01234567", "briefTitle": "Aspirin for Migraine Prevention"},
      "statusModule": {"overallStatus": "RECRUITING"},
      "designModule": {"phases": ["PHASE3"], "enrollmentInfo": {"count": 240}}
    }},
    {"protocolSection": {
      "identificationModule": {"nctId": "NCT07654321", "briefTitle": "Completed Headache Study"},
      "statusModule": {"overallStatus": "COMPLETED"},
      "designModule": {"phases": ["PHASE2"], "enrollmentInfo": {"count": 80}}
    }},
    {"protocolSection": {
      "identificationModule": {"nctId": "", "briefTitle": "No identifier, dropped"}
    }}
  ]
}`

func trialsServer(t *testing.T) (*httptest.Server, *http.Request) {
	t.Helper()
	captured := &http.Request{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = *r
		io.WriteString(w, trialsSample)
	}))
	t.Cleanup(ts.Close)
	return ts, captured
}

func TestTrialsOnlyKnownWorkingParamsSent(t *testing.T) {
	ts, captured := trialsServer(t)

	a := NewTrials(testCfg(ts.URL), testCache(), quietLogger())
	a.StatusFilter = "RECRUITING"
	a.PhaseFilter = "PHASE3"

	if _, err := a.Search(context.Background(), "migraine", SearchOptions{}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := captured.URL.Query()
	if got := q.Get("query.term"); got != "migraine" {
		t.Errorf("query.term = %q", got)
	}
	// The live API rejects these documented parameters; they must never
	// reach the wire.
	for _, forbidden := range []string{"filter.overallStatus", "filter.phase"} {
		if q.Has(forbidden) {
			t.Errorf("parameter %q was sent upstream; it must be applied client-side", forbidden)
		}
	}
	if !strings.HasSuffix(captured.URL.Path, "/studies") {
		t.Errorf("path = %q, want .../studies", captured.URL.Path)
	}
}

func TestTrialsProjection(t *testing.T) {
	ts, _ := trialsServer(t)

	a := NewTrials(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "migraine", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2 (study without nctId dropped)", len(recs))
	}
	first := recs[0]
	if first.Key != "NCT01234567" || first.Title != "Aspirin for Migraine Prevention" {
		t.Errorf("first record = %+v", first)
	}
	if first.Status != "RECRUITING" || first.Phase != "PHASE3" || first.Enrollment != 240 {
		t.Errorf("trial fields = %q %q %d", first.Status, first.Phase, first.Enrollment)
	}
	if first.URL != "https://clinicaltrials.gov/study/NCT01234567" {
		t.Errorf("URL = %q", first.URL)
	}
}

func TestTrialsClientSideStatusFilter(t *testing.T) {
	ts, _ := trialsServer(t)

	a := NewTrials(testCfg(ts.URL), testCache(), quietLogger())
	a.StatusFilter = "recruiting" // case-insensitive

	recs, err := a.Search(context.Background(), "migraine", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(recs) != 1 || recs[0].Key != "NCT01234567" {
		t.Errorf("recs = %v, want only the recruiting study", recs)
	}
}

func TestTrialsClientSidePhaseFilter(t *testing.T) {
	ts, _ := trialsServer(t)

	a := NewTrials(testCfg(ts.URL), testCache(), quietLogger())
	a.PhaseFilter = "PHASE2"

	recs, err := a.Search(context.Background(), "migraine", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(recs) != 1 || recs[0].Key != "NCT07654321" {
		t.Errorf("recs = %v, want only the phase 2 study", recs)
	}
}
