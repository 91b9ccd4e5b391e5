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

const openFDAEventSample = `{
  "results": [
    {"term": "NAUSEA", "count": 4521},
    {"term": "DIZZINESS", "count": 312},
    {"term": "RASH", "count": 17},
    {"term": "", "count": 9}
  ]
}`

const openFDALabelSample = `{
  "results": [
    {
      "warnings": ["Do not exceed the recommended dose.", "Ask a doctor before use if you have liver disease."],
      "contraindications": ["Known hypersensitivity to the active ingredient."],
      "dosage_and_administration": ["Adults: one tablet every 4 to 6 hours."]
    }
  ]
}`

// openFDAServer routes the two legs to independent handlers.
func openFDAServer(events, labels http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/drug/event.json", events)
	mux.HandleFunc("/drug/label.json", labels)
	return httptest.NewServer(mux)
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

func serveStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

func TestOpenFDAEventBuckets(t *testing.T) {
	ts := openFDAServer(serveJSON(openFDAEventSample), serveStatus(http.StatusNotFound))
	defer ts.Close()

	a := NewOpenFDA(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "aspirin", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// The blank-term row is dropped.
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want 3", len(recs))
	}
	want := map[string]string{
		"NAUSEA":    "Common",
		"DIZZINESS": "Occasional",
		"RASH":      "Rare",
	}
	for _, rec := range recs {
		if rec.Frequency != want[rec.Title] {
			t.Errorf("%s Frequency = %q, want %q", rec.Title, rec.Frequency, want[rec.Title])
		}
		if !strings.HasPrefix(rec.Key, "event:") {
			t.Errorf("Key = %q, want event: prefix", rec.Key)
		}
	}
	if recs[0].Count != 4521 {
		t.Errorf("Count = %d, want 4521", recs[0].Count)
	}
}

func TestOpenFDALabelSections(t *testing.T) {
	ts := openFDAServer(serveStatus(http.StatusNotFound), serveJSON(openFDALabelSample))
	defer ts.Close()

	a := NewOpenFDA(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "aspirin", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want warnings, contraindications, dosage", len(recs))
	}
	byKey := map[string]int{}
	for i, rec := range recs {
		byKey[rec.Key] = i
	}
	wIdx, ok := byKey["label:warnings:aspirin"]
	if !ok {
		t.Fatalf("missing warnings record, keys = %v", byKey)
	}
	w := recs[wIdx]
	if w.Title != "Warnings (aspirin)" {
		t.Errorf("Title = %q", w.Title)
	}
	if !strings.Contains(w.Description, "liver disease") {
		t.Errorf("Description should join the section paragraphs: %q", w.Description)
	}
	if w.Warnings != w.Description {
		t.Error("warnings record should carry the text in Warnings too")
	}
	dIdx := byKey["label:dosage:aspirin"]
	if recs[dIdx].Dosage == "" {
		t.Error("dosage record should carry the text in Dosage")
	}
}

func TestOpenFDALabelTruncated(t *testing.T) {
	long := strings.Repeat("caution ", 200)
	payload := `{"results":[{"warnings":["` + long + `"]}]}`
	ts := openFDAServer(serveStatus(http.StatusNotFound), serveJSON(payload))
	defer ts.Close()

	a := NewOpenFDA(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "aspirin", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d", len(recs))
	}
	if len(recs[0].Description) > openFDALabelChars+3 {
		t.Errorf("len(Description) = %d, want <= %d plus ellipsis", len(recs[0].Description), openFDALabelChars)
	}
	if !strings.HasSuffix(recs[0].Description, "...") {
		t.Error("truncated section should end with ellipsis")
	}
}

func TestOpenFDANotFoundIsNoData(t *testing.T) {
	ts := openFDAServer(serveStatus(http.StatusNotFound), serveStatus(http.StatusNotFound))
	defer ts.Close()

	a := NewOpenFDA(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "obscuredrug", SearchOptions{})
	if err != nil {
		t.Errorf("404 on both legs is no data, not an outage: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("recs = %v, want empty", recs)
	}
}

func TestOpenFDABothLegsFail(t *testing.T) {
	ts := openFDAServer(serveStatus(http.StatusBadRequest), serveStatus(http.StatusBadRequest))
	defer ts.Close()

	a := NewOpenFDA(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "aspirin", SearchOptions{})
	if err == nil {
		t.Error("both legs failing should surface an error")
	}
	if recs == nil {
		t.Error("recs should be the non-nil fallback slice")
	}
}

func TestOpenFDAOneLegFailIsPartial(t *testing.T) {
	ts := openFDAServer(serveJSON(openFDAEventSample), serveStatus(http.StatusBadRequest))
	defer ts.Close()

	a := NewOpenFDA(testCfg(ts.URL), testCache(), quietLogger())
	recs, err := a.Search(context.Background(), "aspirin", SearchOptions{})
	if err != nil {
		t.Errorf("one healthy leg should keep the call successful: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("len(recs) = %d, want the event records", len(recs))
	}
}

func TestOpenFDAEventRequestShape(t *testing.T) {
	var gotQuery string
	events := func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"results":[]}`)
	}
	ts := openFDAServer(events, serveStatus(http.StatusNotFound))
	defer ts.Close()

	cfg := testCfg(ts.URL)
	cfg.APIKey = "demo-key"
	a := NewOpenFDA(cfg, testCache(), quietLogger())
	if _, err := a.Search(context.Background(), "aspirin", SearchOptions{}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	for _, want := range []string{
		"patient.drug.medicinalproduct",
		"ASPIRIN",
		"count=patient.reaction.reactionmeddrapt.exact",
		"api_key=demo-key",
	} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}
