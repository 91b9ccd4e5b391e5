// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Confidence is the coarse label describing how much corroborating
// evidence the aggregation gathered. It is not a probability.
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very_high"
)

// Rank orders confidence labels for comparison (low < medium < high <
// very_high). Unknown labels rank below low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	case ConfidenceVeryHigh:
		return 4
	}
	return 0
}

// AnalysisResult is the aggregator's output for one user query. It is
// constructed fresh per request and never mutated after return.
type AnalysisResult struct {
	// Query is the original user text.
	Query string `json:"query" yaml:"query"`

	// Terms lists the search terms extracted from Query.
	Terms []string `json:"terms" yaml:"terms"`

	// Per-category deduplicated records.
	Medications  []UpstreamRecord `json:"medications" yaml:"medications"`
	Conditions   []UpstreamRecord `json:"conditions" yaml:"conditions"`
	Trials       []UpstreamRecord `json:"trials" yaml:"trials"`
	HealthTopics []UpstreamRecord `json:"health_topics" yaml:"health_topics"`
	Safety       []UpstreamRecord `json:"safety" yaml:"safety"`
	Guidance     []UpstreamRecord `json:"guidance" yaml:"guidance"`

	// Sources lists the upstream adapters that contributed at least one
	// record, in first-contribution order.
	Sources []string `json:"sources" yaml:"sources"`

	// SearchAttempts counts every upstream call issued for this query;
	// SuccessfulSearches counts the ones that settled without a transient
	// failure. SuccessfulSearches <= SearchAttempts always.
	SearchAttempts     int `json:"search_attempts" yaml:"search_attempts"`
	SuccessfulSearches int `json:"successful_searches" yaml:"successful_searches"`

	// Confidence is recomputable from the other fields.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// Timestamp records when the analysis completed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// CategoryRecords returns the record list for cat. Unknown categories
// return nil.
func (a *AnalysisResult) CategoryRecords(cat Category) []UpstreamRecord {
	switch cat {
	case CategoryMedications:
		return a.Medications
	case CategoryConditions:
		return a.Conditions
	case CategoryTrials:
		return a.Trials
	case CategoryHealthTopics:
		return a.HealthTopics
	case CategorySafety:
		return a.Safety
	case CategoryGuidance:
		return a.Guidance
	}
	return nil
}

// TotalRecords returns the record count across all categories.
func (a *AnalysisResult) TotalRecords() int {
	n := 0
	for _, cat := range Categories {
		n += len(a.CategoryRecords(cat))
	}
	return n
}

// PopulatedCategories returns how many categories hold at least one record.
func (a *AnalysisResult) PopulatedCategories() int {
	n := 0
	for _, cat := range Categories {
		if len(a.CategoryRecords(cat)) > 0 {
			n++
		}
	}
	return n
}
