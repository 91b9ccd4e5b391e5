// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the healthbot
// aggregation engine: normalized upstream records, the per-query analysis
// result, user health profiles, and configuration.
package types

// Category identifies which AnalysisResult bucket an adapter's records
// belong to. Each adapter produces records for exactly one category,
// except the guidance adapter whose profile mode also feeds Guidance.
type Category string

const (
	CategoryMedications  Category = "medications"
	CategoryConditions   Category = "conditions"
	CategoryTrials       Category = "trials"
	CategoryHealthTopics Category = "health_topics"
	CategorySafety       Category = "safety"
	CategoryGuidance     Category = "guidance"
)

// Categories lists all record categories in display order.
var Categories = []Category{
	CategoryMedications,
	CategoryConditions,
	CategoryTrials,
	CategoryHealthTopics,
	CategorySafety,
	CategoryGuidance,
}

// UpstreamRecord is the normalized shape every adapter returns for one
// search term. Key uniquely identifies the record within its source (an
// RxCUI, an NCT number, a coded concept, or the title when the source has
// nothing stronger); Title is the human-readable label; Source names the
// adapter that produced it. The remaining fields are category-specific
// and zero-valued outside their family.
type UpstreamRecord struct {
	Key      string   `json:"key" yaml:"key"`
	Title    string   `json:"title" yaml:"title"`
	Source   string   `json:"source" yaml:"source"`
	Category Category `json:"category" yaml:"category"`

	// Shared optional fields.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`

	// Medication fields (RxNorm, FHIR Medication).
	TermType string `json:"term_type,omitempty" yaml:"term_type,omitempty"`
	Dosage   string `json:"dosage,omitempty" yaml:"dosage,omitempty"`
	Warnings string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Condition fields (FHIR Condition).
	Code           string `json:"code,omitempty" yaml:"code,omitempty"`
	CodeSystem     string `json:"code_system,omitempty" yaml:"code_system,omitempty"`
	ClinicalStatus string `json:"clinical_status,omitempty" yaml:"clinical_status,omitempty"`

	// Trial fields (ClinicalTrials.gov).
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
	Phase      string `json:"phase,omitempty" yaml:"phase,omitempty"`
	Enrollment int    `json:"enrollment,omitempty" yaml:"enrollment,omitempty"`

	// Adverse-event fields (openFDA event counts).
	Frequency string `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Count     int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// DedupKey returns the identity used for within-category deduplication:
// the source key when present, otherwise the title.
func (r UpstreamRecord) DedupKey() string {
	if r.Key != "" {
		return string(r.Category) + ":" + r.Key
	}
	return string(r.Category) + ":title:" + r.Title
}
