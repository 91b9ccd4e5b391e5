// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// categoryHeadings maps categories to their display names in table order.
var categoryHeadings = []struct {
	cat   types.Category
	title string
}{
	{types.CategoryMedications, "Medications"},
	{types.CategoryConditions, "Conditions"},
	{types.CategoryTrials, "Clinical Trials"},
	{types.CategoryHealthTopics, "Health Topics"},
	{types.CategorySafety, "Safety Information"},
	{types.CategoryGuidance, "Preventive Guidance"},
}

// FormatTable writes a human-readable summary of an analysis to w.
func FormatTable(result *types.AnalysisResult, w io.Writer) {
	fmt.Fprintf(w, "Query: %s\n", result.Query)
	if len(result.Terms) > 0 {
		fmt.Fprintf(w, "Terms: %s\n", strings.Join(result.Terms, ", "))
	}
	fmt.Fprintf(w, "Confidence: %s (%d/%d calls succeeded", result.Confidence,
		result.SuccessfulSearches, result.SearchAttempts)
	if len(result.Sources) > 0 {
		fmt.Fprintf(w, ", sources: %s", strings.Join(result.Sources, ", "))
	}
	fmt.Fprintln(w, ")")

	if result.TotalRecords() == 0 {
		fmt.Fprintln(w, "\nNo reference data found.")
		return
	}

	for _, h := range categoryHeadings {
		recs := result.CategoryRecords(h.cat)
		if len(recs) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n%s\n", h.title, len(recs), strings.Repeat("-", len(h.title)+4))
		for _, rec := range recs {
			fmt.Fprintf(w, "  %s%s\n", rec.Title, recordDetail(rec))
			if rec.Description != "" {
				fmt.Fprintf(w, "      %s\n", clip(rec.Description, 160))
			}
		}
	}
}

// recordDetail renders the category-specific suffix after a title.
func recordDetail(rec types.UpstreamRecord) string {
	var parts []string
	if rec.TermType != "" {
		parts = append(parts, rec.TermType)
	}
	if rec.Code != "" {
		parts = append(parts, rec.Code)
	}
	if rec.Status != "" {
		parts = append(parts, rec.Status)
	}
	if rec.Phase != "" {
		parts = append(parts, rec.Phase)
	}
	if rec.Frequency != "" {
		parts = append(parts, rec.Frequency)
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// FormatJSON writes the analysis as indented JSON to w.
func FormatJSON(result *types.AnalysisResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
