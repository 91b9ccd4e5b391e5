// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

import (
	"strings"

	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// fallbackTables holds the static per-adapter answers served when the
// network call fails, keyed by adapter name then by normalized term.
// Keeping the data in one table (instead of inline branches) lets tests
// swap or disable it independently of network mocking.
var fallbackTables = map[string]map[string][]types.UpstreamRecord{
	rxnormName: {
		"aspirin": {{
			Key: "1191", Title: "aspirin", TermType: "IN",
			Description: "Common over-the-counter pain reliever and blood thinner.",
		}},
		"ibuprofen": {{
			Key: "5640", Title: "ibuprofen", TermType: "IN",
			Description: "Nonsteroidal anti-inflammatory drug for pain and fever.",
		}},
		"acetaminophen": {{
			Key: "161", Title: "acetaminophen", TermType: "IN",
			Description: "Common over-the-counter pain and fever reducer.",
		}},
	},
	medlinePlusName: {
		"headache": {{
			Key:   "headache",
			Title: "Headache",
			Description: "Headaches are one of the most common health complaints. " +
				"Most are tension headaches and ease with rest, hydration, and over-the-counter pain relief. " +
				"See a clinician for sudden severe headache, headache with fever and stiff neck, or after a head injury.",
		}},
		"fever": {{
			Key:   "fever",
			Title: "Fever",
			Description: "A fever is a body temperature above the normal range, usually a sign the body is fighting an infection. " +
				"Rest and fluids help; seek care for very high or persistent fever.",
		}},
		"diabetes": {{
			Key:   "diabetes",
			Title: "Diabetes",
			Description: "Diabetes is a chronic condition in which blood glucose runs too high. " +
				"Management combines diet, exercise, monitoring, and medication prescribed by a clinician.",
		}},
		"flu": {{
			Key:   "flu",
			Title: "Flu (Influenza)",
			Description: "Influenza is a contagious respiratory illness. Annual vaccination is the best protection; " +
				"most people recover with rest and fluids.",
		}},
	},
	healthFinderName: {
		"checkup": {{
			Key:   "checkup",
			Title: "Get Your Well-Visit Every Year",
			Description: "A yearly well-visit helps catch health problems early. " +
				"Talk with your clinician about screenings and vaccines that fit your age and history.",
		}},
		"exercise": {{
			Key:         "exercise",
			Title:       "Stay Active",
			Description: "Adults benefit from at least 150 minutes of moderate activity a week plus muscle-strengthening twice a week.",
		}},
	},
	// The registry-style upstreams have no meaningful static answers;
	// their fallback is the empty list.
	fhirName:    {},
	trialsName:  {},
	openFDAName: {},
}

// Fallback returns the static records for (source, term), stamped with
// the source and category, or an empty list when the table has none.
func Fallback(source string, cat types.Category, term string) []types.UpstreamRecord {
	table := fallbackTables[source]
	recs := table[strings.ToLower(strings.TrimSpace(term))]
	if len(recs) == 0 {
		return []types.UpstreamRecord{}
	}
	out := make([]types.UpstreamRecord, len(recs))
	for i, r := range recs {
		r.Source = source
		r.Category = cat
		out[i] = r
	}
	return out
}
