// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// Scoring weights. The exact numbers are tunables; the contract is that
// strictly more evidence never lowers the label.
const (
	successWeight  = 40 // x success rate
	sourcePoints   = 5  // per distinct contributing source
	sourceCap      = 30
	categoryPoints = 6 // per populated category
	recordPoints   = 1 // per record
	richnessCap    = 50
	termBonus      = 10
	termBonusFloor = 3

	veryHighThreshold = 85
	highThreshold     = 65
	mediumThreshold   = 45
)

// Score maps an assembled analysis to a coarse confidence label. It is a
// pure function of the result's counters and category contents, so
// recomputing it over the same result always yields the same label.
func Score(result *types.AnalysisResult) types.Confidence {
	points := scorePoints(result)
	switch {
	case points >= veryHighThreshold:
		return types.ConfidenceVeryHigh
	case points >= highThreshold:
		return types.ConfidenceHigh
	case points >= mediumThreshold:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

func scorePoints(result *types.AnalysisResult) int {
	if result.SearchAttempts == 0 || result.TotalRecords() == 0 {
		return 0
	}

	successRate := float64(result.SuccessfulSearches) / float64(result.SearchAttempts)
	points := int(successRate * successWeight)

	diversity := len(result.Sources) * sourcePoints
	if diversity > sourceCap {
		diversity = sourceCap
	}
	points += diversity

	richness := result.PopulatedCategories()*categoryPoints + result.TotalRecords()*recordPoints
	if richness > richnessCap {
		richness = richnessCap
	}
	points += richness

	if len(result.Terms) >= termBonusFloor {
		points += termBonus
	}

	if points > 100 {
		points = 100
	}
	return points
}
