// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// ReportFile is the on-disk representation of one analysis. A saved
// report can be reloaded and re-rendered later without re-querying the
// upstreams.
type ReportFile struct {
	Analysis types.AnalysisResult `yaml:"analysis"`
	Summary  ReportSummary        `yaml:"summary"`
}

// ReportSummary stores aggregate statistics alongside the full record.
type ReportSummary struct {
	TotalRecords        int       `yaml:"total_records"`
	PopulatedCategories int       `yaml:"populated_categories"`
	SavedAt             time.Time `yaml:"saved_at"`
}

// WriteReport saves an analysis to a YAML file.
func WriteReport(path string, result *types.AnalysisResult) error {
	rf := ReportFile{
		Analysis: *result,
		Summary: ReportSummary{
			TotalRecords:        result.TotalRecords(),
			PopulatedCategories: result.PopulatedCategories(),
			SavedAt:             time.Now(),
		},
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously saved report from disk.
func ReadReport(path string) (*ReportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var rf ReportFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &rf, nil
}
