// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/triage"
)

var triageCmd = &cobra.Command{
	Use:   "triage [text]",
	Short: "Classify the urgency of a described symptom",
	Long: `Triage scans the text against keyword tables and reports a coarse
urgency level: emergency, urgent, routine, or self_care. It is a
screening aid, not a diagnosis.`,
	RunE: runTriage,
}

func init() {
	triageCmd.Flags().Bool("json", false, "output the assessment as JSON")
	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		return fmt.Errorf("no input: describe the symptom as an argument")
	}

	assessment := triage.Classify(text)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(assessment)
	}

	fmt.Printf("Urgency: %s\n", assessment.Level)
	if len(assessment.Matched) > 0 {
		fmt.Printf("Matched: %s\n", strings.Join(assessment.Matched, ", "))
	}
	fmt.Println(assessment.Advice)
	return nil
}
