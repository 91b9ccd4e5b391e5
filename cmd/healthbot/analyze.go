// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/aggregate"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/history"
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze a health question against public medical reference APIs",
	Long: `Analyze extracts medical terms from the given text, queries every
configured upstream for each term concurrently, and prints the merged
analysis record with its confidence label.

Supplying --age and --sex adds a personalized-guidance lookup; the other
profile flags refine it. With --session the query and its analysis are
recorded in the local history database.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("query", "", "health question (alternative to positional text)")
	analyzeCmd.Flags().Bool("json", false, "output the analysis as JSON")
	analyzeCmd.Flags().String("out", "", "save the analysis to a YAML report file")
	analyzeCmd.Flags().String("session", "", "record this query and analysis under a session id")
	analyzeCmd.Flags().Bool("skip-cache", false, "bypass cached upstream responses")
	analyzeCmd.Flags().String("vocabulary", "", "extraction vocabulary YAML (default: built-in)")

	analyzeCmd.Flags().Int("age", 0, "age in years for personalized guidance")
	analyzeCmd.Flags().String("sex", "", "sex (male or female) for personalized guidance")
	analyzeCmd.Flags().Bool("pregnant", false, "pregnancy status for personalized guidance")
	analyzeCmd.Flags().Bool("tobacco", false, "tobacco use for personalized guidance")
	analyzeCmd.Flags().String("lang", "", "guidance language (en or es)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("query")
	if text == "" && len(args) > 0 {
		text = strings.Join(args, " ")
	}
	if text == "" {
		return fmt.Errorf("no input: provide the question as an argument or via --query")
	}

	log := newLogger(cmd)
	agg, err := buildAggregator(cmd, log)
	if err != nil {
		return err
	}

	skipCache, _ := cmd.Flags().GetBool("skip-cache")
	opts := aggregate.Options{
		SkipCache: skipCache,
		Profile:   profileFromFlags(cmd),
	}

	result, err := agg.Analyze(context.Background(), text, opts)
	if err != nil {
		return err
	}

	if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
		if err := recordAnalysis(cmd, sessionID, text, result); err != nil {
			return err
		}
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := aggregate.WriteReport(out, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved report to %s\n", out)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return aggregate.FormatJSON(result, os.Stdout)
	}
	aggregate.FormatTable(result, os.Stdout)
	return nil
}

// profileFromFlags builds the optional health profile. Boolean flags only
// count when the user set them, so an untouched flag stays "not supplied"
// rather than "no".
func profileFromFlags(cmd *cobra.Command) types.HealthProfile {
	var p types.HealthProfile
	p.Age, _ = cmd.Flags().GetInt("age")
	p.Sex, _ = cmd.Flags().GetString("sex")
	p.Language, _ = cmd.Flags().GetString("lang")
	if cmd.Flags().Changed("pregnant") {
		v, _ := cmd.Flags().GetBool("pregnant")
		p.Pregnant = &v
	}
	if cmd.Flags().Changed("tobacco") {
		v, _ := cmd.Flags().GetBool("tobacco")
		p.TobaccoUse = &v
	}
	return p
}

func recordAnalysis(cmd *cobra.Command, sessionID, text string, result *types.AnalysisResult) error {
	cfg := loadConfig()
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.AppendMessage(ctx, sessionID, "user", text); err != nil {
		return err
	}
	return store.SaveAnalysis(ctx, sessionID, result)
}
