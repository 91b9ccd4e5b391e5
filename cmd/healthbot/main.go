// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the healthbot CLI: the aggregation
// backend of a consumer health chatbot. It queries public medical
// reference APIs, merges what they return, and labels the merged record
// with a confidence level for the response layer to phrase.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the healthbot CLI.
var rootCmd = &cobra.Command{
	Use:   "healthbot",
	Short: "Multi-source medical reference aggregation",
	Long: `healthbot is the aggregation backend for a consumer health chatbot.
It extracts medical terms from free text, fans them out concurrently to
public reference APIs (RxNorm, FHIR terminology, ClinicalTrials.gov,
MedlinePlus, openFDA, MyHealthfinder), and assembles a deduplicated,
confidence-labeled analysis record.

It performs no diagnosis; the analysis is reference material for a
response layer to phrase.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./healthbot.yaml or ~/.config/healthbot/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("healthbot")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "healthbot"))
		}
	}

	viper.SetEnvPrefix("HEALTHBOT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
