// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/aggregate"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/cache"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/terms"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/upstream"
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

// newLogger builds the process logger honoring the --verbose flag.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// loadConfig starts from the engine defaults and applies config-file and
// environment overrides plus any API keys from .secrets/.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	upstreams := map[string]*types.UpstreamConfig{
		"rxnorm":       &cfg.Upstreams.RxNorm,
		"fhir":         &cfg.Upstreams.FHIR,
		"trials":       &cfg.Upstreams.Trials,
		"medlineplus":  &cfg.Upstreams.MedlinePlus,
		"openfda":      &cfg.Upstreams.OpenFDA,
		"healthfinder": &cfg.Upstreams.HealthFinder,
	}
	for name, uc := range upstreams {
		prefix := "upstreams." + name + "."
		if viper.IsSet(prefix + "base_url") {
			uc.BaseURL = viper.GetString(prefix + "base_url")
		}
		if viper.IsSet(prefix + "requests_per_minute") {
			uc.RequestsPerMinute = viper.GetInt(prefix + "requests_per_minute")
		}
		if viper.IsSet(prefix + "timeout") {
			uc.Timeout = viper.GetDuration(prefix + "timeout")
		}
		if viper.IsSet(prefix + "cache_ttl") {
			uc.CacheTTL = viper.GetDuration(prefix + "cache_ttl")
		}
		if viper.IsSet(prefix + "api_key") {
			uc.APIKey = viper.GetString(prefix + "api_key")
		}
	}

	if cfg.Upstreams.OpenFDA.APIKey == "" {
		cfg.Upstreams.OpenFDA.APIKey = loadedSecrets["openfda-api-key"]
	}

	if viper.IsSet("cache.max_entries") {
		cfg.Cache.MaxEntries = viper.GetInt("cache.max_entries")
	}
	if viper.IsSet("cache.sweep_interval") {
		cfg.Cache.SweepInterval = viper.GetDuration("cache.sweep_interval")
	}
	if viper.IsSet("aggregator.max_terms") {
		cfg.Aggregator.MaxTerms = viper.GetInt("aggregator.max_terms")
	}
	if viper.IsSet("aggregator.max_calls") {
		cfg.Aggregator.MaxCalls = viper.GetInt("aggregator.max_calls")
	}
	if viper.IsSet("history.data_dir") {
		cfg.History.DataDir = viper.GetString("history.data_dir")
	}
	if viper.IsSet("history.max_messages") {
		cfg.History.MaxMessages = viper.GetInt("history.max_messages")
	}

	return cfg
}

// buildAggregator wires the full pipeline for one CLI invocation: shared
// cache, adapter set, term extractor, orchestrator.
func buildAggregator(cmd *cobra.Command, log *logrus.Logger) (*aggregate.Aggregator, error) {
	cfg := loadConfig()

	store := cache.New(cfg.Cache)
	set := upstream.NewSet(cfg.Upstreams, store, log)

	vocabPath, _ := cmd.Flags().GetString("vocabulary")
	vocab, err := terms.LoadVocabulary(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}
	extractor := terms.NewExtractor(vocab, cfg.Aggregator.MaxTerms)

	return aggregate.New(cfg.Aggregator, set, extractor, log), nil
}
