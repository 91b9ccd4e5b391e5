package types

import "time"

// UpstreamConfig holds the per-adapter settings the engine consumes
// read-only: endpoint, quota, timeout, and cache freshness window.
type UpstreamConfig struct {
	// BaseURL is the upstream endpoint. Adapters append service-specific
	// paths and query parameters.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// RequestsPerMinute is the published quota for this upstream. The
	// rate limiter spaces calls at time.Minute / RequestsPerMinute.
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`

	// Timeout bounds each HTTP call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// CacheTTL is the freshness window for cached responses: minutes for
	// volatile data (trial recruitment status), up to 24h for stable
	// reference data (terminology).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// UserAgent is sent with every request (e.g. "healthbot/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// APIKey is optional; of the six core upstreams only openFDA accepts
	// one (for a higher quota).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// UpstreamsConfig groups the six core adapters' settings.
type UpstreamsConfig struct {
	RxNorm       UpstreamConfig `json:"rxnorm" yaml:"rxnorm"`
	FHIR         UpstreamConfig `json:"fhir" yaml:"fhir"`
	Trials       UpstreamConfig `json:"trials" yaml:"trials"`
	MedlinePlus  UpstreamConfig `json:"medlineplus" yaml:"medlineplus"`
	OpenFDA      UpstreamConfig `json:"openfda" yaml:"openfda"`
	HealthFinder UpstreamConfig `json:"healthfinder" yaml:"healthfinder"`
}

// CacheConfig holds settings for the shared in-memory cache.
type CacheConfig struct {
	// MaxEntries bounds the cache size; least-recently-accessed entries
	// are evicted above it (default 500).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`

	// SweepInterval controls the background expiry sweep (default 10m).
	SweepInterval time.Duration `json:"sweep_interval" yaml:"sweep_interval"`
}

// AggregatorConfig holds settings for the fan-out orchestrator.
type AggregatorConfig struct {
	// MaxTerms bounds the extracted term list (default 12).
	MaxTerms int `json:"max_terms" yaml:"max_terms"`

	// MaxCalls caps terms x adapters per query (default 100). Terms are
	// truncated until the product fits.
	MaxCalls int `json:"max_calls" yaml:"max_calls"`
}

// HistoryConfig holds settings for the session history store.
type HistoryConfig struct {
	// DataDir is the directory holding the SQLite database (default
	// "data/").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxMessages bounds how many prior messages a session recall
	// returns (default 20).
	MaxMessages int `json:"max_messages" yaml:"max_messages"`
}

// Config groups all engine configuration.
type Config struct {
	Upstreams  UpstreamsConfig  `json:"upstreams" yaml:"upstreams"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Aggregator AggregatorConfig `json:"aggregator" yaml:"aggregator"`
	History    HistoryConfig    `json:"history" yaml:"history"`
}

// DefaultUserAgent identifies the engine to upstream services.
const DefaultUserAgent = "healthbot/0.1 (+https://github.com/beanslover03/healthcare-chatbot-sub000)"

// DefaultConfig returns the engine defaults: published endpoints, the
// observed per-upstream quotas (5-20 requests/minute), bounded timeouts,
// and TTLs matched to each source's volatility.
func DefaultConfig() Config {
	return Config{
		Upstreams: UpstreamsConfig{
			RxNorm: UpstreamConfig{
				BaseURL:           "https://rxnav.nlm.nih.gov/REST",
				RequestsPerMinute: 20,
				Timeout:           5 * time.Second,
				CacheTTL:          24 * time.Hour,
				UserAgent:         DefaultUserAgent,
			},
			FHIR: UpstreamConfig{
				BaseURL:           "https://hapi.fhir.org/baseR4",
				RequestsPerMinute: 10,
				Timeout:           10 * time.Second,
				CacheTTL:          12 * time.Hour,
				UserAgent:         DefaultUserAgent,
			},
			Trials: UpstreamConfig{
				BaseURL:           "https://clinicaltrials.gov/api/v2",
				RequestsPerMinute: 10,
				Timeout:           10 * time.Second,
				CacheTTL:          30 * time.Minute,
				UserAgent:         DefaultUserAgent,
			},
			MedlinePlus: UpstreamConfig{
				BaseURL:           "https://wsearch.nlm.nih.gov/ws/query",
				RequestsPerMinute: 8,
				Timeout:           7 * time.Second,
				CacheTTL:          6 * time.Hour,
				UserAgent:         DefaultUserAgent,
			},
			OpenFDA: UpstreamConfig{
				BaseURL:           "https://api.fda.gov",
				RequestsPerMinute: 15,
				Timeout:           8 * time.Second,
				CacheTTL:          6 * time.Hour,
				UserAgent:         DefaultUserAgent,
			},
			HealthFinder: UpstreamConfig{
				BaseURL:           "https://odphp.health.gov/myhealthfinder/api/v4",
				RequestsPerMinute: 5,
				Timeout:           7 * time.Second,
				CacheTTL:          12 * time.Hour,
				UserAgent:         DefaultUserAgent,
			},
		},
		Cache: CacheConfig{
			MaxEntries:    500,
			SweepInterval: 10 * time.Minute,
		},
		Aggregator: AggregatorConfig{
			MaxTerms: 12,
			MaxCalls: 100,
		},
		History: HistoryConfig{
			DataDir:     "data",
			MaxMessages: 20,
		},
	}
}
