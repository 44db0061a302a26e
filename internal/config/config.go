package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Config is the full engine configuration: the decision thresholds of the
// pipeline plus the harness wiring (population source, advisor endpoint,
// telemetry). Values resolve in three layers: compiled defaults, then the
// optional JSON file, then environment variables.
type Config struct {
	DecisionBudgetMillis int                `json:"decision_budget_ms" env:"BATTLEBRAIN_DECISION_BUDGET_MS"`
	ForcedThresholds     map[string]float64 `json:"forced_thresholds"`
	EndgameMaxRoster     int                `json:"endgame_max_roster" env:"BATTLEBRAIN_ENDGAME_MAX_ROSTER"`
	ClarityGap           float64            `json:"clarity_gap" env:"BATTLEBRAIN_CLARITY_GAP"`
	RerankSafetyMillis   int                `json:"rerank_safety_ms" env:"BATTLEBRAIN_RERANK_SAFETY_MS"`
	RerankTopK           int                `json:"rerank_top_k" env:"BATTLEBRAIN_RERANK_TOP_K"`

	AdvisorURL           string `json:"advisor_url" env:"BATTLEBRAIN_ADVISOR_URL"`
	AdvisorTimeoutMillis int    `json:"advisor_timeout_ms" env:"BATTLEBRAIN_ADVISOR_TIMEOUT_MS"`

	// UsagePath points at a JSON reference population; UsageDB at a SQLite
	// one. UsageDB wins when both are set; with neither the built-in
	// population is used.
	UsagePath string `json:"usage_path" env:"BATTLEBRAIN_USAGE_PATH"`
	UsageDB   string `json:"usage_db" env:"BATTLEBRAIN_USAGE_DB"`

	OTELEndpoint string `json:"otel_endpoint" env:"BATTLEBRAIN_OTEL_ENDPOINT"`
	OTELInsecure bool   `json:"otel_insecure" env:"BATTLEBRAIN_OTEL_INSECURE"`

	LogLevel string `json:"log_level" env:"BATTLEBRAIN_LOG_LEVEL"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		DecisionBudgetMillis: 8000,
		ForcedThresholds: map[string]float64{
			"guaranteed_ko_first": 0.90,
			"resistant_escape":    0.80,
			"boost_reset":         0.75,
			"residual_win":        0.70,
		},
		EndgameMaxRoster:     3,
		ClarityGap:           25.0,
		RerankSafetyMillis:   2000,
		RerankTopK:           4,
		AdvisorTimeoutMillis: 1500,
		LogLevel:             "info",
	}
}

// Load resolves the configuration: defaults, then the JSON file at path (if
// non-empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	return &cfg, nil
}

var (
	global   *Config
	loadOnce sync.Once
	loadErr  error
)

// Init loads the global configuration exactly once.
func Init(path string) error {
	loadOnce.Do(func() {
		global, loadErr = Load(path)
	})
	return loadErr
}

// Get returns the global configuration, or the defaults when Init was never
// called.
func Get() *Config {
	if global == nil {
		cfg := Default()
		return &cfg
	}
	return global
}
