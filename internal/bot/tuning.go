package bot

import "time"

// Tuning centralizes every decision threshold so tuning is a config change,
// not a code change. The zero value is not usable; start from DefaultTuning.
type Tuning struct {
	// DecisionBudget is the hard wall-clock budget for one decision. Overruns
	// truncate the pipeline and return the best candidate found so far.
	DecisionBudget time.Duration `json:"decision_budget_ms"`

	// ForcedThresholds maps forced-line check names to their acceptance
	// thresholds. A check fires only when its hardcoded confidence meets or
	// exceeds its threshold; raising a threshold above the confidence disables
	// the check.
	ForcedThresholds map[string]float64 `json:"forced_thresholds"`

	// EndgameMaxRoster is the per-side usable-unit bound under which the
	// endgame solver activates.
	EndgameMaxRoster int `json:"endgame_max_roster"`

	// ClarityGap is the top-two score gap above which the evaluator's own
	// ranking is considered unambiguous and the reranker is skipped.
	ClarityGap float64 `json:"clarity_gap"`

	// RerankSafetyMargin is the minimum budget remainder required before the
	// advisory round trip is attempted.
	RerankSafetyMargin time.Duration `json:"rerank_safety_margin_ms"`

	// RerankTopK bounds how many scored candidates are offered to the advisor.
	RerankTopK int `json:"rerank_top_k"`
}

// DefaultTuning matches a typical ladder turn timer with comfortable headroom.
var DefaultTuning = Tuning{
	DecisionBudget: 8 * time.Second,
	ForcedThresholds: map[string]float64{
		ForcedGuaranteedKO:    0.90,
		ForcedResistantEscape: 0.80,
		ForcedBoostReset:      0.75,
		ForcedResidualWin:     0.70,
	},
	EndgameMaxRoster:   3,
	ClarityGap:         25.0,
	RerankSafetyMargin: 2 * time.Second,
	RerankTopK:         4,
}

// Threshold returns the acceptance threshold for a forced-line check,
// defaulting to impossible when the check is not configured.
func (t Tuning) Threshold(check string) float64 {
	if v, ok := t.ForcedThresholds[check]; ok {
		return v
	}
	return 1.1 // unconfigured checks never fire
}
