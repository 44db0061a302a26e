package bot

import (
	"time"

	"github.com/google/uuid"

	botinternal "battlebrain/internal/bot/internal"
	"battlebrain/internal/domain"
)

// Stage names the pipeline stage that produced the final action.
const (
	StageForced     = "forced"
	StageEndgame    = "endgame"
	StageEvaluating = "evaluating"
	StageReranking  = "reranking"
)

// Trace is the per-turn decision record: which stage decided, every scored
// candidate with its contribution trail, rerank disposition, and timing. It is
// write-once, produced by the engine and handed to whoever logs or stores it.
type Trace struct {
	DecisionID string `json:"decision_id"`
	BattleID   string `json:"battle_id,omitempty"`
	Turn       int    `json:"turn"`
	Digest     string `json:"digest"`

	Stage  string        `json:"stage"`
	Chosen domain.Action `json:"chosen"`

	ForcedLine       string  `json:"forced_line,omitempty"`
	ForcedConfidence float64 `json:"forced_confidence,omitempty"`

	Verdict *botinternal.Verdict `json:"verdict,omitempty"`

	Candidates []botinternal.ScoredAction `json:"candidates,omitempty"`

	RerankApplied    bool   `json:"rerank_applied,omitempty"`
	RerankSkipReason string `json:"rerank_skip_reason,omitempty"`
	RerankRationale  string `json:"rerank_rationale,omitempty"`

	Notes []string `json:"notes,omitempty"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

func newTrace(snap *domain.Snapshot) *Trace {
	return &Trace{
		DecisionID: uuid.NewString(),
		BattleID:   snap.BattleID,
		Turn:       snap.Turn,
		Digest:     snap.Digest(),
	}
}
