package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"battlebrain/internal/bot/brain"
	botinternal "battlebrain/internal/bot/internal"
	"battlebrain/internal/domain"
)

// ErrNoLegalActions is returned when the snapshot offers nothing to choose
// from; it indicates a broken snapshot, not a lost game.
var ErrNoLegalActions = errors.New("no legal actions in snapshot")

// Engine runs the per-turn decision pipeline: forced-line check, endgame
// solve, rule evaluation, optional rerank, all under one wall-clock budget.
// An Engine holds no per-battle state and is safe to share across agents.
type Engine struct {
	cfg     Tuning
	weights botinternal.Weights
	logger  *slog.Logger
	advisor Advisor
	tracer  trace.Tracer
}

// NewEngine wires an engine with the given tuning and advisor. A nil advisor
// disables reranking entirely.
func NewEngine(cfg Tuning, logger *slog.Logger, advisor Advisor) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		weights: botinternal.DefaultWeights,
		logger:  logger,
		advisor: advisor,
		tracer:  otel.Tracer("battlebrain/bot"),
	}
}

// Decide picks one action for the snapshot and emits the decision trace.
// Stages run linearly and the first definitive stage wins; budget overruns
// truncate the pipeline rather than failing the turn.
func (e *Engine) Decide(ctx context.Context, snap *domain.Snapshot, beliefs *brain.Tracker) (domain.Action, *Trace, error) {
	start := time.Now()
	deadline := start.Add(e.cfg.DecisionBudget)

	ctx, span := e.tracer.Start(ctx, "decide", trace.WithAttributes(
		attribute.String("battle.id", snap.BattleID),
		attribute.Int("battle.turn", snap.Turn),
	))
	defer span.End()

	tr := newTrace(snap)
	defer func() {
		if beliefs != nil {
			tr.Notes = append(tr.Notes, beliefs.TakeNotes()...)
		}
		tr.Elapsed = time.Since(start)
		span.SetAttributes(
			attribute.String("decision.id", tr.DecisionID),
			attribute.String("decision.stage", tr.Stage),
		)
	}()

	candidates := domain.LegalActions(snap)
	if len(candidates) == 0 {
		return domain.Action{}, tr, ErrNoLegalActions
	}

	if forced, ok := e.runForced(ctx, snap, beliefs, candidates); ok {
		tr.Stage = StageForced
		tr.Chosen = forced.Action
		tr.ForcedLine = forced.Check
		tr.ForcedConfidence = forced.Confidence
		e.logDecision(tr)
		return forced.Action, tr, nil
	}

	if verdict, ok := e.runEndgame(ctx, snap, candidates); ok {
		tr.Stage = StageEndgame
		tr.Chosen = verdict.Action
		tr.Verdict = &verdict
		e.logDecision(tr)
		return verdict.Action, tr, nil
	}

	scored := e.runEvaluate(ctx, snap, beliefs, candidates)
	tr.Stage = StageEvaluating
	tr.Candidates = scored
	tr.Chosen = scored[0].Action

	if reordered, ok := e.runRerank(ctx, tr, snap, scored, deadline); ok {
		tr.Stage = StageReranking
		tr.Candidates = reordered
		tr.Chosen = reordered[0].Action
		tr.RerankApplied = true
	}

	e.logDecision(tr)
	return tr.Chosen, tr, nil
}

func (e *Engine) runForced(ctx context.Context, snap *domain.Snapshot, beliefs *brain.Tracker, candidates []domain.Action) (ForcedResult, bool) {
	_, span := e.tracer.Start(ctx, "decide.forced")
	defer span.End()
	result, ok := DetectForcedLine(snap, beliefs, candidates, e.cfg)
	if ok {
		span.SetAttributes(attribute.String("forced.check", result.Check))
	}
	return result, ok
}

func (e *Engine) runEndgame(ctx context.Context, snap *domain.Snapshot, candidates []domain.Action) (botinternal.Verdict, bool) {
	_, span := e.tracer.Start(ctx, "decide.endgame")
	defer span.End()
	verdict := botinternal.SolveEndgame(snap, candidates, e.cfg.EndgameMaxRoster)
	if verdict.Kind == botinternal.VerdictUndetermined {
		return verdict, false
	}
	if !containsAction(candidates, verdict.Action) {
		// Whatever the solver concluded, the turn can only play what the
		// snapshot allows; the evaluator ranks the legal set instead.
		e.logger.Warn("endgame verdict outside legal set",
			"battle_id", snap.BattleID,
			"turn", snap.Turn,
			"action", verdict.Action.Label(),
		)
		return verdict, false
	}
	span.SetAttributes(attribute.String("endgame.verdict", verdict.Kind.String()))
	return verdict, true
}

func containsAction(candidates []domain.Action, a domain.Action) bool {
	label := a.Label()
	for _, c := range candidates {
		if c.Label() == label {
			return true
		}
	}
	return false
}

func (e *Engine) runEvaluate(ctx context.Context, snap *domain.Snapshot, beliefs *brain.Tracker, candidates []domain.Action) []botinternal.ScoredAction {
	_, span := e.tracer.Start(ctx, "decide.evaluate")
	defer span.End()
	env := botinternal.NewEnv(snap, beliefs, e.weights)
	scored := botinternal.Evaluate(env, candidates)
	span.SetAttributes(attribute.Int("evaluate.candidates", len(scored)))
	return scored
}

// runRerank gates and executes the advisory call. Every skip and failure path
// leaves a reason on the trace; the evaluator's ranking always stands as the
// fallback.
func (e *Engine) runRerank(ctx context.Context, tr *Trace, snap *domain.Snapshot, scored []botinternal.ScoredAction, deadline time.Time) ([]botinternal.ScoredAction, bool) {
	if e.advisor == nil {
		tr.RerankSkipReason = "no_advisor"
		return nil, false
	}
	if len(scored) < 2 {
		tr.RerankSkipReason = "single_candidate"
		return nil, false
	}
	if gap := scored[0].Score - scored[1].Score; gap >= e.cfg.ClarityGap {
		tr.RerankSkipReason = "clear_margin"
		return nil, false
	}
	if time.Until(deadline) <= e.cfg.RerankSafetyMargin {
		tr.RerankSkipReason = "insufficient_time"
		return nil, false
	}

	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	ctx, span := e.tracer.Start(ctx, "decide.rerank")
	defer span.End()

	k := e.cfg.RerankTopK
	if k > len(scored) {
		k = len(scored)
	}
	resp, err := e.advisor.Rerank(ctx, AdvisorRequest{
		BattleID:   snap.BattleID,
		Turn:       snap.Turn,
		Digest:     tr.Digest,
		Snapshot:   snap,
		Candidates: scored[:k],
	})
	if err != nil {
		tr.RerankSkipReason = "advisor_error"
		e.logger.Debug("rerank skipped", "reason", err)
		return nil, false
	}
	if resp == nil {
		tr.RerankSkipReason = "advisor_deferred"
		return nil, false
	}

	reordered, applied := applyRerank(scored, k, resp)
	if !applied {
		tr.RerankSkipReason = "invalid_advice"
		return nil, false
	}
	tr.RerankRationale = resp.Rationale
	return reordered, true
}

func (e *Engine) logDecision(tr *Trace) {
	e.logger.Debug("decision",
		"decision_id", tr.DecisionID,
		"battle_id", tr.BattleID,
		"turn", tr.Turn,
		"stage", tr.Stage,
		"chosen", tr.Chosen.Label(),
	)
}
