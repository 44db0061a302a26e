package bot

import (
	"context"
	"log/slog"
	"sync"

	"battlebrain/internal/bot/brain"
	"battlebrain/internal/domain"
	"battlebrain/internal/usage"
)

// Agent owns one battle's mutable decision state: the belief tracker and the
// trace history. Decisions within a battle are strictly sequential; the mutex
// enforces that even if a caller misbehaves. Agents share nothing, so separate
// battles parallelize freely.
type Agent struct {
	mu sync.Mutex

	BattleID string

	engine  *Engine
	beliefs *brain.Tracker
	history []*Trace
}

// NewAgent creates the per-battle decision state. The population store is
// read-only and may be shared across agents.
func NewAgent(battleID string, engine *Engine, pop usage.Store, logger *slog.Logger) *Agent {
	return &Agent{
		BattleID: battleID,
		engine:   engine,
		beliefs:  brain.NewTracker(pop, logger),
	}
}

// Decide runs one turn: fold in evidence (explicit plus whatever the snapshot
// itself reveals), then run the pipeline. The returned trace is also retained
// in the agent's history.
func (a *Agent) Decide(ctx context.Context, snap *domain.Snapshot, evidence []brain.Evidence) (domain.Action, *Trace, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, ev := range append(snapshotEvidence(snap), evidence...) {
		if err := a.beliefs.Observe(ev); err != nil {
			return domain.Action{}, nil, err
		}
	}

	action, tr, err := a.engine.Decide(ctx, snap, a.beliefs)
	if tr != nil {
		a.history = append(a.history, tr)
	}
	return action, tr, err
}

// Beliefs exposes the tracker for inspection; callers must not mutate it
// concurrently with Decide.
func (a *Agent) Beliefs() *brain.Tracker {
	return a.beliefs
}

// History returns the traces recorded so far, oldest first.
func (a *Agent) History() []*Trace {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Trace, len(a.history))
	copy(out, a.history)
	return out
}

// snapshotEvidence derives belief evidence from what the snapshot already
// shows about the foe's units: revealed moves, items, and abilities. Observing
// the same fact twice is harmless, the reweighting is idempotent.
func snapshotEvidence(snap *domain.Snapshot) []brain.Evidence {
	var out []brain.Evidence
	units := append([]*domain.Unit{snap.Foe.Active}, snap.Foe.Reserves...)
	for _, u := range units {
		if u == nil || u.Species == "" {
			continue
		}
		for _, m := range u.Moves {
			if m.Name == "" {
				continue
			}
			out = append(out, brain.Evidence{
				Kind: brain.EvidenceMoveUsed, UnitID: u.Species, Species: u.Species, Move: m.Name,
			})
		}
		if u.ItemKnown && u.Item != "" {
			out = append(out, brain.Evidence{
				Kind: brain.EvidenceItemRevealed, UnitID: u.Species, Species: u.Species, Item: u.Item,
			})
		}
		if u.AbilityKnown && u.Ability != "" {
			out = append(out, brain.Evidence{
				Kind: brain.EvidenceAbilityRevealed, UnitID: u.Species, Species: u.Species, Ability: u.Ability,
			})
		}
	}
	return out
}

// TurnOrderEvidence converts an observed turn-order outcome into a speed
// bound on the foe active's raw speed stat. Only valid for turns where both
// sides used priority-zero actions; the caller is responsible for filtering
// those out.
func TurnOrderEvidence(snap *domain.Snapshot, foeActedFirst bool) brain.Evidence {
	foe := snap.Foe.Active
	allyEffective := domain.EffectiveSpeed(snap.Ally.Active, snap.Ally.Conditions)

	// The comparison happened in effective-speed space; divide the foe's
	// confirmed modifiers back out to bound the raw stat the beliefs track.
	bound := float64(allyEffective)
	if mult := domain.BoostMultiplier(foe.Boosts.Spe); mult != 0 {
		bound /= mult
	}
	if foe.Status == domain.StatusParalysis {
		bound *= 2
	}
	if snap.Foe.Conditions.Tailwind {
		bound /= 2
	}

	kind := brain.EvidenceSpeedAtMost
	if foeActedFirst != snap.Field.TrickRoom {
		kind = brain.EvidenceSpeedAtLeast
	}
	return brain.Evidence{
		Kind:    kind,
		UnitID:  foe.Species,
		Species: foe.Species,
		Speed:   int(bound),
	}
}
