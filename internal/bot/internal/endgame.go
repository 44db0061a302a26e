package internal

import (
	"fmt"

	"battlebrain/internal/domain"
)

// VerdictKind is the endgame solver's conclusion about the current position.
type VerdictKind int32

const (
	VerdictUndetermined VerdictKind = iota
	VerdictWin
	VerdictLoss
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictWin:
		return "win"
	case VerdictLoss:
		return "loss"
	default:
		return "undetermined"
	}
}

// Verdict is the solver's output: a definite outcome always carries the
// recommended action, undetermined carries nothing and defers to the
// evaluator.
type Verdict struct {
	Kind   VerdictKind   `json:"kind"`
	Action domain.Action `json:"action,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// SolveEndgame attempts exact resolution for small-roster positions. It only
// activates when both sides are at or under maxRoster usable units, builds
// proofs exclusively on revealed information (never beliefs), and returns
// undetermined whenever the outcome hinges on accuracy, damage rolls, or
// hidden state. Every recommended action comes from candidates, the turn's
// legal action set: a choice-locked or forced-switch turn can only ever be
// proven through what it may actually play.
func SolveEndgame(snap *domain.Snapshot, candidates []domain.Action, maxRoster int) Verdict {
	allyLeft, foeLeft := snap.Ally.UsableCount(), snap.Foe.UsableCount()
	if allyLeft == 0 || foeLeft == 0 || len(candidates) == 0 {
		return Verdict{Kind: VerdictUndetermined}
	}
	if allyLeft > maxRoster || foeLeft > maxRoster {
		return Verdict{Kind: VerdictUndetermined}
	}

	switch {
	case allyLeft == 1 && foeLeft == 1:
		return solveOneVsOne(snap, candidates)
	case allyLeft == 2 && foeLeft == 1:
		return solveMajority(snap, candidates)
	default:
		// Larger or inverted remainders carry too much branching for a
		// deterministic proof; the evaluator handles them.
		return Verdict{Kind: VerdictUndetermined}
	}
}

// solveOneVsOne resolves the last-unit-each case: if we provably act first
// with a guaranteed lethal move and the foe holds no faster lethal priority
// answer, the game is won. The mirror condition is a loss.
func solveOneVsOne(snap *domain.Snapshot, candidates []domain.Action) Verdict {
	ally, foe := snap.Ally.Active, snap.Foe.Active
	if !ally.Usable() {
		// Forced-switch turn: which escape to pick is the evaluator's call.
		return Verdict{Kind: VerdictUndetermined}
	}

	if kill, ok := firstStrikeKill(snap, candidates, snap.Ally.Conditions, snap.Foe.Conditions); ok {
		return Verdict{
			Kind:   VerdictWin,
			Action: kill,
			Reason: fmt.Sprintf("%s KOs %s before it can act", kill.Move.Name, foe.Species),
		}
	}

	// Mirror analysis from the foe's seat, using only its revealed moves.
	if kill, ok := foeFirstStrikeKill(snap); ok {
		// Lost positions still need an action: throw the hardest punch in
		// case the collaborator's snapshot was missing something.
		action := bestEffortAction(snap, candidates)
		return Verdict{
			Kind:   VerdictLoss,
			Action: action,
			Reason: fmt.Sprintf("%s KOs %s first with %s", foe.Species, ally.Species, kill.Name),
		}
	}

	return Verdict{Kind: VerdictUndetermined}
}

// solveMajority handles the 2-vs-1 remainder with a decisive-margin check
// rather than full enumeration: the win is only called when the active unit
// alone already proves it, meaning the extra teammate is pure surplus. The
// 1-vs-2 minority side always defers; a minority proof would have to cover
// two defenders' partially hidden kits.
func solveMajority(snap *domain.Snapshot, candidates []domain.Action) Verdict {
	ally, foe := snap.Ally.Active, snap.Foe.Active
	if !ally.Usable() {
		return Verdict{Kind: VerdictUndetermined}
	}
	kill, ok := firstStrikeKill(snap, candidates, snap.Ally.Conditions, snap.Foe.Conditions)
	if !ok {
		return Verdict{Kind: VerdictUndetermined}
	}
	// The lone foe must also have no revealed path to trading out our
	// attacker first; otherwise the position is merely good, not solved.
	for _, m := range foe.Moves {
		if !m.Damaging() || !m.NeverMisses() || KnownToNullify(ally, m) {
			continue
		}
		r := domain.CalcDamage(foe, ally, m, snap.Field, snap.Ally.Conditions)
		if r.Max >= ally.HP && m.Priority > kill.Move.Priority {
			return Verdict{Kind: VerdictUndetermined}
		}
	}
	return Verdict{
		Kind:   VerdictWin,
		Action: kill,
		Reason: fmt.Sprintf("majority side: %s KOs %s before it can act", kill.Move.Name, foe.Species),
	}
}

// firstStrikeKill finds a legal move action that is provably lethal before
// the foe acts: guaranteed damage (minimum roll), perfect accuracy, no
// revealed immunity, strict turn-order win, and no faster lethal priority
// retaliation from the foe's revealed kit. Only plain move candidates are
// considered; a proof should not spend the terastallization.
func firstStrikeKill(snap *domain.Snapshot, candidates []domain.Action, atkSide, defSide domain.SideConditions) (domain.Action, bool) {
	attacker, defender := snap.Ally.Active, snap.Foe.Active
	for _, a := range candidates {
		if a.Type != domain.ActionMove || a.Tera {
			continue
		}
		if provesFirstStrike(snap, attacker, defender, a.Move, atkSide, defSide) {
			return a, true
		}
	}
	return domain.Action{}, false
}

// foeFirstStrikeKill mirrors firstStrikeKill from the foe's seat. Revealed
// moves stand in for its legal set: anything it has shown, it can plausibly
// use.
func foeFirstStrikeKill(snap *domain.Snapshot) (domain.Move, bool) {
	attacker, defender := snap.Foe.Active, snap.Ally.Active
	for _, m := range attacker.Moves {
		if provesFirstStrike(snap, attacker, defender, m, snap.Foe.Conditions, snap.Ally.Conditions) {
			return m, true
		}
	}
	return domain.Move{}, false
}

// provesFirstStrike is the per-move proof shared by both seats.
func provesFirstStrike(snap *domain.Snapshot, attacker, defender *domain.Unit, m domain.Move, atkSide, defSide domain.SideConditions) bool {
	if !m.Damaging() || !m.NeverMisses() {
		return false
	}
	if KnownToNullify(defender, m) {
		return false
	}
	r := domain.CalcDamage(attacker, defender, m, snap.Field, defSide)
	if !r.GuaranteedKO(defender) {
		return false
	}
	atkSpeed := domain.EffectiveSpeed(attacker, atkSide)
	defSpeed := domain.EffectiveSpeed(defender, defSide)
	// The defender's fastest plausible answer is its highest revealed
	// priority; a tie in order is not a proof.
	if domain.TurnOrder(m.Priority, maxRevealedPriority(defender), atkSpeed, defSpeed, snap.Field.TrickRoom) != domain.OrderFirst {
		return false
	}
	return !priorityRetaliationKills(snap, attacker, defender, m.Priority, atkSide, defSide)
}

// priorityRetaliationKills reports whether any revealed defender priority
// move both outpaces the attacker's chosen priority and guarantees a KO on
// the attacker. Possible-but-not-guaranteed retaliation does not block a win
// proof: the attacker still acts first.
func priorityRetaliationKills(snap *domain.Snapshot, attacker, defender *domain.Unit, chosenPriority int, atkSide, defSide domain.SideConditions) bool {
	atkSpeed := domain.EffectiveSpeed(attacker, atkSide)
	defSpeed := domain.EffectiveSpeed(defender, defSide)
	for _, m := range defender.Moves {
		if !m.Damaging() || m.Priority <= chosenPriority {
			continue
		}
		if KnownToNullify(attacker, m) {
			continue
		}
		if domain.TurnOrder(m.Priority, chosenPriority, defSpeed, atkSpeed, snap.Field.TrickRoom) != domain.OrderFirst {
			continue
		}
		r := domain.CalcDamage(defender, attacker, m, snap.Field, atkSide)
		if m.NeverMisses() && r.GuaranteedKO(attacker) {
			return true
		}
	}
	return false
}

// maxRevealedPriority returns the highest priority among the unit's revealed
// damaging moves, 0 when nothing is revealed.
func maxRevealedPriority(u *domain.Unit) int {
	best := 0
	for _, m := range u.Moves {
		if m.Damaging() && m.Priority > best {
			best = m.Priority
		}
	}
	return best
}

// bestEffortAction picks the strongest legal response for positions already
// judged lost.
func bestEffortAction(snap *domain.Snapshot, candidates []domain.Action) domain.Action {
	best := domain.Action{Type: domain.ActionMove}
	bestDmg := -1
	for _, a := range candidates {
		if a.Type != domain.ActionMove || a.Tera {
			continue
		}
		r := domain.CalcDamage(snap.Ally.Active, snap.Foe.Active, a.Move, snap.Field, snap.Foe.Conditions)
		if r.Max > bestDmg {
			best, bestDmg = a, r.Max
		}
	}
	if bestDmg < 0 && len(candidates) > 0 {
		return candidates[0]
	}
	return best
}
