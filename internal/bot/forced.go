package bot

import (
	"battlebrain/internal/bot/brain"
	botinternal "battlebrain/internal/bot/internal"
	"battlebrain/internal/domain"
)

// Forced-line check names, in bank order.
const (
	ForcedGuaranteedKO    = "guaranteed_ko_first"
	ForcedResistantEscape = "resistant_escape"
	ForcedBoostReset      = "boost_reset"
	ForcedResidualWin     = "residual_win"
)

// ForcedResult is a fired forced line: the action, the check that produced it,
// and that check's hardcoded confidence.
type ForcedResult struct {
	Action     domain.Action
	Check      string
	Confidence float64
}

type forcedCheck struct {
	name       string
	confidence float64
	detect     func(snap *domain.Snapshot, beliefs *brain.Tracker, candidates []domain.Action) (domain.Action, bool)
}

// forcedBank is evaluated in order; earlier entries encode stronger tactical
// certainty. Confidences are properties of the pattern itself and never change
// at runtime; the per-check acceptance thresholds in Tuning decide which are
// trusted.
var forcedBank = []forcedCheck{
	{ForcedGuaranteedKO, 0.95, detectGuaranteedKO},
	{ForcedResistantEscape, 0.85, detectResistantEscape},
	{ForcedBoostReset, 0.80, detectBoostReset},
	{ForcedResidualWin, 0.75, detectResidualWin},
}

// DetectForcedLine runs the bank in order and returns the first check whose
// confidence clears its configured threshold and whose predicate matches.
func DetectForcedLine(snap *domain.Snapshot, beliefs *brain.Tracker, candidates []domain.Action, cfg Tuning) (ForcedResult, bool) {
	for _, check := range forcedBank {
		if check.confidence < cfg.Threshold(check.name) {
			continue
		}
		if action, ok := check.detect(snap, beliefs, candidates); ok {
			return ForcedResult{Action: action, Check: check.name, Confidence: check.confidence}, true
		}
	}
	return ForcedResult{}, false
}

// detectGuaranteedKO fires when a perfect-accuracy move provably KOs the foe
// active before it can act: minimum roll lethal, no revealed immunity, strict
// turn-order win against the foe's fastest plausible speed.
func detectGuaranteedKO(snap *domain.Snapshot, beliefs *brain.Tracker, candidates []domain.Action) (domain.Action, bool) {
	ally, foe := snap.Ally.Active, snap.Foe.Active
	if !ally.Usable() || !foe.Usable() {
		return domain.Action{}, false
	}
	allySpeed := domain.EffectiveSpeed(ally, snap.Ally.Conditions)
	foeSpeed := foeTopSpeed(snap, beliefs)

	for _, a := range candidates {
		if a.Type != domain.ActionMove || a.Tera || !a.Move.Damaging() || !a.Move.NeverMisses() {
			continue
		}
		if botinternal.KnownToNullify(foe, a.Move) {
			continue
		}
		r := domain.CalcDamage(ally, foe, a.Move, snap.Field, snap.Foe.Conditions)
		if !r.GuaranteedKO(foe) {
			continue
		}
		if domain.TurnOrder(a.Move.Priority, maxFoePriority(foe), allySpeed, foeSpeed, snap.Field.TrickRoom) != domain.OrderFirst {
			continue
		}
		return a, true
	}
	return domain.Action{}, false
}

// detectResistantEscape fires when the foe's revealed kit guarantees a KO on
// our active while acting first, and a reserve resists the threat well enough
// to absorb it. The escape must survive entry hazards plus the hit with room
// to spare.
func detectResistantEscape(snap *domain.Snapshot, beliefs *brain.Tracker, candidates []domain.Action) (domain.Action, bool) {
	ally, foe := snap.Ally.Active, snap.Foe.Active
	if !ally.Usable() || !foe.Usable() || ally.Trapped {
		return domain.Action{}, false
	}

	threat, ok := incomingGuaranteedKO(snap, beliefs)
	if !ok {
		return domain.Action{}, false
	}

	best := domain.Action{}
	bestFrac := 0.34 // anything taking a third or more is not an escape
	for _, a := range candidates {
		if a.Type != domain.ActionSwitch {
			continue
		}
		target := domain.SwitchTarget(snap, a)
		if target == nil || target.MaxHP == 0 {
			continue
		}
		if domain.Effectiveness(threat.Type, target.EffectiveTypes()) > 0.5 && !botinternal.KnownToNullify(target, threat) {
			continue
		}
		hit := domain.CalcDamage(foe, target, threat, snap.Field, snap.Ally.Conditions)
		total := hit.Max + domain.EntryDamage(target, snap.Ally.Conditions)
		if frac := float64(total) / float64(target.MaxHP); frac < bestFrac {
			best, bestFrac = a, frac
		}
	}
	if best.Type != domain.ActionSwitch {
		return domain.Action{}, false
	}
	return best, true
}

// detectBoostReset fires when the foe active has stacked two or more offensive
// stages and we hold a stat-reset or phazing answer.
func detectBoostReset(snap *domain.Snapshot, _ *brain.Tracker, candidates []domain.Action) (domain.Action, bool) {
	if snap.Foe.Active.Boosts.OffensiveStages() < 2 {
		return domain.Action{}, false
	}
	for _, a := range candidates {
		if a.Type != domain.ActionMove || a.Tera {
			continue
		}
		if a.Move.Flags.ResetsBoosts || a.Move.Flags.Phazing {
			return a, true
		}
	}
	return domain.Action{}, false
}

// detectResidualWin recognizes positions already won by chip damage: the foe
// active faints to its own residual damage within two turns, our active
// outlasts it, and we hold a stalling action to let the clock run.
func detectResidualWin(snap *domain.Snapshot, _ *brain.Tracker, candidates []domain.Action) (domain.Action, bool) {
	ally, foe := snap.Ally.Active, snap.Foe.Active
	if !ally.Usable() || !foe.Usable() {
		return domain.Action{}, false
	}

	chip := int(foe.Status.ResidualFraction() * float64(foe.MaxHP))
	if chip <= 0 || foe.HP > 2*chip {
		return domain.Action{}, false
	}
	// Our own residual must not race us to the bottom first.
	ownChip := int(ally.Status.ResidualFraction() * float64(ally.MaxHP))
	if ownChip > 0 && ally.HP <= 2*ownChip {
		return domain.Action{}, false
	}
	for _, a := range candidates {
		if a.Type == domain.ActionMove && !a.Tera && a.Move.Flags.Protect {
			return a, true
		}
	}
	return domain.Action{}, false
}

// incomingGuaranteedKO returns the revealed foe move that both guarantees a KO
// on our active and provably resolves first.
func incomingGuaranteedKO(snap *domain.Snapshot, beliefs *brain.Tracker) (domain.Move, bool) {
	ally, foe := snap.Ally.Active, snap.Foe.Active
	allySpeed := domain.EffectiveSpeed(ally, snap.Ally.Conditions)
	foeSpeed := foeLowSpeed(snap, beliefs)

	for _, m := range foe.Moves {
		if !m.Damaging() || !m.NeverMisses() || botinternal.KnownToNullify(ally, m) {
			continue
		}
		r := domain.CalcDamage(foe, ally, m, snap.Field, snap.Ally.Conditions)
		if !r.GuaranteedKO(ally) {
			continue
		}
		if domain.TurnOrder(m.Priority, 0, foeSpeed, allySpeed, snap.Field.TrickRoom) == domain.OrderFirst {
			return m, true
		}
	}
	return domain.Move{}, false
}

// foeTopSpeed returns the fastest effective speed the foe active could have:
// the belief range's upper bound with confirmed in-battle modifiers applied,
// or the snapshot stat when the unit was never tracked.
func foeTopSpeed(snap *domain.Snapshot, beliefs *brain.Tracker) int {
	foe := snap.Foe.Active
	if beliefs == nil || !beliefs.Seen(foe.Species) {
		return domain.EffectiveSpeed(foe, snap.Foe.Conditions)
	}
	_, hi := beliefs.SpeedRange(foe.Species)
	return applyKnownSpeedMods(hi, foe, snap.Foe.Conditions)
}

// foeLowSpeed mirrors foeTopSpeed for the slowest plausible speed.
func foeLowSpeed(snap *domain.Snapshot, beliefs *brain.Tracker) int {
	foe := snap.Foe.Active
	if beliefs == nil || !beliefs.Seen(foe.Species) {
		return domain.EffectiveSpeed(foe, snap.Foe.Conditions)
	}
	lo, _ := beliefs.SpeedRange(foe.Species)
	return applyKnownSpeedMods(lo, foe, snap.Foe.Conditions)
}

func applyKnownSpeedMods(speed int, u *domain.Unit, side domain.SideConditions) int {
	f := float64(speed) * domain.BoostMultiplier(u.Boosts.Spe)
	if u.Status == domain.StatusParalysis {
		f *= 0.5
	}
	if side.Tailwind {
		f *= 2
	}
	return int(f)
}

func maxFoePriority(foe *domain.Unit) int {
	best := 0
	for _, m := range foe.Moves {
		if m.Damaging() && m.Priority > best {
			best = m.Priority
		}
	}
	return best
}
