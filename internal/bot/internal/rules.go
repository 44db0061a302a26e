package internal

import (
	"battlebrain/internal/bot/brain"
	"battlebrain/internal/domain"
)

// Env bundles everything a rule may look at for one evaluation pass. Rules
// are pure functions of (action, Env); the Env itself is never mutated after
// NewEnv.
type Env struct {
	Snap    *domain.Snapshot
	Beliefs *brain.Tracker
	Weights Weights

	// winCon caches the roster slot identified as the primary win condition:
	// -1 none, 0 active, 1+n reserve n.
	winCon int
}

// NewEnv prepares an evaluation environment, caching the per-turn analysis
// shared across rules.
func NewEnv(snap *domain.Snapshot, beliefs *brain.Tracker, weights Weights) *Env {
	return &Env{
		Snap:    snap,
		Beliefs: beliefs,
		Weights: weights,
		winCon:  identifyWinCon(snap),
	}
}

func (e *Env) foe() *domain.Unit  { return e.Snap.Foe.Active }
func (e *Env) ally() *domain.Unit { return e.Snap.Ally.Active }

// Rule is one adjustment step in the evaluation pipeline.
type Rule interface {
	Name() string
	// Apply returns the score delta for the action and whether the rule
	// applied at all. Non-applying rules leave no trace entry.
	Apply(a domain.Action, env *Env) (float64, bool)
}

// Pipeline is the fixed, ordered rule stack. The order is part of the
// engine's contract: contribution trails list rules in exactly this order,
// which keeps final scores reproducible from the trace alone.
var Pipeline = []Rule{
	capabilityRule{},
	effectivenessRule{},
	hazardRule{},
	momentumRule{},
	turnOrderRule{},
	teraTimingRule{},
	winConRule{},
	setupTimingRule{},
	selfCostRule{},
}

// capabilityRule consults the capability interaction table: moves walking
// into a likely immunity or absorption lose most of their value, halving
// capabilities cost proportionally less.
type capabilityRule struct{}

func (capabilityRule) Name() string { return "capability" }

func (capabilityRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if a.Type == domain.ActionSwitch || !a.Move.Damaging() {
		return 0, false
	}
	delta := 0.0
	if p := nullifyProbability(env.Beliefs, env.foe(), a.Move); p > 0 {
		delta -= env.Weights.CapabilityBlock * p
	}
	if p := halveProbability(env.Beliefs, env.foe(), a.Move); p > 0 {
		delta -= env.Weights.CapabilityBlock * 0.4 * p
	}
	if delta == 0 {
		return 0, false
	}
	return delta, true
}

// effectivenessRule rewards super-effective hits and punishes resisted or
// immune ones against the foe's revealed typing.
type effectivenessRule struct{}

func (effectivenessRule) Name() string { return "effectiveness" }

func (effectivenessRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if a.Type == domain.ActionSwitch || !a.Move.Damaging() {
		return 0, false
	}
	eff := domain.Effectiveness(a.Move.Type, env.foe().EffectiveTypes())
	if eff == 0 {
		return -env.Weights.ImmunePenalty, true
	}
	if eff == 1 {
		return 0, false
	}
	return env.Weights.EffectivenessScale * (eff - 1), true
}

// hazardRule prices the hazard state into switching and into hazard moves:
// switch targets pay their entry damage, laying hazards on a clean foe side
// and clearing a dirty own side both earn their keep.
type hazardRule struct{}

func (hazardRule) Name() string { return "hazards" }

func (hazardRule) Apply(a domain.Action, env *Env) (float64, bool) {
	w := env.Weights
	if a.Type == domain.ActionSwitch {
		target := domain.SwitchTarget(env.Snap, a)
		if target == nil || target.MaxHP == 0 {
			return 0, false
		}
		dmg := domain.EntryDamage(target, env.Snap.Ally.Conditions)
		if dmg == 0 {
			return 0, false
		}
		return -w.HazardCostScale * float64(dmg) / float64(target.MaxHP), true
	}

	switch {
	case a.Move.Flags.SetsHazard != "" && foeSideLacksHazard(env.Snap.Foe.Conditions, a.Move.Flags.SetsHazard):
		// Hazards compound with the number of switches the foe has left.
		scale := 1.0 + 0.2*float64(env.Snap.Foe.UsableCount()-1)
		return w.HazardSetBonus * scale, true
	case a.Move.Flags.ClearsHazards && env.Snap.Ally.Conditions.HasHazards():
		return w.HazardClearBonus * float64(hazardLayers(env.Snap.Ally.Conditions)), true
	}
	return 0, false
}

// momentumRule favors pivot moves while healthy teammates remain: damage plus
// a repositioning turn beats damage alone.
type momentumRule struct{}

func (momentumRule) Name() string { return "momentum" }

func (momentumRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if a.Type == domain.ActionSwitch || !a.Move.Flags.Pivot {
		return 0, false
	}
	healthy := 0
	for _, r := range env.Snap.Ally.Reserves {
		if r.Usable() {
			healthy++
		}
	}
	if healthy == 0 {
		return 0, false
	}
	return env.Weights.MomentumBonus * float64(minInt(healthy, 3)), true
}

// turnOrderRule resolves who acts first. A possible KO while provably moving
// first is heavily rewarded; priority moves earn revenge value when the foe
// likely outspeeds and threatens us.
type turnOrderRule struct{}

func (turnOrderRule) Name() string { return "turn_order" }

func (turnOrderRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if a.Type == domain.ActionSwitch || !a.Move.Damaging() {
		return 0, false
	}
	foe := env.foe()
	dmg := damageWithTera(env, a)
	if !dmg.PossibleKO(foe) {
		return 0, false
	}

	pFirst := env.probActsFirst(a.Move)
	delta := env.Weights.FirstStrikeBonus * pFirst
	if a.Move.Priority > 0 && pFirst > 0.9 {
		delta += env.Weights.PriorityRevengeBonus * foeThreatFraction(env)
	}
	if delta == 0 {
		return 0, false
	}
	return delta, true
}

// teraTimingRule prices the one-time terastallization commitment: spending it
// must buy something concrete, either flipping a KO or fixing a defensive
// matchup.
type teraTimingRule struct{}

func (teraTimingRule) Name() string { return "tera_timing" }

func (teraTimingRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if a.Type == domain.ActionSwitch || !a.Tera {
		return 0, false
	}
	delta := -env.Weights.TeraCommitPenalty

	if a.Move.Damaging() {
		foe := env.foe()
		plain := domain.CalcDamage(env.ally(), foe, a.Move, env.Snap.Field, env.Snap.Foe.Conditions)
		tera := damageWithTera(env, a)
		if tera.GuaranteedKO(foe) && !plain.GuaranteedKO(foe) {
			delta += env.Weights.TeraFlipBonus
		} else if tera.PossibleKO(foe) && !plain.PossibleKO(foe) {
			delta += env.Weights.TeraFlipBonus * 0.5
		}
	}
	if defensiveTeraImproves(env) {
		delta += env.Weights.TeraFlipBonus * 0.5
	}
	return delta, true
}

// winConRule protects the unit identified as the primary win condition:
// switching it into heavy fire, or sacking it while teammates remain, is
// discouraged.
type winConRule struct{}

func (winConRule) Name() string { return "win_con" }

func (winConRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if env.winCon < 0 {
		return 0, false
	}
	if a.Type != domain.ActionSwitch {
		return 0, false
	}
	if env.winCon != a.SwitchTo+1 {
		return 0, false
	}
	target := domain.SwitchTarget(env.Snap, a)
	if target == nil {
		return 0, false
	}
	risk := incomingFraction(env, target)
	if risk < 0.4 {
		return 0, false
	}
	return -env.Weights.WinConRiskPenalty * risk, true
}

// setupTimingRule separates free setup turns from setup into counterplay:
// boosting in front of a likely phazer, hazer, or Unaware wall wastes the
// turn, boosting on a passive foe compounds.
type setupTimingRule struct{}

func (setupTimingRule) Name() string { return "setup_timing" }

func (setupTimingRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if a.Type == domain.ActionSwitch || !a.Move.Setup() {
		return 0, false
	}
	foe := env.foe()
	pCounter := setupCounterProbability(env, foe)
	delta := 0.0
	if pCounter > 0.05 {
		delta -= env.Weights.SetupCounterPenalty * pCounter
	}
	if threat := foeThreatFraction(env); threat < 0.25 {
		delta += env.Weights.SetupFreeTurnBonus * (1 - threat)
	}
	if delta == 0 {
		return 0, false
	}
	return delta, true
}

// selfCostRule applies severe (not absolute) penalties to self-defeating
// choices: recoil that would fell the user, redundant status, healing at
// full HP. The actions stay legal and scored, just practically unselectable.
type selfCostRule struct{}

func (selfCostRule) Name() string { return "self_cost" }

func (selfCostRule) Apply(a domain.Action, env *Env) (float64, bool) {
	if a.Type == domain.ActionSwitch {
		return 0, false
	}
	w := env.Weights
	ally := env.ally()

	if rf := a.Move.Flags.RecoilFraction; rf > 0 && a.Move.Damaging() {
		dealt := damageWithTera(env, a)
		recoil := int(float64(dealt.Max) * rf)
		if recoil >= ally.HP {
			return -w.SelfKOPenalty, true
		}
	}
	if s := a.Move.Flags.InflictsStatus; s != domain.StatusNone && env.foe().Status != domain.StatusNone {
		return -w.RedundantPenalty, true
	}
	if a.Move.Flags.Recovery > 0 && ally.HPFraction() > 0.9 {
		return -w.RedundantPenalty, true
	}
	return 0, false
}
