package internal

import (
	"sort"

	"battlebrain/internal/domain"
)

// Contribution is one rule's signed effect on a candidate's score.
type Contribution struct {
	Rule  string  `json:"rule"`
	Delta float64 `json:"delta"`
}

// ScoredAction pairs a candidate with its final score and the ordered rule
// contributions that produced it. The contribution trail is the engine's
// explainability contract: base value plus deltas always reproduces Score.
type ScoredAction struct {
	Action   domain.Action  `json:"action"`
	Score    float64        `json:"score"`
	Base     float64        `json:"base"`
	Contribs []Contribution `json:"contribs,omitempty"`
}

// Evaluate scores every candidate through the fixed rule pipeline and returns
// them ranked best-first. Identical inputs produce identical rankings and
// identical trails: ties break on the action label, never on map order.
func Evaluate(env *Env, candidates []domain.Action) []ScoredAction {
	scored := make([]ScoredAction, 0, len(candidates))
	for _, a := range candidates {
		base := baseValue(a, env.Weights)
		sa := ScoredAction{Action: a, Base: base, Score: base}
		for _, rule := range Pipeline {
			delta, applied := rule.Apply(a, env)
			if !applied {
				continue
			}
			sa.Score += delta
			sa.Contribs = append(sa.Contribs, Contribution{Rule: rule.Name(), Delta: delta})
		}
		scored = append(scored, sa)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Action.Label() < scored[j].Action.Label()
	})
	return scored
}

// baseValue looks up the static starting score by action identity alone;
// everything situational is the rules' business.
func baseValue(a domain.Action, w Weights) float64 {
	if a.Type == domain.ActionSwitch {
		return w.SwitchBase
	}
	if a.Move.Damaging() {
		return w.MoveBase + w.MovePowerScale*float64(a.Move.Power)
	}
	return w.StatusMoveBase
}

// damageWithTera computes the action's damage range, accounting for the tera
// commitment riding on the move.
func damageWithTera(env *Env, a domain.Action) domain.DamageRange {
	attacker := env.ally()
	if a.Tera && !attacker.Terastallized {
		teraed := *attacker
		teraed.Terastallized = true
		teraed.TeraType = attacker.TeraType
		attacker = &teraed
	}
	return domain.CalcDamage(attacker, env.foe(), a.Move, env.Snap.Field, env.Snap.Foe.Conditions)
}

// probActsFirst estimates the chance the ally resolves its move before the
// foe's non-priority action, combining confirmed speeds with the belief
// tracker's speed range for the foe.
func (e *Env) probActsFirst(move domain.Move) float64 {
	if move.Priority > 0 {
		return 1
	}
	allySpeed := domain.EffectiveSpeed(e.ally(), e.Snap.Ally.Conditions)
	lo, hi := e.foeSpeedRange()
	if e.Snap.Field.TrickRoom {
		lo, hi, allySpeed = -hi, -lo, -allySpeed
	}
	switch {
	case allySpeed > hi:
		return 1
	case allySpeed <= lo:
		return 0
	default:
		// Linear within the surviving range; refuses to pretend certainty.
		return float64(allySpeed-lo) / float64(hi-lo+1)
	}
}

// foeSpeedRange returns the foe active's effective speed bounds, preferring
// belief data and falling back to the snapshot's confirmed stat.
func (e *Env) foeSpeedRange() (int, int) {
	foe := e.foe()
	if e.Beliefs != nil && e.Beliefs.Seen(foe.Species) {
		lo, hi := e.Beliefs.SpeedRange(foe.Species)
		lo = adjustSpeed(lo, foe, e.Snap.Foe.Conditions)
		hi = adjustSpeed(hi, foe, e.Snap.Foe.Conditions)
		return lo, hi
	}
	s := domain.EffectiveSpeed(foe, e.Snap.Foe.Conditions)
	return s, s
}

// adjustSpeed applies confirmed in-battle modifiers on top of a raw speed
// stat hypothesis.
func adjustSpeed(speed int, u *domain.Unit, side domain.SideConditions) int {
	f := float64(speed) * domain.BoostMultiplier(u.Boosts.Spe)
	if u.Status == domain.StatusParalysis {
		f *= 0.5
	}
	if side.Tailwind {
		f *= 2
	}
	return int(f)
}

// foeThreatFraction estimates the worst hit the foe's known moves land on our
// active, as a fraction of our max HP. Unknown kits read as moderate threat.
func foeThreatFraction(env *Env) float64 {
	foe, ally := env.foe(), env.ally()
	if len(foe.Moves) == 0 {
		return 0.35
	}
	worst := 0.0
	for _, m := range foe.Moves {
		if KnownToNullify(ally, m) {
			continue
		}
		r := domain.CalcDamage(foe, ally, m, env.Snap.Field, env.Snap.Ally.Conditions)
		if frac := float64(r.Max) / float64(maxInt(ally.MaxHP, 1)); frac > worst {
			worst = frac
		}
	}
	return worst
}

// incomingFraction mirrors foeThreatFraction for an arbitrary prospective
// switch-in, including the hazard toll on entry.
func incomingFraction(env *Env, target *domain.Unit) float64 {
	foe := env.foe()
	entry := float64(domain.EntryDamage(target, env.Snap.Ally.Conditions))
	worst := 0.0
	for _, m := range foe.Moves {
		if KnownToNullify(target, m) {
			continue
		}
		r := domain.CalcDamage(foe, target, m, env.Snap.Field, env.Snap.Ally.Conditions)
		if f := float64(r.Max); f > worst {
			worst = f
		}
	}
	return (entry + worst) / float64(maxInt(target.MaxHP, 1))
}

// setupCounterProbability estimates how likely the foe holds a tool that
// undoes stat boosts: a reset move, a phazing move, or boost-ignoring
// capability.
func setupCounterProbability(env *Env, foe *domain.Unit) float64 {
	p := boostIgnoreProbability(env.Beliefs, foe)
	for _, m := range foe.Moves {
		if m.Flags.ResetsBoosts || m.Flags.Phazing {
			return 1
		}
	}
	if env.Beliefs != nil {
		for _, name := range []string{"Haze", "Roar", "Whirlwind", "Dragon Tail"} {
			p = maxFloat(p, env.Beliefs.ProbMove(foe.Species, name))
		}
	}
	return p
}

// defensiveTeraImproves reports whether terastallizing strictly reduces the
// damage of the foe's best known move against our active.
func defensiveTeraImproves(env *Env) bool {
	ally := env.ally()
	if ally.Terastallized || ally.TeraType == domain.TypeNone {
		return false
	}
	foe := env.foe()
	_, current, ok := domain.BestDamage(foe, ally, env.Snap.Field, env.Snap.Ally.Conditions)
	if !ok {
		return false
	}
	teraed := *ally
	teraed.Terastallized = true
	_, after, ok := domain.BestDamage(foe, &teraed, env.Snap.Field, env.Snap.Ally.Conditions)
	if !ok {
		return false
	}
	return after.Max < current.Max
}

// identifyWinCon picks the roster slot best positioned to close the game:
// highest remaining offensive presence weighted by health. Returns -1 when
// only one unit remains (nothing left to protect it for).
func identifyWinCon(snap *domain.Snapshot) int {
	if snap.Ally.UsableCount() <= 1 {
		return -1
	}
	best, bestSlot := 0.0, -1
	score := func(u *domain.Unit) float64 {
		if !u.Usable() {
			return 0
		}
		power := 0
		for _, m := range u.Moves {
			if m.Power > power {
				power = m.Power
			}
			if m.Setup() {
				power += 40 // setup potential counts toward closing ability
			}
		}
		return float64(power) * u.HPFraction()
	}
	if s := score(snap.Ally.Active); s > best {
		best, bestSlot = s, 0
	}
	for i, r := range snap.Ally.Reserves {
		if s := score(r); s > best {
			best, bestSlot = s, i+1
		}
	}
	return bestSlot
}

func foeSideLacksHazard(side domain.SideConditions, hazard string) bool {
	switch hazard {
	case "stealthrock":
		return !side.StealthRock
	case "spikes":
		return side.Spikes < 3
	case "toxicspikes":
		return side.ToxicSpikes < 2
	case "stickyweb":
		return !side.StickyWeb
	default:
		return false
	}
}

func hazardLayers(side domain.SideConditions) int {
	layers := side.Spikes + side.ToxicSpikes
	if side.StealthRock {
		layers++
	}
	if side.StickyWeb {
		layers++
	}
	return layers
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
