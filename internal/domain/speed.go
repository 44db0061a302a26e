package domain

// EffectiveSpeed returns the unit's speed after boosts, paralysis, Tailwind,
// and revealed speed items. Unrevealed items are the belief tracker's problem;
// this function only uses confirmed information.
func EffectiveSpeed(u *Unit, side SideConditions) int {
	speed := float64(u.Stats.Spe) * BoostMultiplier(u.Boosts.Spe)
	if u.ItemKnown && u.Item == "choicescarf" {
		speed *= 1.5
	}
	if u.Status == StatusParalysis {
		speed *= 0.5
	}
	if side.Tailwind {
		speed *= 2
	}
	return int(speed)
}

// OrderResult reports which of two simultaneous choices resolves first.
type OrderResult int32

const (
	OrderFirst OrderResult = iota
	OrderSecond
	OrderTie
)

// TurnOrder resolves who acts first given each side's chosen move priority and
// effective speed. Speed ties are reported as OrderTie, never guessed.
func TurnOrder(aPriority, bPriority, aSpeed, bSpeed int, trickRoom bool) OrderResult {
	if aPriority != bPriority {
		if aPriority > bPriority {
			return OrderFirst
		}
		return OrderSecond
	}
	if aSpeed == bSpeed {
		return OrderTie
	}
	faster := aSpeed > bSpeed
	if trickRoom {
		faster = !faster
	}
	if faster {
		return OrderFirst
	}
	return OrderSecond
}

// OutspeedsWith reports whether the ally active provably acts before the foe
// active when using the given move, assuming the foe uses priority prio.
func OutspeedsWith(snap *Snapshot, move Move, foePriority int) bool {
	allySpeed := EffectiveSpeed(snap.Ally.Active, snap.Ally.Conditions)
	foeSpeed := EffectiveSpeed(snap.Foe.Active, snap.Foe.Conditions)
	return TurnOrder(move.Priority, foePriority, allySpeed, foeSpeed, snap.Field.TrickRoom) == OrderFirst
}
