package domain

import "math"

// DamageRange is the span of possible damage across the 16 random rolls.
type DamageRange struct {
	Min int
	Max int
}

// GuaranteedKO reports whether even the minimum roll fells the defender.
func (d DamageRange) GuaranteedKO(defender *Unit) bool {
	return defender != nil && d.Min >= defender.HP
}

// PossibleKO reports whether the maximum roll fells the defender.
func (d DamageRange) PossibleKO(defender *Unit) bool {
	return defender != nil && d.Max >= defender.HP
}

// CalcDamage computes the damage range for one move use. The formula follows
// the standard cartridge shape: level-scaled base damage, then weather, screen,
// roll, STAB, type effectiveness, and burn modifiers. Ability and item driven
// interactions are layered on top by the capability table in the decision
// layer; this stays pure stat math.
func CalcDamage(attacker, defender *Unit, move Move, field Field, defSide SideConditions) DamageRange {
	if !move.Damaging() || attacker == nil || defender == nil {
		return DamageRange{}
	}

	eff := Effectiveness(move.Type, defender.EffectiveTypes())
	if eff == 0 {
		return DamageRange{}
	}

	var atk, def float64
	if move.Category == Physical {
		atk = float64(attacker.Stats.Atk) * BoostMultiplier(attacker.Boosts.Atk)
		def = float64(defender.Stats.Def) * BoostMultiplier(defender.Boosts.Def)
	} else {
		atk = float64(attacker.Stats.SpA) * BoostMultiplier(attacker.Boosts.SpA)
		def = float64(defender.Stats.SpD) * BoostMultiplier(defender.Boosts.SpD)
	}
	if def < 1 {
		def = 1
	}

	level := attacker.Level
	if level <= 0 {
		level = 100
	}

	base := math.Floor(math.Floor(math.Floor(float64(2*level)/5+2)*float64(move.Power)*atk/def)/50) + 2

	base *= weatherModifier(move, field.Weather)
	base *= screenModifier(move, defSide)

	minDmg := finishDamage(base*0.85, attacker, move, eff)
	maxDmg := finishDamage(base, attacker, move, eff)
	if maxDmg < 1 {
		maxDmg = 1
	}
	if minDmg < 1 {
		minDmg = 1
	}
	return DamageRange{Min: minDmg, Max: maxDmg}
}

func finishDamage(rolled float64, attacker *Unit, move Move, eff float64) int {
	dmg := math.Floor(rolled)
	dmg = math.Floor(dmg * stabModifier(attacker, move))
	dmg = math.Floor(dmg * eff)
	if attacker.Status == StatusBurn && move.Category == Physical {
		dmg = math.Floor(dmg * 0.5)
	}
	return int(dmg)
}

func stabModifier(attacker *Unit, move Move) float64 {
	sameAsTera := attacker.Terastallized && attacker.TeraType == move.Type
	sameAsBase := false
	for _, t := range attacker.Types {
		if t == move.Type {
			sameAsBase = true
			break
		}
	}
	switch {
	case sameAsTera && sameAsBase:
		return 2.0
	case sameAsTera || sameAsBase:
		return 1.5
	default:
		return 1.0
	}
}

func weatherModifier(move Move, w Weather) float64 {
	switch {
	case w == WeatherSun && move.Type == Fire:
		return 1.5
	case w == WeatherSun && move.Type == Water:
		return 0.5
	case w == WeatherRain && move.Type == Water:
		return 1.5
	case w == WeatherRain && move.Type == Fire:
		return 0.5
	default:
		return 1.0
	}
}

func screenModifier(move Move, side SideConditions) float64 {
	if move.Category == Physical && side.Reflect {
		return 0.5
	}
	if move.Category == Special && side.LightScreen {
		return 0.5
	}
	return 1.0
}

// BestDamage returns the strongest damage range among the attacker's known
// moves, along with the move that produces it. The second return is false when
// no damaging move is known.
func BestDamage(attacker, defender *Unit, field Field, defSide SideConditions) (Move, DamageRange, bool) {
	var best Move
	var bestRange DamageRange
	found := false
	for _, m := range attacker.Moves {
		r := CalcDamage(attacker, defender, m, field, defSide)
		if r.Max > bestRange.Max {
			best, bestRange, found = m, r, true
		}
	}
	return best, bestRange, found
}
