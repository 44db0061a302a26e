package internal

import (
	"battlebrain/internal/bot/brain"
	"battlebrain/internal/domain"
)

// CapabilityEffect describes what a defensive capability does to incoming
// actions of the categories it covers.
type CapabilityEffect int32

const (
	// EffectBlocks nullifies the action entirely (immunity).
	EffectBlocks CapabilityEffect = iota
	// EffectAbsorbs nullifies the action and benefits the holder.
	EffectAbsorbs
	// EffectHalves halves the action's damage.
	EffectHalves
	// EffectIgnoresBoosts makes the holder ignore the attacker's stat stages.
	EffectIgnoresBoosts
)

// capability is one entry in the interaction table: a capability id, its
// effect, and the action categories (move types, damage classes, sound) it
// applies to. The evaluator iterates this table instead of branching on
// identity strings.
type capability struct {
	ID     string
	Item   bool // identity is an item rather than an ability
	Effect CapabilityEffect
	Types  []domain.Type
	Sound  bool
}

var capabilityTable = []capability{
	{ID: "levitate", Effect: EffectBlocks, Types: []domain.Type{domain.Ground}},
	{ID: "flashfire", Effect: EffectAbsorbs, Types: []domain.Type{domain.Fire}},
	{ID: "waterabsorb", Effect: EffectAbsorbs, Types: []domain.Type{domain.Water}},
	{ID: "dryskin", Effect: EffectAbsorbs, Types: []domain.Type{domain.Water}},
	{ID: "voltabsorb", Effect: EffectAbsorbs, Types: []domain.Type{domain.Electric}},
	{ID: "lightningrod", Effect: EffectAbsorbs, Types: []domain.Type{domain.Electric}},
	{ID: "stormdrain", Effect: EffectAbsorbs, Types: []domain.Type{domain.Water}},
	{ID: "sapsipper", Effect: EffectAbsorbs, Types: []domain.Type{domain.Grass}},
	{ID: "eartheater", Effect: EffectAbsorbs, Types: []domain.Type{domain.Ground}},
	{ID: "thickfat", Effect: EffectHalves, Types: []domain.Type{domain.Fire, domain.Ice}},
	{ID: "heatproof", Effect: EffectHalves, Types: []domain.Type{domain.Fire}},
	{ID: "soundproof", Effect: EffectBlocks, Sound: true},
	{ID: "unaware", Effect: EffectIgnoresBoosts},
	{ID: "airballoon", Item: true, Effect: EffectBlocks, Types: []domain.Type{domain.Ground}},
}

func (c capability) covers(move domain.Move) bool {
	if c.Sound && move.Flags.Sound {
		return true
	}
	for _, t := range c.Types {
		if t == move.Type {
			return true
		}
	}
	return false
}

// nullifyProbability returns the probability that the defender's capabilities
// nullify the move, combining revealed information with belief queries for
// anything still hidden.
func nullifyProbability(beliefs *brain.Tracker, defender *domain.Unit, move domain.Move) float64 {
	if !move.Damaging() {
		return 0
	}
	p := 0.0
	for _, entry := range capabilityTable {
		if entry.Effect != EffectBlocks && entry.Effect != EffectAbsorbs {
			continue
		}
		if !entry.covers(move) {
			continue
		}
		p = maxFloat(p, holdProbability(beliefs, defender, entry))
	}
	return p
}

// halveProbability mirrors nullifyProbability for half-damage capabilities.
func halveProbability(beliefs *brain.Tracker, defender *domain.Unit, move domain.Move) float64 {
	if !move.Damaging() {
		return 0
	}
	p := 0.0
	for _, entry := range capabilityTable {
		if entry.Effect != EffectHalves || !entry.covers(move) {
			continue
		}
		p = maxFloat(p, holdProbability(beliefs, defender, entry))
	}
	return p
}

// boostIgnoreProbability returns the probability the defender ignores the
// attacker's stat stages (setup counterplay).
func boostIgnoreProbability(beliefs *brain.Tracker, defender *domain.Unit) float64 {
	p := 0.0
	for _, entry := range capabilityTable {
		if entry.Effect != EffectIgnoresBoosts {
			continue
		}
		p = maxFloat(p, holdProbability(beliefs, defender, entry))
	}
	return p
}

// KnownToNullify reports whether revealed information alone proves the move
// cannot touch the defender. Used by the endgame solver, which must not build
// proofs on probabilities.
func KnownToNullify(defender *domain.Unit, move domain.Move) bool {
	if !move.Damaging() {
		return false
	}
	for _, entry := range capabilityTable {
		if entry.Effect != EffectBlocks && entry.Effect != EffectAbsorbs {
			continue
		}
		if !entry.covers(move) {
			continue
		}
		if entry.Item && defender.ItemKnown && defender.Item == entry.ID {
			return true
		}
		if !entry.Item && defender.AbilityKnown && defender.Ability == entry.ID {
			return true
		}
	}
	return false
}

func holdProbability(beliefs *brain.Tracker, defender *domain.Unit, entry capability) float64 {
	if entry.Item {
		if defender.ItemKnown {
			if defender.Item == entry.ID {
				return 1
			}
			return 0
		}
	} else {
		if defender.AbilityKnown {
			if defender.Ability == entry.ID {
				return 1
			}
			return 0
		}
	}
	if beliefs == nil {
		return 0
	}
	if entry.Item {
		return beliefs.ProbItem(defender.Species, entry.ID)
	}
	return beliefs.ProbAbility(defender.Species, entry.ID)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
