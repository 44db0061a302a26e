package brain

import (
	"errors"
	"fmt"
	"log/slog"

	"battlebrain/internal/usage"
)

// Tracker owns the hypothesis sets for every opposing unit in one battle.
// It is not safe for concurrent use; each battle gets its own Tracker.
type Tracker struct {
	pop    usage.Store
	logger *slog.Logger
	units  map[string]*HypothesisSet
	notes  []string
}

// NewTracker creates a tracker seeded from the given reference population.
func NewTracker(pop usage.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		pop:    pop,
		logger: logger,
		units:  make(map[string]*HypothesisSet),
	}
}

// Sight ensures a hypothesis set exists for the unit, seeding it from the
// reference population or falling back to the uniform wildcard when the
// species has no reference data.
func (t *Tracker) Sight(unitID, species string) *HypothesisSet {
	if hs, ok := t.units[unitID]; ok {
		return hs
	}
	var sets []usage.Set
	if t.pop != nil {
		sets, _ = t.pop.SpeciesSets(species)
	}
	hs := newHypothesisSet(unitID, species, sets)
	t.units[unitID] = hs
	return hs
}

// Observe applies one piece of evidence. Contradictions reset the unit to the
// uniform fallback and are logged, never raised; only renormalization bugs
// surface as errors.
func (t *Tracker) Observe(ev Evidence) error {
	hs := t.Sight(ev.UnitID, ev.Species)

	// Speed bounds are tracked independently of the reference sets so they
	// survive a fallback reset.
	switch ev.Kind {
	case EvidenceSpeedAtLeast:
		if ev.Speed > hs.MinSpeed {
			hs.MinSpeed = ev.Speed
		}
	case EvidenceSpeedAtMost:
		if ev.Speed < hs.MaxSpeed {
			hs.MaxSpeed = ev.Speed
		}
	}

	for i := range hs.Hypotheses {
		hs.Hypotheses[i].Weight *= likelihood(hs.Hypotheses[i], ev)
	}

	err := hs.normalize()
	if err == nil {
		return nil
	}
	if !errors.Is(err, errContradicted) {
		return fmt.Errorf("observe %s: %w", ev, err)
	}

	hs.resetToUniform()
	t.notes = append(t.notes, "belief_reset: "+ev.UnitID)
	t.logger.Warn("belief contradiction, resetting to uniform fallback",
		"unit", ev.UnitID, "species", hs.Species, "evidence", ev.String())
	return nil
}

// Prob returns the probability that the unit's true configuration satisfies
// the predicate. Wildcard mass answers 0.5: with no reference data the
// tracker refuses to lean either way.
func (t *Tracker) Prob(unitID string, pred func(usage.Set) bool) float64 {
	hs, ok := t.units[unitID]
	if !ok {
		return 0.5
	}
	p := 0.0
	for _, h := range hs.Hypotheses {
		if h.Wildcard {
			p += 0.5 * h.Weight
			continue
		}
		if pred(h.Set) {
			p += h.Weight
		}
	}
	return p
}

// ProbMove returns the probability that the unit carries the named move.
func (t *Tracker) ProbMove(unitID, move string) float64 {
	return t.Prob(unitID, func(s usage.Set) bool { return s.HasMove(move) })
}

// ProbItem returns the probability that the unit holds the named item.
func (t *Tracker) ProbItem(unitID, item string) float64 {
	return t.Prob(unitID, func(s usage.Set) bool { return s.Item == item })
}

// ProbAbility returns the probability that the unit has the named ability.
func (t *Tracker) ProbAbility(unitID, ability string) float64 {
	return t.Prob(unitID, func(s usage.Set) bool { return s.Ability == ability })
}

// SpeedRange narrows the unit's effective speed to [min, max] using both the
// surviving hypotheses and accumulated turn-order bounds.
func (t *Tracker) SpeedRange(unitID string) (int, int) {
	hs, ok := t.units[unitID]
	if !ok {
		return 0, maxPlausibleSpeed
	}
	lo, hi := hs.MaxSpeed, hs.MinSpeed
	sawSet := false
	for _, h := range hs.Hypotheses {
		if h.Wildcard || h.Weight == 0 {
			continue
		}
		sawSet = true
		if h.Set.Speed < lo {
			lo = h.Set.Speed
		}
		if h.Set.Speed > hi {
			hi = h.Set.Speed
		}
	}
	if !sawSet {
		return hs.MinSpeed, hs.MaxSpeed
	}
	// Intersect with the observed bounds.
	if lo < hs.MinSpeed {
		lo = hs.MinSpeed
	}
	if hi > hs.MaxSpeed {
		hi = hs.MaxSpeed
	}
	if lo > hi {
		lo, hi = hs.MinSpeed, hs.MaxSpeed
	}
	return lo, hi
}

// Hypotheses returns a copy of the unit's current hypotheses, or nil if the
// unit has never been sighted.
func (t *Tracker) Hypotheses(unitID string) []Hypothesis {
	hs, ok := t.units[unitID]
	if !ok {
		return nil
	}
	out := make([]Hypothesis, len(hs.Hypotheses))
	copy(out, hs.Hypotheses)
	return out
}

// Seen reports whether the unit has a hypothesis set.
func (t *Tracker) Seen(unitID string) bool {
	_, ok := t.units[unitID]
	return ok
}

// TakeNotes drains accumulated trace notes (belief resets and the like).
func (t *Tracker) TakeNotes() []string {
	notes := t.notes
	t.notes = nil
	return notes
}
