// Package brain maintains the engine's beliefs about unrevealed opposing
// units. Each unit gets a probability-weighted hypothesis set over the
// configurations it might be running; evidence reweights the set, and
// downstream stages only ever see probabilities and ranges, never guesses.
package brain

import (
	"fmt"
	"math"

	"battlebrain/internal/usage"
)

// maxPlausibleSpeed bounds speed estimates when nothing is known. No current
// spread exceeds it even fully invested and boosted once.
const maxPlausibleSpeed = 600

// Hypothesis is one candidate configuration with its current weight.
type Hypothesis struct {
	Set usage.Set `json:"set"`
	// Wildcard marks the uniform fallback hypothesis: consistent with any
	// observation, used when no reference data exists or after contradiction.
	Wildcard bool    `json:"wildcard,omitempty"`
	Weight   float64 `json:"weight"`
}

// HypothesisSet tracks one opposing unit. Created at first sighting, updated
// on every piece of evidence, reset (never destroyed) on contradiction.
type HypothesisSet struct {
	UnitID     string       `json:"unit_id"`
	Species    string       `json:"species"`
	Hypotheses []Hypothesis `json:"hypotheses"`

	// Speed bounds accumulated from turn-order evidence. They survive a
	// contradiction reset: the observations were real even if the reference
	// sets could not explain them.
	MinSpeed int `json:"min_speed"`
	MaxSpeed int `json:"max_speed"`

	Resets int `json:"resets,omitempty"`
}

func newHypothesisSet(unitID, species string, sets []usage.Set) *HypothesisSet {
	hs := &HypothesisSet{
		UnitID:   unitID,
		Species:  species,
		MinSpeed: 0,
		MaxSpeed: maxPlausibleSpeed,
	}
	if len(sets) == 0 {
		hs.Hypotheses = []Hypothesis{{Wildcard: true, Weight: 1}}
		return hs
	}
	hs.Hypotheses = make([]Hypothesis, len(sets))
	for i, s := range sets {
		hs.Hypotheses[i] = Hypothesis{Set: s, Weight: s.Weight}
	}
	// Reference weights are already normalized per species, but never trust
	// an external file with an invariant.
	_ = hs.normalize()
	return hs
}

// errContradicted signals that evidence drove every hypothesis to zero.
var errContradicted = fmt.Errorf("all hypotheses eliminated")

// normalize rescales weights to sum to 1. Returns errContradicted when the
// total is zero and a hard error when renormalization itself fails, which
// indicates a correctness bug rather than normal uncertainty.
func (hs *HypothesisSet) normalize() error {
	total := 0.0
	for _, h := range hs.Hypotheses {
		if h.Weight < 0 || math.IsNaN(h.Weight) {
			return fmt.Errorf("hypothesis set for %s has invalid weight %v", hs.UnitID, h.Weight)
		}
		total += h.Weight
	}
	if total == 0 {
		return errContradicted
	}
	sum := 0.0
	for i := range hs.Hypotheses {
		hs.Hypotheses[i].Weight /= total
		sum += hs.Hypotheses[i].Weight
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("hypothesis set for %s sums to %v after renormalization", hs.UnitID, sum)
	}
	return nil
}

// resetToUniform replaces the hypotheses with the single wildcard fallback.
// Accumulated speed bounds are kept.
func (hs *HypothesisSet) resetToUniform() {
	hs.Hypotheses = []Hypothesis{{Wildcard: true, Weight: 1}}
	hs.Resets++
}

// WeightSum returns the current total weight; 1 within floating tolerance for
// any healthy set.
func (hs *HypothesisSet) WeightSum() float64 {
	total := 0.0
	for _, h := range hs.Hypotheses {
		total += h.Weight
	}
	return total
}
