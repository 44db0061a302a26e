package brain

import "fmt"

// EvidenceKind labels one class of observation about an opposing unit.
type EvidenceKind int32

const (
	// EvidenceMoveUsed: the unit used (or was revealed to know) a move.
	EvidenceMoveUsed EvidenceKind = iota
	// EvidenceItemRevealed: the unit's item was observed directly.
	EvidenceItemRevealed
	// EvidenceAbilityRevealed: the unit's ability was observed directly.
	EvidenceAbilityRevealed
	// EvidenceSpeedAtLeast: turn order proved the unit's effective speed is
	// at least Speed.
	EvidenceSpeedAtLeast
	// EvidenceSpeedAtMost: turn order proved the unit's effective speed is
	// at most Speed.
	EvidenceSpeedAtMost
)

func (k EvidenceKind) String() string {
	switch k {
	case EvidenceMoveUsed:
		return "move_used"
	case EvidenceItemRevealed:
		return "item_revealed"
	case EvidenceAbilityRevealed:
		return "ability_revealed"
	case EvidenceSpeedAtLeast:
		return "speed_at_least"
	case EvidenceSpeedAtMost:
		return "speed_at_most"
	default:
		return "unknown"
	}
}

// Evidence is one observation attributed to a specific opposing unit.
type Evidence struct {
	Kind    EvidenceKind `json:"kind"`
	UnitID  string       `json:"unit_id"`
	Species string       `json:"species,omitempty"` // used to seed on first sighting
	Move    string       `json:"move,omitempty"`
	Item    string       `json:"item,omitempty"`
	Ability string       `json:"ability,omitempty"`
	Speed   int          `json:"speed,omitempty"`
}

func (e Evidence) String() string {
	switch e.Kind {
	case EvidenceMoveUsed:
		return fmt.Sprintf("%s used %s", e.UnitID, e.Move)
	case EvidenceItemRevealed:
		return fmt.Sprintf("%s holds %s", e.UnitID, e.Item)
	case EvidenceAbilityRevealed:
		return fmt.Sprintf("%s has %s", e.UnitID, e.Ability)
	case EvidenceSpeedAtLeast:
		return fmt.Sprintf("%s speed >= %d", e.UnitID, e.Speed)
	case EvidenceSpeedAtMost:
		return fmt.Sprintf("%s speed <= %d", e.UnitID, e.Speed)
	default:
		return e.UnitID
	}
}

// likelihood returns the probability of observing the evidence under the
// hypothesis. Current evidence kinds are all hard constraints, so this is 0
// or 1; soft likelihoods slot in here without touching the update loop.
func likelihood(h Hypothesis, ev Evidence) float64 {
	if h.Wildcard {
		return 1
	}
	switch ev.Kind {
	case EvidenceMoveUsed:
		if h.Set.HasMove(ev.Move) {
			return 1
		}
		return 0
	case EvidenceItemRevealed:
		if h.Set.Item == ev.Item {
			return 1
		}
		return 0
	case EvidenceAbilityRevealed:
		if h.Set.Ability == ev.Ability {
			return 1
		}
		return 0
	case EvidenceSpeedAtLeast:
		if h.Set.Speed >= ev.Speed {
			return 1
		}
		return 0
	case EvidenceSpeedAtMost:
		if h.Set.Speed <= ev.Speed {
			return 1
		}
		return 0
	default:
		return 1
	}
}
