package domain

// Stats holds the six battle stats.
type Stats struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	SpA int `json:"spa"`
	SpD int `json:"spd"`
	Spe int `json:"spe"`
}

// Boosts holds stat stages in the -6..+6 range.
type Boosts struct {
	Atk int `json:"atk,omitempty"`
	Def int `json:"def,omitempty"`
	SpA int `json:"spa,omitempty"`
	SpD int `json:"spd,omitempty"`
	Spe int `json:"spe,omitempty"`
}

// IsZero reports whether no stage differs from neutral.
func (b Boosts) IsZero() bool {
	return b == Boosts{}
}

// OffensiveStages returns the sum of positive attacking stages.
func (b Boosts) OffensiveStages() int {
	total := 0
	if b.Atk > 0 {
		total += b.Atk
	}
	if b.SpA > 0 {
		total += b.SpA
	}
	return total
}

// BoostMultiplier converts a stage into the standard stat multiplier.
func BoostMultiplier(stage int) float64 {
	if stage > 6 {
		stage = 6
	}
	if stage < -6 {
		stage = -6
	}
	if stage >= 0 {
		return float64(2+stage) / 2.0
	}
	return 2.0 / float64(2-stage)
}

// Status identifies a non-volatile status condition.
type Status int32

const (
	StatusNone Status = iota
	StatusBurn
	StatusParalysis
	StatusPoison
	StatusToxic
	StatusSleep
	StatusFreeze
)

var statusNames = map[Status]string{
	StatusNone: "", StatusBurn: "brn", StatusParalysis: "par",
	StatusPoison: "psn", StatusToxic: "tox", StatusSleep: "slp", StatusFreeze: "frz",
}

func (s Status) String() string { return statusNames[s] }

// ResidualFraction returns the fraction of max HP this status drains per turn.
// Toxic is reported at its first-turn rate; callers that care about ramping
// track the counter themselves.
func (s Status) ResidualFraction() float64 {
	switch s {
	case StatusBurn:
		return 1.0 / 16.0
	case StatusPoison:
		return 1.0 / 8.0
	case StatusToxic:
		return 1.0 / 16.0
	default:
		return 0
	}
}
