package domain

// Unit is one battler as seen from the deciding side's perspective. For the
// opposing side, Moves/Item/Ability reflect only what has been revealed; the
// belief tracker fills the gaps probabilistically.
type Unit struct {
	Species string `json:"species"`
	Level   int    `json:"level"`
	Types   []Type `json:"types"`

	Stats Stats `json:"stats"` // fully computed stats, supplied by the snapshot producer
	HP    int   `json:"hp"`
	MaxHP int   `json:"max_hp"`

	Boosts Boosts `json:"boosts,omitempty"`
	Status Status `json:"status,omitempty"`

	Moves []Move `json:"moves,omitempty"` // known moves only

	Item         string `json:"item,omitempty"`
	ItemKnown    bool   `json:"item_known,omitempty"`
	Ability      string `json:"ability,omitempty"`
	AbilityKnown bool   `json:"ability_known,omitempty"`

	TeraType      Type `json:"tera_type,omitempty"`
	Terastallized bool `json:"terastallized,omitempty"`

	// Legality constraints carried over from the server request.
	DisabledMoves []string `json:"disabled_moves,omitempty"`
	LockedMove    string   `json:"locked_move,omitempty"` // choice lock
	Trapped       bool     `json:"trapped,omitempty"`
}

// Usable reports whether the unit can still take the field.
func (u *Unit) Usable() bool {
	return u != nil && u.HP > 0
}

// EffectiveTypes returns the unit's current defensive typing, accounting for
// terastallization.
func (u *Unit) EffectiveTypes() []Type {
	if u.Terastallized && u.TeraType != TypeNone {
		return []Type{u.TeraType}
	}
	return u.Types
}

// HasType reports whether the unit's effective typing includes t.
func (u *Unit) HasType(t Type) bool {
	for _, ut := range u.EffectiveTypes() {
		if ut == t {
			return true
		}
	}
	return false
}

// Grounded reports whether the unit is affected by grounded-only hazards.
func (u *Unit) Grounded() bool {
	if u.HasType(Flying) {
		return false
	}
	if u.AbilityKnown && u.Ability == "levitate" {
		return false
	}
	return true
}

// HPFraction returns current HP as a fraction of max.
func (u *Unit) HPFraction() float64 {
	if u == nil || u.MaxHP <= 0 {
		return 0
	}
	return float64(u.HP) / float64(u.MaxHP)
}

// KnowsMove reports whether name is among the unit's revealed moves.
func (u *Unit) KnowsMove(name string) bool {
	key := normalizeName(name)
	for _, m := range u.Moves {
		if normalizeName(m.Name) == key {
			return true
		}
	}
	return false
}
