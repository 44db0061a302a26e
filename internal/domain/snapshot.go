package domain

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// Side holds one player's roster and side conditions.
type Side struct {
	Active     *Unit          `json:"active"`
	Reserves   []*Unit        `json:"reserves,omitempty"`
	Conditions SideConditions `json:"conditions,omitempty"`
	TeraUsed   bool           `json:"tera_used,omitempty"`
}

// UsableCount returns how many units on this side can still fight.
func (s *Side) UsableCount() int {
	count := 0
	if s.Active.Usable() {
		count++
	}
	for _, u := range s.Reserves {
		if u.Usable() {
			count++
		}
	}
	return count
}

// Snapshot is the immutable battle state for one decision. It is produced by
// the protocol collaborator; the engine never mutates it.
type Snapshot struct {
	BattleID string `json:"battle_id,omitempty"`
	Turn     int    `json:"turn"`
	Ally     Side   `json:"ally"` // the side this engine decides for
	Foe      Side   `json:"foe"`
	Field    Field  `json:"field,omitempty"`
}

// Digest returns a stable hash of the snapshot for trace correlation.
func (s *Snapshot) Digest() string {
	data, err := json.Marshal(s)
	if err != nil {
		return "unhashable"
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}
