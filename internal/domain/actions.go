package domain

import (
	"fmt"
	"strings"
)

// ActionType distinguishes move use from switching.
type ActionType int32

const (
	ActionMove ActionType = iota
	ActionSwitch
)

// Action is one legal choice for the current turn.
type Action struct {
	Type ActionType `json:"type"`

	// Move fields.
	Move Move `json:"move,omitempty"`
	Tera bool `json:"tera,omitempty"` // terastallize while using the move

	// Switch fields.
	SwitchTo int `json:"switch_to,omitempty"` // index into Ally.Reserves
}

// Label returns a stable human-readable identity for the action. Labels are
// unique within one turn's candidate set and are used for tie-breaking and
// trace output.
func (a Action) Label() string {
	if a.Type == ActionSwitch {
		return fmt.Sprintf("switch:%d", a.SwitchTo)
	}
	if a.Tera {
		return "tera+move:" + a.Move.Name
	}
	return "move:" + a.Move.Name
}

// LegalActions enumerates every action the deciding side may take this turn.
// Anything whose legality cannot be confirmed from the snapshot is excluded
// rather than guessed: unnamed or unresolvable moves, disabled moves, and
// off-lock moves under a choice lock never enter the candidate set.
func LegalActions(snap *Snapshot) []Action {
	var actions []Action
	active := snap.Ally.Active

	if active.Usable() {
		for _, m := range active.Moves {
			if m.Name == "" {
				continue // ambiguous entry from the snapshot producer
			}
			if isDisabled(active, m.Name) {
				continue
			}
			if active.LockedMove != "" && normalizeName(m.Name) != normalizeName(active.LockedMove) {
				continue
			}
			actions = append(actions, Action{Type: ActionMove, Move: m})
			if canTera(snap, active) {
				actions = append(actions, Action{Type: ActionMove, Move: m, Tera: true})
			}
		}
	}

	if !active.Usable() || !active.Trapped {
		for i, reserve := range snap.Ally.Reserves {
			if !reserve.Usable() {
				continue
			}
			actions = append(actions, Action{Type: ActionSwitch, SwitchTo: i})
		}
	}

	return actions
}

func isDisabled(u *Unit, name string) bool {
	key := normalizeName(name)
	for _, d := range u.DisabledMoves {
		if normalizeName(d) == key {
			return true
		}
	}
	return false
}

func canTera(snap *Snapshot, active *Unit) bool {
	return !snap.Ally.TeraUsed && !active.Terastallized && active.TeraType != TypeNone
}

// SwitchTarget resolves the reserve a switch action points at.
func SwitchTarget(snap *Snapshot, a Action) *Unit {
	if a.Type != ActionSwitch || a.SwitchTo < 0 || a.SwitchTo >= len(snap.Ally.Reserves) {
		return nil
	}
	return snap.Ally.Reserves[a.SwitchTo]
}

// DescribeAction renders an action for logs and the CLI.
func DescribeAction(snap *Snapshot, a Action) string {
	if a.Type == ActionSwitch {
		if target := SwitchTarget(snap, a); target != nil {
			return "switch " + target.Species
		}
		return a.Label()
	}
	var b strings.Builder
	if a.Tera {
		b.WriteString("terastallize + ")
	}
	b.WriteString(a.Move.Name)
	return b.String()
}
