package domain

import "strings"

// MoveCategory splits moves into damage classes.
type MoveCategory int32

const (
	Physical MoveCategory = iota
	Special
	StatusMove
)

func (c MoveCategory) String() string {
	switch c {
	case Physical:
		return "Physical"
	case Special:
		return "Special"
	default:
		return "Status"
	}
}

// MoveFlags carries the secondary behavior the decision rules care about.
type MoveFlags struct {
	Contact        bool    `json:"contact,omitempty"`
	RecoilFraction float64 `json:"recoil,omitempty"` // fraction of damage dealt taken as recoil
	DrainFraction  float64 `json:"drain,omitempty"`  // fraction of damage dealt recovered
	Pivot          bool    `json:"pivot,omitempty"`  // user switches out after the hit
	SetupBoosts    Boosts  `json:"setup,omitempty"`  // self stat stages gained
	SetsHazard     string  `json:"sets_hazard,omitempty"`
	ClearsHazards  bool    `json:"clears_hazards,omitempty"`
	Phazing        bool    `json:"phazing,omitempty"` // forces the target out
	ResetsBoosts   bool    `json:"resets_boosts,omitempty"`
	Protect        bool    `json:"protect,omitempty"`
	Sound          bool    `json:"sound,omitempty"`
	InflictsStatus Status  `json:"inflicts,omitempty"`
	Recovery       float64 `json:"recovery,omitempty"` // fraction of max HP restored
}

// Move describes one usable move.
type Move struct {
	Name     string       `json:"name"`
	Type     Type         `json:"type"`
	Category MoveCategory `json:"category"`
	Power    int          `json:"power"`
	Accuracy int          `json:"accuracy"` // 0 means the move never misses
	Priority int          `json:"priority"`
	Flags    MoveFlags    `json:"flags,omitempty"`
}

// Damaging reports whether the move deals direct damage.
func (m Move) Damaging() bool {
	return m.Category != StatusMove && m.Power > 0
}

// NeverMisses reports whether accuracy can be ignored for lethality proofs.
func (m Move) NeverMisses() bool {
	return m.Accuracy == 0 || m.Accuracy >= 100
}

// Setup reports whether the move's primary effect is boosting the user.
func (m Move) Setup() bool {
	return m.Category == StatusMove && !m.Flags.SetupBoosts.IsZero()
}

// movedex is the compact built-in move table. It exists so belief hypotheses
// can be materialized into concrete movesets; snapshots are expected to carry
// fully resolved Move structs for everything already revealed.
var movedex = map[string]Move{}

func register(moves ...Move) {
	for _, m := range moves {
		movedex[normalizeName(m.Name)] = m
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(name, " ", ""), "-", ""))
}

// MoveByName resolves a move from the built-in table, case- and
// punctuation-insensitively.
func MoveByName(name string) (Move, bool) {
	m, ok := movedex[normalizeName(name)]
	return m, ok
}

func init() {
	register(
		// Physical attacks.
		Move{Name: "Earthquake", Type: Ground, Category: Physical, Power: 100, Accuracy: 100},
		Move{Name: "Close Combat", Type: Fighting, Category: Physical, Power: 120, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Flare Blitz", Type: Fire, Category: Physical, Power: 120, Accuracy: 100, Flags: MoveFlags{Contact: true, RecoilFraction: 1.0 / 3.0}},
		Move{Name: "Brave Bird", Type: Flying, Category: Physical, Power: 120, Accuracy: 100, Flags: MoveFlags{Contact: true, RecoilFraction: 1.0 / 3.0}},
		Move{Name: "Wood Hammer", Type: Grass, Category: Physical, Power: 120, Accuracy: 100, Flags: MoveFlags{Contact: true, RecoilFraction: 1.0 / 3.0}},
		Move{Name: "Knock Off", Type: Dark, Category: Physical, Power: 65, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Iron Head", Type: Steel, Category: Physical, Power: 80, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Stone Edge", Type: Rock, Category: Physical, Power: 100, Accuracy: 80},
		Move{Name: "Icicle Crash", Type: Ice, Category: Physical, Power: 85, Accuracy: 90, Flags: MoveFlags{Contact: true}},
		Move{Name: "Ice Spinner", Type: Ice, Category: Physical, Power: 80, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Outrage", Type: Dragon, Category: Physical, Power: 120, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Dragon Claw", Type: Dragon, Category: Physical, Power: 80, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Play Rough", Type: Fairy, Category: Physical, Power: 90, Accuracy: 90, Flags: MoveFlags{Contact: true}},
		Move{Name: "Crunch", Type: Dark, Category: Physical, Power: 80, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Waterfall", Type: Water, Category: Physical, Power: 80, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Liquidation", Type: Water, Category: Physical, Power: 85, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Facade", Type: Normal, Category: Physical, Power: 70, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Body Press", Type: Fighting, Category: Physical, Power: 80, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Heavy Slam", Type: Steel, Category: Physical, Power: 100, Accuracy: 100, Flags: MoveFlags{Contact: true}},
		Move{Name: "Poison Jab", Type: Poison, Category: Physical, Power: 80, Accuracy: 100, Flags: MoveFlags{Contact: true}},

		// Priority.
		Move{Name: "Extreme Speed", Type: Normal, Category: Physical, Power: 80, Accuracy: 100, Priority: 2, Flags: MoveFlags{Contact: true}},
		Move{Name: "Aqua Jet", Type: Water, Category: Physical, Power: 40, Accuracy: 100, Priority: 1, Flags: MoveFlags{Contact: true}},
		Move{Name: "Ice Shard", Type: Ice, Category: Physical, Power: 40, Accuracy: 100, Priority: 1},
		Move{Name: "Sucker Punch", Type: Dark, Category: Physical, Power: 70, Accuracy: 100, Priority: 1, Flags: MoveFlags{Contact: true}},
		Move{Name: "Shadow Sneak", Type: Ghost, Category: Physical, Power: 40, Accuracy: 100, Priority: 1, Flags: MoveFlags{Contact: true}},
		Move{Name: "Bullet Punch", Type: Steel, Category: Physical, Power: 40, Accuracy: 100, Priority: 1, Flags: MoveFlags{Contact: true}},
		Move{Name: "Grassy Glide", Type: Grass, Category: Physical, Power: 60, Accuracy: 100, Flags: MoveFlags{Contact: true}},

		// Special attacks.
		Move{Name: "Flamethrower", Type: Fire, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Fire Blast", Type: Fire, Category: Special, Power: 110, Accuracy: 85},
		Move{Name: "Hydro Pump", Type: Water, Category: Special, Power: 110, Accuracy: 80},
		Move{Name: "Surf", Type: Water, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Thunderbolt", Type: Electric, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Ice Beam", Type: Ice, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Blizzard", Type: Ice, Category: Special, Power: 110, Accuracy: 70},
		Move{Name: "Energy Ball", Type: Grass, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Giga Drain", Type: Grass, Category: Special, Power: 75, Accuracy: 100, Flags: MoveFlags{DrainFraction: 0.5}},
		Move{Name: "Psychic", Type: Psychic, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Shadow Ball", Type: Ghost, Category: Special, Power: 80, Accuracy: 100},
		Move{Name: "Dark Pulse", Type: Dark, Category: Special, Power: 80, Accuracy: 100},
		Move{Name: "Draco Meteor", Type: Dragon, Category: Special, Power: 130, Accuracy: 90},
		Move{Name: "Dragon Pulse", Type: Dragon, Category: Special, Power: 85, Accuracy: 100},
		Move{Name: "Moonblast", Type: Fairy, Category: Special, Power: 95, Accuracy: 100},
		Move{Name: "Flash Cannon", Type: Steel, Category: Special, Power: 80, Accuracy: 100},
		Move{Name: "Sludge Bomb", Type: Poison, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Earth Power", Type: Ground, Category: Special, Power: 90, Accuracy: 100},
		Move{Name: "Focus Blast", Type: Fighting, Category: Special, Power: 120, Accuracy: 70},
		Move{Name: "Hyper Voice", Type: Normal, Category: Special, Power: 90, Accuracy: 100, Flags: MoveFlags{Sound: true}},

		// Pivots.
		Move{Name: "U-turn", Type: Bug, Category: Physical, Power: 70, Accuracy: 100, Flags: MoveFlags{Contact: true, Pivot: true}},
		Move{Name: "Volt Switch", Type: Electric, Category: Special, Power: 70, Accuracy: 100, Flags: MoveFlags{Pivot: true}},
		Move{Name: "Flip Turn", Type: Water, Category: Physical, Power: 60, Accuracy: 100, Flags: MoveFlags{Contact: true, Pivot: true}},
		Move{Name: "Parting Shot", Type: Dark, Category: StatusMove, Accuracy: 100, Flags: MoveFlags{Pivot: true, Sound: true}},

		// Setup.
		Move{Name: "Swords Dance", Type: Normal, Category: StatusMove, Flags: MoveFlags{SetupBoosts: Boosts{Atk: 2}}},
		Move{Name: "Nasty Plot", Type: Dark, Category: StatusMove, Flags: MoveFlags{SetupBoosts: Boosts{SpA: 2}}},
		Move{Name: "Dragon Dance", Type: Dragon, Category: StatusMove, Flags: MoveFlags{SetupBoosts: Boosts{Atk: 1, Spe: 1}}},
		Move{Name: "Calm Mind", Type: Psychic, Category: StatusMove, Flags: MoveFlags{SetupBoosts: Boosts{SpA: 1, SpD: 1}}},
		Move{Name: "Bulk Up", Type: Fighting, Category: StatusMove, Flags: MoveFlags{SetupBoosts: Boosts{Atk: 1, Def: 1}}},
		Move{Name: "Iron Defense", Type: Steel, Category: StatusMove, Flags: MoveFlags{SetupBoosts: Boosts{Def: 2}}},
		Move{Name: "Agility", Type: Psychic, Category: StatusMove, Flags: MoveFlags{SetupBoosts: Boosts{Spe: 2}}},

		// Hazards and removal.
		Move{Name: "Stealth Rock", Type: Rock, Category: StatusMove, Flags: MoveFlags{SetsHazard: "stealthrock"}},
		Move{Name: "Spikes", Type: Ground, Category: StatusMove, Flags: MoveFlags{SetsHazard: "spikes"}},
		Move{Name: "Toxic Spikes", Type: Poison, Category: StatusMove, Flags: MoveFlags{SetsHazard: "toxicspikes"}},
		Move{Name: "Sticky Web", Type: Bug, Category: StatusMove, Flags: MoveFlags{SetsHazard: "stickyweb"}},
		Move{Name: "Rapid Spin", Type: Normal, Category: Physical, Power: 50, Accuracy: 100, Flags: MoveFlags{Contact: true, ClearsHazards: true}},
		Move{Name: "Defog", Type: Flying, Category: StatusMove, Flags: MoveFlags{ClearsHazards: true}},

		// Disruption and recovery.
		Move{Name: "Haze", Type: Ice, Category: StatusMove, Flags: MoveFlags{ResetsBoosts: true}},
		Move{Name: "Roar", Type: Normal, Category: StatusMove, Flags: MoveFlags{Phazing: true, Sound: true}},
		Move{Name: "Whirlwind", Type: Normal, Category: StatusMove, Flags: MoveFlags{Phazing: true}},
		Move{Name: "Dragon Tail", Type: Dragon, Category: Physical, Power: 60, Accuracy: 90, Priority: -6, Flags: MoveFlags{Contact: true, Phazing: true}},
		Move{Name: "Protect", Type: Normal, Category: StatusMove, Priority: 4, Flags: MoveFlags{Protect: true}},
		Move{Name: "Recover", Type: Normal, Category: StatusMove, Flags: MoveFlags{Recovery: 0.5}},
		Move{Name: "Roost", Type: Flying, Category: StatusMove, Flags: MoveFlags{Recovery: 0.5}},
		Move{Name: "Slack Off", Type: Normal, Category: StatusMove, Flags: MoveFlags{Recovery: 0.5}},
		Move{Name: "Will-O-Wisp", Type: Fire, Category: StatusMove, Accuracy: 85, Flags: MoveFlags{InflictsStatus: StatusBurn}},
		Move{Name: "Thunder Wave", Type: Electric, Category: StatusMove, Accuracy: 90, Flags: MoveFlags{InflictsStatus: StatusParalysis}},
		Move{Name: "Toxic", Type: Poison, Category: StatusMove, Accuracy: 90, Flags: MoveFlags{InflictsStatus: StatusToxic}},
	)
}
