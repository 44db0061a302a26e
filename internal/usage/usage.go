// Package usage holds the reference population data that seeds opponent
// belief priors: for each species, the configurations seen in ranked play and
// how often each appears. The data is read-only after load and safe to share
// across battles.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Set is one known configuration for a species: the full moveset, item,
// ability, the effective speed stat the spread produces, and the fraction of
// ranked teams running it.
type Set struct {
	Name    string   `json:"name"`
	Moves   []string `json:"moves"`
	Item    string   `json:"item"`
	Ability string   `json:"ability"`
	Speed   int      `json:"speed"`
	Weight  float64  `json:"weight"`
}

// HasMove reports whether the set's moveset contains the named move.
func (s Set) HasMove(name string) bool {
	key := normalize(name)
	for _, m := range s.Moves {
		if normalize(m) == key {
			return true
		}
	}
	return false
}

// Store is the read interface the belief tracker consumes.
type Store interface {
	// SpeciesSets returns the known configurations for a species with their
	// popularity weights, or false if the species has no reference data.
	SpeciesSets(species string) ([]Set, bool)
}

// Population is an in-memory Store.
type Population struct {
	sets map[string][]Set
}

// SpeciesSets implements Store.
func (p *Population) SpeciesSets(species string) ([]Set, bool) {
	sets, ok := p.sets[normalize(species)]
	return sets, ok && len(sets) > 0
}

// NewPopulation builds a Population from a species -> sets table, normalizing
// weights per species so they sum to 1.
func NewPopulation(bySpecies map[string][]Set) *Population {
	p := &Population{sets: make(map[string][]Set, len(bySpecies))}
	for species, sets := range bySpecies {
		p.sets[normalize(species)] = normalizeWeights(sets)
	}
	return p
}

// LoadPopulation reads a JSON set file (species name -> []Set).
func LoadPopulation(path string) (*Population, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read usage file: %w", err)
	}
	var bySpecies map[string][]Set
	if err := json.Unmarshal(data, &bySpecies); err != nil {
		return nil, fmt.Errorf("unmarshal usage file: %w", err)
	}
	return NewPopulation(bySpecies), nil
}

func normalizeWeights(sets []Set) []Set {
	total := 0.0
	for _, s := range sets {
		if s.Weight > 0 {
			total += s.Weight
		}
	}
	if total <= 0 {
		// No usable weights recorded; fall back to uniform.
		for i := range sets {
			sets[i].Weight = 1.0 / float64(len(sets))
		}
		return sets
	}
	for i := range sets {
		if sets[i].Weight < 0 {
			sets[i].Weight = 0
		}
		sets[i].Weight /= total
	}
	return sets
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(name, " ", ""), "-", ""))
}

// Builtin returns a small curated population used for cold starts and tests.
func Builtin() *Population {
	return NewPopulation(map[string][]Set{
		"Garchomp": {
			{Name: "Swords Dance", Moves: []string{"Swords Dance", "Earthquake", "Dragon Claw", "Stone Edge"}, Item: "lifeorb", Ability: "roughskin", Speed: 333, Weight: 0.45},
			{Name: "Tank", Moves: []string{"Stealth Rock", "Earthquake", "Dragon Tail", "Spikes"}, Item: "rockyhelmet", Ability: "roughskin", Speed: 281, Weight: 0.35},
			{Name: "Scarf", Moves: []string{"Earthquake", "Outrage", "Stone Edge", "U-turn"}, Item: "choicescarf", Ability: "roughskin", Speed: 399, Weight: 0.2},
		},
		"Heatran": {
			{Name: "Specially Defensive", Moves: []string{"Stealth Rock", "Flamethrower", "Toxic", "Protect"}, Item: "leftovers", Ability: "flashfire", Speed: 200, Weight: 0.6},
			{Name: "Offensive", Moves: []string{"Fire Blast", "Earth Power", "Flash Cannon", "Protect"}, Item: "airballoon", Ability: "flashfire", Speed: 253, Weight: 0.4},
		},
		"Rotom-Wash": {
			{Name: "Defensive Pivot", Moves: []string{"Volt Switch", "Hydro Pump", "Will-O-Wisp", "Protect"}, Item: "leftovers", Ability: "levitate", Speed: 208, Weight: 0.7},
			{Name: "Scarf", Moves: []string{"Volt Switch", "Hydro Pump", "Thunderbolt", "Dark Pulse"}, Item: "choicescarf", Ability: "levitate", Speed: 312, Weight: 0.3},
		},
		"Dragonite": {
			{Name: "Dragon Dance", Moves: []string{"Dragon Dance", "Outrage", "Earthquake", "Extreme Speed"}, Item: "heavydutyboots", Ability: "multiscale", Speed: 259, Weight: 0.7},
			{Name: "Bulky", Moves: []string{"Dragon Tail", "Earthquake", "Roost", "Ice Spinner"}, Item: "leftovers", Ability: "multiscale", Speed: 196, Weight: 0.3},
		},
		"Corviknight": {
			{Name: "Defog", Moves: []string{"Defog", "Brave Bird", "Roost", "U-turn"}, Item: "leftovers", Ability: "pressure", Speed: 170, Weight: 0.8},
			{Name: "Bulk Up", Moves: []string{"Bulk Up", "Brave Bird", "Body Press", "Roost"}, Item: "leftovers", Ability: "pressure", Speed: 170, Weight: 0.2},
		},
		"Azumarill": {
			{Name: "Belly Drum", Moves: []string{"Liquidation", "Play Rough", "Aqua Jet", "Knock Off"}, Item: "sitrusberry", Ability: "hugepower", Speed: 138, Weight: 0.6},
			{Name: "Assault Vest", Moves: []string{"Liquidation", "Play Rough", "Aqua Jet", "Ice Spinner"}, Item: "assaultvest", Ability: "hugepower", Speed: 158, Weight: 0.4},
		},
		"Gholdengo": {
			{Name: "Nasty Plot", Moves: []string{"Nasty Plot", "Shadow Ball", "Flash Cannon", "Recover"}, Item: "airballoon", Ability: "goodasgold", Speed: 274, Weight: 0.65},
			{Name: "Scarf", Moves: []string{"Shadow Ball", "Flash Cannon", "Focus Blast", "Psychic"}, Item: "choicescarf", Ability: "goodasgold", Speed: 411, Weight: 0.35},
		},
		"Great Tusk": {
			{Name: "Rapid Spin", Moves: []string{"Rapid Spin", "Earthquake", "Close Combat", "Knock Off"}, Item: "heavydutyboots", Ability: "protosynthesis", Speed: 295, Weight: 0.75},
			{Name: "Bulk Up", Moves: []string{"Bulk Up", "Earthquake", "Ice Spinner", "Rapid Spin"}, Item: "leftovers", Ability: "protosynthesis", Speed: 259, Weight: 0.25},
		},
	})
}
