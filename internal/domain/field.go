package domain

// Weather identifies the active field-wide weather.
type Weather int32

const (
	WeatherNone Weather = iota
	WeatherSun
	WeatherRain
	WeatherSand
	WeatherSnow
)

// Terrain identifies the active field-wide terrain.
type Terrain int32

const (
	TerrainNone Terrain = iota
	TerrainElectric
	TerrainGrassy
	TerrainPsychic
	TerrainMisty
)

// Field holds conditions that affect both sides.
type Field struct {
	Weather   Weather `json:"weather,omitempty"`
	Terrain   Terrain `json:"terrain,omitempty"`
	TrickRoom bool    `json:"trick_room,omitempty"`
}

// SideConditions holds entry hazards and side-wide effects for one side.
type SideConditions struct {
	StealthRock bool `json:"stealth_rock,omitempty"`
	Spikes      int  `json:"spikes,omitempty"`       // 0..3 layers
	ToxicSpikes int  `json:"toxic_spikes,omitempty"` // 0..2 layers
	StickyWeb   bool `json:"sticky_web,omitempty"`
	Reflect     bool `json:"reflect,omitempty"`
	LightScreen bool `json:"light_screen,omitempty"`
	Tailwind    bool `json:"tailwind,omitempty"`
}

// HasHazards reports whether any entry hazard is laid on this side.
func (s SideConditions) HasHazards() bool {
	return s.StealthRock || s.Spikes > 0 || s.ToxicSpikes > 0 || s.StickyWeb
}

// spikesFractions maps Spikes layers to entry damage as a fraction of max HP.
var spikesFractions = [4]float64{0, 1.0 / 8.0, 1.0 / 6.0, 1.0 / 4.0}

// EntryDamage returns the HP a unit loses by switching in on this side's
// hazards. Stealth Rock scales with the unit's Rock weakness; Spikes only hit
// grounded units.
func EntryDamage(u *Unit, side SideConditions) int {
	if u == nil || u.MaxHP <= 0 {
		return 0
	}
	total := 0.0
	if side.StealthRock {
		total += (1.0 / 8.0) * Effectiveness(Rock, u.EffectiveTypes())
	}
	if side.Spikes > 0 && u.Grounded() {
		total += spikesFractions[min(side.Spikes, 3)]
	}
	return int(float64(u.MaxHP) * total)
}
