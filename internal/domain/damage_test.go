package domain

import "testing"

func attacker() *Unit {
	return &Unit{
		Species: "Garchomp",
		Level:   100,
		Types:   []Type{Dragon, Ground},
		Stats:   Stats{HP: 357, Atk: 359, Def: 226, SpA: 176, SpD: 207, Spe: 281},
		HP:      357, MaxHP: 357,
	}
}

func defender() *Unit {
	return &Unit{
		Species: "Heatran",
		Level:   100,
		Types:   []Type{Fire, Steel},
		Stats:   Stats{HP: 386, Atk: 194, Def: 248, SpA: 296, SpD: 248, Spe: 253},
		HP:      386, MaxHP: 386,
	}
}

func TestCalcDamage_Effectiveness(t *testing.T) {
	atk, def := attacker(), defender()
	eq, _ := MoveByName("Earthquake")
	claw, _ := MoveByName("Dragon Claw")

	quake := CalcDamage(atk, def, eq, Field{}, SideConditions{})
	dragon := CalcDamage(atk, def, claw, Field{}, SideConditions{})

	// Earthquake is 4x effective with STAB against Heatran; it must dwarf the
	// resisted Dragon Claw.
	if quake.Min <= dragon.Max {
		t.Errorf("Earthquake range %+v should exceed Dragon Claw range %+v", quake, dragon)
	}
	if quake.Min > quake.Max {
		t.Errorf("min roll %d above max roll %d", quake.Min, quake.Max)
	}
}

func TestCalcDamage_Immunity(t *testing.T) {
	atk := attacker()
	def := defender()
	def.Types = []Type{Flying}

	eq, _ := MoveByName("Earthquake")
	if got := CalcDamage(atk, def, eq, Field{}, SideConditions{}); got.Max != 0 {
		t.Errorf("Ground move into Flying should deal nothing, got %+v", got)
	}
}

func TestCalcDamage_BurnHalvesPhysical(t *testing.T) {
	atk, def := attacker(), defender()
	eq, _ := MoveByName("Earthquake")

	healthy := CalcDamage(atk, def, eq, Field{}, SideConditions{})
	atk.Status = StatusBurn
	burned := CalcDamage(atk, def, eq, Field{}, SideConditions{})

	if burned.Max >= healthy.Max {
		t.Errorf("burned physical damage %+v should be below healthy %+v", burned, healthy)
	}
}

func TestCalcDamage_ScreensAndWeather(t *testing.T) {
	atk, def := attacker(), defender()
	eq, _ := MoveByName("Earthquake")

	open := CalcDamage(atk, def, eq, Field{}, SideConditions{})
	behindReflect := CalcDamage(atk, def, eq, Field{}, SideConditions{Reflect: true})
	if behindReflect.Max >= open.Max {
		t.Errorf("Reflect should halve physical damage: %+v vs %+v", behindReflect, open)
	}

	fb, _ := MoveByName("Fire Blast")
	neutralSun := CalcDamage(def, atk, fb, Field{Weather: WeatherSun}, SideConditions{})
	neutral := CalcDamage(def, atk, fb, Field{}, SideConditions{})
	if neutralSun.Max <= neutral.Max {
		t.Errorf("sun should boost Fire damage: %+v vs %+v", neutralSun, neutral)
	}
}

func TestCalcDamage_TeraStab(t *testing.T) {
	atk, def := attacker(), defender()
	claw, _ := MoveByName("Dragon Claw")

	plain := CalcDamage(atk, def, claw, Field{}, SideConditions{})

	// Tera into the move's own type stacks with base STAB.
	atk.Terastallized = true
	atk.TeraType = Dragon
	tera := CalcDamage(atk, def, claw, Field{}, SideConditions{})

	if tera.Max <= plain.Max {
		t.Errorf("tera STAB %+v should exceed plain STAB %+v", tera, plain)
	}
}

func TestGuaranteedKO(t *testing.T) {
	def := defender()
	def.HP = 40
	r := DamageRange{Min: 45, Max: 60}
	if !r.GuaranteedKO(def) {
		t.Error("min roll above remaining HP must be a guaranteed KO")
	}
	def.HP = 50
	if r.GuaranteedKO(def) {
		t.Error("KO is not guaranteed when the min roll falls short")
	}
	if !r.PossibleKO(def) {
		t.Error("max roll above remaining HP is a possible KO")
	}
}
