package bot

import (
	"testing"

	"battlebrain/internal/domain"
)

func TestForcedGuaranteedKOFirst(t *testing.T) {
	ally := fixtureUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := fixtureUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 200)
	snap := fixtureSnapshot(ally, foe)

	result, ok := DetectForcedLine(snap, nil, domain.LegalActions(snap), DefaultTuning)
	if !ok {
		t.Fatal("guaranteed first-strike KO did not fire")
	}
	if result.Check != ForcedGuaranteedKO {
		t.Errorf("fired %q, want %q", result.Check, ForcedGuaranteedKO)
	}
	if result.Confidence < DefaultTuning.Threshold(result.Check) {
		t.Errorf("confidence %.2f below its own acceptance threshold", result.Confidence)
	}
	if result.Action.Move.Name != "Earthquake" {
		t.Errorf("forced action = %s, want Earthquake", result.Action.Label())
	}
}

func TestForcedThresholdDisablesCheck(t *testing.T) {
	ally := fixtureUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := fixtureUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 200)
	snap := fixtureSnapshot(ally, foe)

	cfg := DefaultTuning
	cfg.ForcedThresholds = map[string]float64{ForcedGuaranteedKO: 0.99}
	if _, ok := DetectForcedLine(snap, nil, domain.LegalActions(snap), cfg); ok {
		t.Fatal("check fired despite a threshold above its confidence")
	}
}

func TestForcedNoFireOnSlowerAttacker(t *testing.T) {
	ally := fixtureUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 150)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := fixtureUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 200)
	snap := fixtureSnapshot(ally, foe)

	if result, ok := DetectForcedLine(snap, nil, domain.LegalActions(snap), DefaultTuning); ok && result.Check == ForcedGuaranteedKO {
		t.Fatal("guaranteed KO fired without a turn-order proof")
	}
}

func TestForcedResistantEscape(t *testing.T) {
	ally := fixtureUnit("Hydreigon", []domain.Type{domain.Dark, domain.Dragon}, 90, 200)
	ally.Moves = []domain.Move{mustMove(t, "Dark Pulse")}
	foe := fixtureUnit("Dragonite", []domain.Type{domain.Dragon, domain.Flying}, 380, 260)
	foe.Moves = []domain.Move{mustMove(t, "Outrage")}
	snap := fixtureSnapshot(ally, foe)
	// Fairy is immune to the revealed Dragon threat.
	snap.Ally.Reserves = []*domain.Unit{
		fixtureUnit("Azumarill", []domain.Type{domain.Water, domain.Fairy}, 340, 130),
	}

	result, ok := DetectForcedLine(snap, nil, domain.LegalActions(snap), DefaultTuning)
	if !ok {
		t.Fatal("resistant escape did not fire")
	}
	if result.Check != ForcedResistantEscape {
		t.Fatalf("fired %q, want %q", result.Check, ForcedResistantEscape)
	}
	if target := domain.SwitchTarget(snap, result.Action); target == nil || target.Species != "Azumarill" {
		t.Errorf("escape action = %s, want switch to Azumarill", result.Action.Label())
	}
}

func TestForcedBoostReset(t *testing.T) {
	ally := fixtureUnit("Quagsire", []domain.Type{domain.Water, domain.Ground}, 360, 120)
	ally.Moves = []domain.Move{mustMove(t, "Haze"), mustMove(t, "Earthquake")}
	foe := fixtureUnit("Dragonite", []domain.Type{domain.Dragon, domain.Flying}, 380, 260)
	foe.Boosts.Atk = 2
	snap := fixtureSnapshot(ally, foe)

	result, ok := DetectForcedLine(snap, nil, domain.LegalActions(snap), DefaultTuning)
	if !ok {
		t.Fatal("boost reset did not fire")
	}
	if result.Check != ForcedBoostReset {
		t.Fatalf("fired %q, want %q", result.Check, ForcedBoostReset)
	}
	if result.Action.Move.Name != "Haze" {
		t.Errorf("reset action = %s, want Haze", result.Action.Label())
	}
}

func TestForcedResidualWin(t *testing.T) {
	ally := fixtureUnit("Toxapex", []domain.Type{domain.Poison, domain.Water}, 300, 100)
	ally.Moves = []domain.Move{mustMove(t, "Protect")}
	foe := fixtureUnit("Volcarona", []domain.Type{domain.Bug, domain.Fire}, 40, 313)
	foe.Status = domain.StatusPoison // 1/8 of 320 max per turn
	foe.MaxHP = 320
	snap := fixtureSnapshot(ally, foe)

	result, ok := DetectForcedLine(snap, nil, domain.LegalActions(snap), DefaultTuning)
	if !ok {
		t.Fatal("residual win did not fire")
	}
	if result.Check != ForcedResidualWin {
		t.Fatalf("fired %q, want %q", result.Check, ForcedResidualWin)
	}
	if !result.Action.Move.Flags.Protect {
		t.Errorf("stall action = %s, want Protect", result.Action.Label())
	}
}
