package internal

import (
	"testing"

	"battlebrain/internal/domain"
)

func TestSolveEndgameOneVsOneWin(t *testing.T) {
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := testUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 200)
	snap := testSnapshot(ally, foe)

	v := SolveEndgame(snap, domain.LegalActions(snap), 1)
	if v.Kind != VerdictWin {
		t.Fatalf("faster guaranteed KO should prove a win, got %s (%s)", v.Kind, v.Reason)
	}
	if v.Action.Type != domain.ActionMove || v.Action.Move.Name != "Earthquake" {
		t.Errorf("proving action = %s, want move:Earthquake", v.Action.Label())
	}
}

func TestSolveEndgameNoProofOnShakyAccuracy(t *testing.T) {
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	// Stone Edge can miss; lethality alone is not a proof.
	ally.Moves = []domain.Move{mustMove(t, "Stone Edge")}
	foe := testUnit("Volcarona", []domain.Type{domain.Bug, domain.Fire}, 50, 200)
	snap := testSnapshot(ally, foe)

	if v := SolveEndgame(snap, domain.LegalActions(snap), 1); v.Kind != VerdictUndetermined {
		t.Fatalf("imperfect accuracy produced a %s verdict", v.Kind)
	}
}

func TestSolveEndgameNoProofOnSpeedTie(t *testing.T) {
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 300)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := testUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 300)
	snap := testSnapshot(ally, foe)

	if v := SolveEndgame(snap, domain.LegalActions(snap), 1); v.Kind != VerdictUndetermined {
		t.Fatalf("speed tie produced a %s verdict", v.Kind)
	}
}

func TestSolveEndgameLossMirror(t *testing.T) {
	ally := testUnit("Blissey", []domain.Type{domain.Normal}, 40, 100)
	ally.Moves = []domain.Move{mustMove(t, "Hyper Voice")}
	foe := testUnit("Dragonite", []domain.Type{domain.Dragon, domain.Flying}, 380, 260)
	foe.Moves = []domain.Move{mustMove(t, "Outrage")}
	snap := testSnapshot(ally, foe)

	v := SolveEndgame(snap, domain.LegalActions(snap), 1)
	if v.Kind != VerdictLoss {
		t.Fatalf("foe's faster guaranteed KO should prove a loss, got %s (%s)", v.Kind, v.Reason)
	}
	// Lost positions still return a playable action.
	if v.Action.Type == domain.ActionMove && v.Action.Move.Name == "" {
		t.Error("loss verdict carries no action")
	}
}

func TestSolveEndgameRespectsRevealedImmunity(t *testing.T) {
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := testUnit("Rotom-Heat", []domain.Type{domain.Electric, domain.Fire}, 50, 200)
	foe.Ability, foe.AbilityKnown = "levitate", true
	snap := testSnapshot(ally, foe)

	if v := SolveEndgame(snap, domain.LegalActions(snap), 1); v.Kind == VerdictWin {
		t.Fatal("win proven through a revealed Ground immunity")
	}
}

func TestSolveEndgamePriorityBeatsSpeed(t *testing.T) {
	// Slower attacker, but priority plus lethality still proves the win.
	ally := testUnit("Azumarill", []domain.Type{domain.Water, domain.Fairy}, 340, 130)
	ally.Moves = []domain.Move{mustMove(t, "Aqua Jet")}
	foe := testUnit("Cinderace", []domain.Type{domain.Fire}, 20, 380)
	snap := testSnapshot(ally, foe)

	v := SolveEndgame(snap, domain.LegalActions(snap), 1)
	if v.Kind != VerdictWin {
		t.Fatalf("lethal priority should prove a win, got %s (%s)", v.Kind, v.Reason)
	}
	if v.Action.Move.Name != "Aqua Jet" {
		t.Errorf("proving action = %s, want Aqua Jet", v.Action.Move.Name)
	}
}

func TestSolveEndgameMajorityWin(t *testing.T) {
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := testUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 200)
	snap := testSnapshot(ally, foe)
	snap.Ally.Reserves = []*domain.Unit{testUnit("Rotom-Wash", []domain.Type{domain.Electric, domain.Water}, 300, 240)}

	v := SolveEndgame(snap, domain.LegalActions(snap), 2)
	if v.Kind != VerdictWin {
		t.Fatalf("2v1 with an active-only proof should still be a win, got %s (%s)", v.Kind, v.Reason)
	}
}

func TestSolveEndgameFaintedActiveDefers(t *testing.T) {
	// The active holds a lethal revealed move but has already dropped; only
	// switches are legal this turn, so no move can prove anything.
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	ally.HP = 0
	foe := testUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 200)
	snap := testSnapshot(ally, foe)
	snap.Ally.Reserves = []*domain.Unit{testUnit("Rotom-Wash", []domain.Type{domain.Electric, domain.Water}, 300, 240)}

	v := SolveEndgame(snap, domain.LegalActions(snap), 1)
	if v.Kind != VerdictUndetermined {
		t.Fatalf("forced-switch turn produced a %s verdict (%s)", v.Kind, v.Reason)
	}
}

func TestSolveEndgameFaintedActiveNoLossVersusWalledFoe(t *testing.T) {
	// A 0-HP active makes every foe hit look lethal; that must not read as a
	// loss when the replacement walls the foe's entire revealed kit.
	ally := testUnit("Hydreigon", []domain.Type{domain.Dark, domain.Dragon}, 340, 320)
	ally.HP = 0
	foe := testUnit("Dragonite", []domain.Type{domain.Dragon, domain.Flying}, 380, 260)
	foe.Moves = []domain.Move{mustMove(t, "Outrage"), mustMove(t, "Dragon Claw")}
	snap := testSnapshot(ally, foe)
	snap.Ally.Reserves = []*domain.Unit{testUnit("Azumarill", []domain.Type{domain.Water, domain.Fairy}, 340, 130)}

	v := SolveEndgame(snap, domain.LegalActions(snap), 1)
	if v.Kind == VerdictLoss {
		t.Fatalf("loss called on a forced-switch turn with a Dragon-immune reserve: %s", v.Reason)
	}
	if v.Action.Type == domain.ActionMove && v.Action.Move.Name != "" {
		t.Errorf("recommended an attack for a fainted unit: %s", v.Action.Label())
	}
}

func TestSolveEndgameRespectsChoiceLock(t *testing.T) {
	// Earthquake would end the game, but the choice lock keeps it off the
	// table this turn, and resisted Dragon Claw falls short against Heatran.
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake"), mustMove(t, "Dragon Claw")}
	ally.LockedMove = "Dragon Claw"
	foe := testUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 150, 200)
	snap := testSnapshot(ally, foe)

	v := SolveEndgame(snap, domain.LegalActions(snap), 1)
	if v.Kind != VerdictUndetermined {
		t.Fatalf("choice-locked turn produced a %s verdict via %s", v.Kind, v.Action.Label())
	}
}

func TestSolveEndgameRosterGate(t *testing.T) {
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := testUnit("Heatran", []domain.Type{domain.Fire, domain.Steel}, 60, 200)
	snap := testSnapshot(ally, foe)
	snap.Foe.Reserves = []*domain.Unit{testUnit("Gholdengo", []domain.Type{domain.Steel, domain.Ghost}, 350, 260)}

	if v := SolveEndgame(snap, domain.LegalActions(snap), 1); v.Kind != VerdictUndetermined {
		t.Fatalf("solver ran outside its roster bound, verdict %s", v.Kind)
	}
}
