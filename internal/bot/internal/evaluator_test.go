package internal

import (
	"reflect"
	"testing"

	"battlebrain/internal/domain"
)

func mustMove(t *testing.T, name string) domain.Move {
	t.Helper()
	m, ok := domain.MoveByName(name)
	if !ok {
		t.Fatalf("move %q missing from movedex", name)
	}
	return m
}

func testUnit(species string, types []domain.Type, hp int, spe int) *domain.Unit {
	return &domain.Unit{
		Species:  species,
		Level:    100,
		Types:    types,
		Stats:    domain.Stats{HP: hp, Atk: 350, Def: 200, SpA: 350, SpD: 200, Spe: spe},
		HP:       hp,
		MaxHP:    hp,
		TeraType: domain.TypeNone,
	}
}

func testSnapshot(ally, foe *domain.Unit) *domain.Snapshot {
	return &domain.Snapshot{
		Turn: 5,
		Ally: domain.Side{Active: ally},
		Foe:  domain.Side{Active: foe},
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	ally := testUnit("Magnezone", []domain.Type{domain.Electric, domain.Steel}, 300, 200)
	ally.Moves = []domain.Move{
		mustMove(t, "Thunderbolt"),
		mustMove(t, "Flash Cannon"),
		mustMove(t, "Volt Switch"),
	}
	foe := testUnit("Gyarados", []domain.Type{domain.Water, domain.Flying}, 330, 280)
	snap := testSnapshot(ally, foe)

	env := NewEnv(snap, nil, DefaultWeights)
	candidates := domain.LegalActions(snap)

	first := Evaluate(env, candidates)
	second := Evaluate(env, candidates)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different rankings")
	}

	for _, sa := range first {
		sum := sa.Base
		for _, c := range sa.Contribs {
			sum += c.Delta
		}
		if diff := sa.Score - sum; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: score %.4f not reproduced by base %.4f + contributions (%.4f)",
				sa.Action.Label(), sa.Score, sa.Base, sum)
		}
	}
}

func TestEvaluatePrefersEffectiveMoves(t *testing.T) {
	ally := testUnit("Magnezone", []domain.Type{domain.Electric, domain.Steel}, 300, 200)
	tbolt := mustMove(t, "Thunderbolt")
	quake := mustMove(t, "Earthquake")
	ally.Moves = []domain.Move{quake, tbolt}
	foe := testUnit("Gyarados", []domain.Type{domain.Water, domain.Flying}, 330, 280)
	snap := testSnapshot(ally, foe)

	scored := Evaluate(NewEnv(snap, nil, DefaultWeights), domain.LegalActions(snap))
	if len(scored) != 2 {
		t.Fatalf("want 2 scored actions, got %d", len(scored))
	}
	if scored[0].Action.Move.Name != tbolt.Name {
		t.Errorf("4x-effective %s should outrank immune %s, got %s first",
			tbolt.Name, quake.Name, scored[0].Action.Move.Name)
	}

	var quakeTrail []Contribution
	for _, sa := range scored {
		if sa.Action.Move.Name == quake.Name {
			quakeTrail = sa.Contribs
		}
	}
	found := false
	for _, c := range quakeTrail {
		if c.Rule == "effectiveness" {
			found = true
			if c.Delta != -DefaultWeights.ImmunePenalty {
				t.Errorf("immune move penalty = %.1f, want %.1f", c.Delta, -DefaultWeights.ImmunePenalty)
			}
		}
	}
	if !found {
		t.Error("immune move carries no effectiveness contribution")
	}
}

func TestEvaluateHazardAwareSwitching(t *testing.T) {
	ally := testUnit("Blissey", []domain.Type{domain.Normal}, 50, 100)
	ally.Moves = nil // forced out by having nothing usable revealed
	grounded := testUnit("Snorlax", []domain.Type{domain.Normal}, 400, 110)
	flier := testUnit("Skarmory", []domain.Type{domain.Flying, domain.Steel}, 400, 170)

	snap := testSnapshot(ally, testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333))
	snap.Ally.Reserves = []*domain.Unit{grounded, flier}
	snap.Ally.Conditions = domain.SideConditions{StealthRock: true, Spikes: 1}

	scored := Evaluate(NewEnv(snap, nil, DefaultWeights), domain.LegalActions(snap))
	if len(scored) != 2 {
		t.Fatalf("want 2 switch candidates, got %d", len(scored))
	}
	if target := domain.SwitchTarget(snap, scored[0].Action); target != flier {
		t.Errorf("hazard-light switch-in should rank first, got %s", target.Species)
	}
}

func TestEvaluatePenalizesLethalRecoil(t *testing.T) {
	ally := testUnit("Arcanine", []domain.Type{domain.Fire}, 300, 280)
	ally.HP = 10
	blitz := mustMove(t, "Flare Blitz")
	spinner := mustMove(t, "Ice Spinner")
	ally.Moves = []domain.Move{blitz, spinner}
	foe := testUnit("Meganium", []domain.Type{domain.Grass}, 340, 200)
	snap := testSnapshot(ally, foe)

	scored := Evaluate(NewEnv(snap, nil, DefaultWeights), domain.LegalActions(snap))
	for _, sa := range scored {
		if sa.Action.Move.Name != blitz.Name {
			continue
		}
		for _, c := range sa.Contribs {
			if c.Rule == "self_cost" {
				if c.Delta != -DefaultWeights.SelfKOPenalty {
					t.Errorf("lethal recoil delta = %.1f, want %.1f", c.Delta, -DefaultWeights.SelfKOPenalty)
				}
				return
			}
		}
		t.Fatal("lethal recoil move carries no self_cost contribution")
	}
	t.Fatal("recoil move not among scored actions")
}

func TestEvaluateSetupIntoPhazer(t *testing.T) {
	ally := testUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	dance := mustMove(t, "Swords Dance")
	ally.Moves = []domain.Move{dance, mustMove(t, "Earthquake")}
	foe := testUnit("Skarmory", []domain.Type{domain.Flying, domain.Steel}, 330, 170)
	foe.Moves = []domain.Move{mustMove(t, "Whirlwind")}
	snap := testSnapshot(ally, foe)

	scored := Evaluate(NewEnv(snap, nil, DefaultWeights), domain.LegalActions(snap))
	for _, sa := range scored {
		if sa.Action.Move.Name != dance.Name {
			continue
		}
		for _, c := range sa.Contribs {
			if c.Rule == "setup_timing" {
				if c.Delta >= 0 {
					t.Errorf("setup into a revealed phazer scored %+.1f, want negative", c.Delta)
				}
				return
			}
		}
		t.Fatal("setup move in front of a phazer carries no setup_timing contribution")
	}
	t.Fatal("setup move not among scored actions")
}
