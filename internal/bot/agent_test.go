package bot

import (
	"context"
	"testing"

	"battlebrain/internal/bot/brain"
	"battlebrain/internal/domain"
	"battlebrain/internal/usage"
)

func rotomPopulation() *usage.Population {
	return usage.NewPopulation(map[string][]usage.Set{
		"Rotom-Wash": {
			{
				Name:    "Pivot",
				Moves:   []string{"Hydro Pump", "Volt Switch", "Will-O-Wisp", "Protect"},
				Item:    "leftovers",
				Ability: "levitate",
				Speed:   208,
				Weight:  0.6,
			},
			{
				Name:    "Scarf",
				Moves:   []string{"Volt Switch", "Thunderbolt", "Trick", "Hydro Pump"},
				Item:    "choicescarf",
				Ability: "levitate",
				Speed:   282,
				Weight:  0.4,
			},
		},
	})
}

func TestAgentDerivesEvidenceFromSnapshot(t *testing.T) {
	ally := fixtureUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake"), mustMove(t, "Dragon Claw")}
	foe := fixtureUnit("Rotom-Wash", []domain.Type{domain.Electric, domain.Water}, 304, 208)
	foe.Moves = []domain.Move{mustMove(t, "Will-O-Wisp")} // only the Pivot set knows it
	snap := fixtureSnapshot(ally, foe)

	agent := NewAgent("battle-1", NewEngine(DefaultTuning, quietLogger(), nil), rotomPopulation(), quietLogger())
	if _, _, err := agent.Decide(context.Background(), snap, nil); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	if p := agent.Beliefs().ProbItem("Rotom-Wash", "leftovers"); p < 0.99 {
		t.Errorf("revealed move should pin the Pivot set, P(leftovers) = %.2f", p)
	}
	if p := agent.Beliefs().ProbItem("Rotom-Wash", "choicescarf"); p > 0.01 {
		t.Errorf("eliminated set still carries weight, P(choicescarf) = %.2f", p)
	}
}

func TestAgentRecordsHistory(t *testing.T) {
	ally := fixtureUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	ally.Moves = []domain.Move{mustMove(t, "Earthquake")}
	foe := fixtureUnit("Rotom-Wash", []domain.Type{domain.Electric, domain.Water}, 304, 208)
	snap := fixtureSnapshot(ally, foe)

	agent := NewAgent("battle-1", NewEngine(DefaultTuning, quietLogger(), nil), rotomPopulation(), quietLogger())
	for turn := 1; turn <= 3; turn++ {
		snap.Turn = turn
		if _, _, err := agent.Decide(context.Background(), snap, nil); err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
	}

	history := agent.History()
	if len(history) != 3 {
		t.Fatalf("history holds %d traces, want 3", len(history))
	}
	for i, tr := range history {
		if tr.Turn != i+1 {
			t.Errorf("history[%d].Turn = %d, want %d", i, tr.Turn, i+1)
		}
	}
}

func TestTurnOrderEvidence(t *testing.T) {
	ally := fixtureUnit("Garchomp", []domain.Type{domain.Dragon, domain.Ground}, 380, 333)
	foe := fixtureUnit("Rotom-Wash", []domain.Type{domain.Electric, domain.Water}, 304, 0)
	snap := fixtureSnapshot(ally, foe)

	ev := TurnOrderEvidence(snap, true)
	if ev.Kind != brain.EvidenceSpeedAtLeast {
		t.Errorf("foe acting first should lower-bound its speed, got %s", ev.Kind)
	}
	if ev.Speed != 333 {
		t.Errorf("bound = %d, want ally's effective speed 333", ev.Speed)
	}

	ev = TurnOrderEvidence(snap, false)
	if ev.Kind != brain.EvidenceSpeedAtMost {
		t.Errorf("foe acting second should upper-bound its speed, got %s", ev.Kind)
	}

	// Under Trick Room the observation inverts.
	snap.Field.TrickRoom = true
	if ev := TurnOrderEvidence(snap, true); ev.Kind != brain.EvidenceSpeedAtMost {
		t.Errorf("Trick Room first-mover should upper-bound speed, got %s", ev.Kind)
	}

	// Confirmed modifiers are divided back out to bound the raw stat.
	snap.Field.TrickRoom = false
	foe.Status = domain.StatusParalysis
	if ev := TurnOrderEvidence(snap, true); ev.Speed != 666 {
		t.Errorf("paralysis-adjusted bound = %d, want 666", ev.Speed)
	}
}
