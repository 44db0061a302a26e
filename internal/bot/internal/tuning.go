package internal

// Weights tunes the base values and adjustment rules of the position
// evaluator. One global default ships; tests override individual knobs.
type Weights struct {
	// Base values by action identity.
	MoveBase       float64 // flat floor for any damaging move
	MovePowerScale float64 // per point of base power
	StatusMoveBase float64
	SwitchBase     float64

	// Rule magnitudes.
	CapabilityBlock      float64 // capability interaction nullifying a move
	EffectivenessScale   float64 // per point of effectiveness away from 1x
	ImmunePenalty        float64
	HazardCostScale      float64 // per fraction of max HP lost on entry
	HazardSetBonus       float64
	HazardClearBonus     float64
	MomentumBonus        float64
	FirstStrikeBonus     float64 // possible KO while provably acting first
	PriorityRevengeBonus float64
	TeraCommitPenalty    float64
	TeraFlipBonus        float64
	WinConRiskPenalty    float64
	SetupCounterPenalty  float64 // setup into a likely reset/phaze holder
	SetupFreeTurnBonus   float64
	SelfKOPenalty        float64 // severe, not absolute
	RedundantPenalty     float64
}

// DefaultWeights balances immediate damage against position keeping. The
// self-KO penalty is deliberately finite: a self-defeating action stays legal
// but practically unselectable.
var DefaultWeights = Weights{
	MoveBase:       10.0,
	MovePowerScale: 0.15,
	StatusMoveBase: 14.0,
	SwitchBase:     12.0,

	CapabilityBlock:      30.0,
	EffectivenessScale:   12.0,
	ImmunePenalty:        40.0,
	HazardCostScale:      25.0,
	HazardSetBonus:       6.0,
	HazardClearBonus:     5.0,
	MomentumBonus:        4.0,
	FirstStrikeBonus:     22.0,
	PriorityRevengeBonus: 14.0,
	TeraCommitPenalty:    8.0,
	TeraFlipBonus:        18.0,
	WinConRiskPenalty:    16.0,
	SetupCounterPenalty:  15.0,
	SetupFreeTurnBonus:   10.0,
	SelfKOPenalty:        60.0,
	RedundantPenalty:     12.0,
}
