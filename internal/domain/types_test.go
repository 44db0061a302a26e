package domain

import "testing"

func TestEffectiveness(t *testing.T) {
	tests := []struct {
		name      string
		attacking Type
		defending []Type
		want      float64
	}{
		{name: "neutral", attacking: Normal, defending: []Type{Fighting}, want: 1},
		{name: "super effective", attacking: Water, defending: []Type{Fire}, want: 2},
		{name: "double super effective", attacking: Ice, defending: []Type{Ground, Flying}, want: 4},
		{name: "resisted", attacking: Fire, defending: []Type{Water}, want: 0.5},
		{name: "immune", attacking: Ground, defending: []Type{Flying}, want: 0},
		{name: "immunity beats weakness", attacking: Ground, defending: []Type{Flying, Fire}, want: 0},
		{name: "empty typing is neutral", attacking: Dragon, defending: nil, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Effectiveness(tt.attacking, tt.defending); got != tt.want {
				t.Errorf("Effectiveness(%v, %v) = %v, want %v", tt.attacking, tt.defending, got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if got, ok := ParseType("fairy"); !ok || got != Fairy {
		t.Errorf("ParseType(fairy) = %v, %v", got, ok)
	}
	if _, ok := ParseType("shadow"); ok {
		t.Error("ParseType(shadow) should not resolve")
	}
}

func TestBoostMultiplier(t *testing.T) {
	if got := BoostMultiplier(2); got != 2.0 {
		t.Errorf("+2 stage = %v, want 2.0", got)
	}
	if got := BoostMultiplier(-2); got != 0.5 {
		t.Errorf("-2 stage = %v, want 0.5", got)
	}
	if got := BoostMultiplier(9); got != 4.0 {
		t.Errorf("stages clamp at +6, got %v", got)
	}
}
