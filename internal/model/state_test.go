package model

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StateInvestigate, "INVESTIGATE"},
		{StateChase, "CHASE"},
		{StateAttack, "ATTACK"},
		{StateLowHpAttack, "LOW_HP_ATTACK"},
		{StateSpecial3, "SPECIAL3"},
		{StateDead, "DEAD"},
		{State(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseState(t *testing.T) {
	for s := StateIdle; s <= StateDead; s++ {
		got, ok := ParseState(s.String())
		if !ok || got != s {
			t.Errorf("ParseState(%q) = %v, %v; want %v, true", s.String(), got, ok, s)
		}
	}
	if _, ok := ParseState("chase"); ok {
		t.Error("ParseState should be case-sensitive")
	}
}

func TestStateIsAbility(t *testing.T) {
	if StateChase.IsAbility() || StateAttack.IsAbility() || StateIdle.IsAbility() {
		t.Error("movement/attack states must not be ability states")
	}
	if !StateSpecial2.IsAbility() || !StateDodge.IsAbility() {
		t.Error("special/dodge states must be ability states")
	}
}

func TestParseArchetype(t *testing.T) {
	for _, a := range Archetypes() {
		got, ok := ParseArchetype(a.String())
		if !ok || got != a {
			t.Errorf("ParseArchetype(%q) = %v, %v", a.String(), got, ok)
		}
	}
	if a, ok := ParseArchetype(" Boss_Alien "); !ok || a != ArchetypeBossAlien {
		t.Errorf("ParseArchetype should trim and ignore case, got %v %v", a, ok)
	}
	if _, ok := ParseArchetype("dragon"); ok {
		t.Error("unknown archetype must not parse")
	}
}
