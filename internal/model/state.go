package model

// State is the behavior state of an enemy agent.
type State int32

const (
	// StateIdle - agent stands still or wanders
	StateIdle State = iota
	// StateInvestigate - agent walks to a remembered sound
	StateInvestigate
	// StateChase - agent runs toward its target
	StateChase
	// StateAttack - agent attacks its target at close range
	StateAttack
	// StateDodge - agent sidesteps or blinks away
	StateDodge
	// StateScream - agent screams to draw allies
	StateScream
	// StateLowHpAttack - boss enrage attack below a health threshold
	StateLowHpAttack
	// StateSpecial1 - first archetype special ability
	StateSpecial1
	// StateSpecial2 - second archetype special ability
	StateSpecial2
	// StateSpecial3 - third archetype special ability
	StateSpecial3
	// StateDead - terminal
	StateDead
)

// String returns human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateInvestigate:
		return "INVESTIGATE"
	case StateChase:
		return "CHASE"
	case StateAttack:
		return "ATTACK"
	case StateDodge:
		return "DODGE"
	case StateScream:
		return "SCREAM"
	case StateLowHpAttack:
		return "LOW_HP_ATTACK"
	case StateSpecial1:
		return "SPECIAL1"
	case StateSpecial2:
		return "SPECIAL2"
	case StateSpecial3:
		return "SPECIAL3"
	case StateDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

// ParseState resolves a name produced by String. Matching is exact.
func ParseState(name string) (State, bool) {
	for s := StateIdle; s <= StateDead; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// IsAbility reports whether s is a special-ability state guarded by the busy lock.
// LowHpAttack is an attack variant and, like Attack, may interrupt.
func (s State) IsAbility() bool {
	switch s {
	case StateDodge, StateScream, StateSpecial1, StateSpecial2, StateSpecial3:
		return true
	}
	return false
}

// Phase is a boss health tier. Phases only advance.
type Phase int32

const (
	Phase1 Phase = iota + 1
	Phase2
	Phase3
)

func (p Phase) String() string {
	switch p {
	case Phase1:
		return "PHASE1"
	case Phase2:
		return "PHASE2"
	case Phase3:
		return "PHASE3"
	default:
		return "NONE"
	}
}
