package model

import "strings"

// Archetype tags an enemy variant. Each archetype has its own sense/decide/act policy.
type Archetype int32

const (
	ArchetypeEnemy Archetype = iota + 1
	ArchetypeZombie
	ArchetypeNormalZombie
	ArchetypeBlindZombie
	ArchetypeMonsterZombie
	ArchetypeGhost
	ArchetypeBasicGhost
	ArchetypeMediumGhost
	ArchetypeBossGhost
	ArchetypeMonster
	ArchetypeBossAlien
)

var archetypeNames = map[Archetype]string{
	ArchetypeEnemy:         "enemy",
	ArchetypeZombie:        "zombie",
	ArchetypeNormalZombie:  "normal_zombie",
	ArchetypeBlindZombie:   "blind_zombie",
	ArchetypeMonsterZombie: "monster_zombie",
	ArchetypeGhost:         "ghost",
	ArchetypeBasicGhost:    "basic_ghost",
	ArchetypeMediumGhost:   "medium_ghost",
	ArchetypeBossGhost:     "boss_ghost",
	ArchetypeMonster:       "monster",
	ArchetypeBossAlien:     "boss_alien",
}

// String returns the config name of the archetype (snake_case).
func (a Archetype) String() string {
	if name, ok := archetypeNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseArchetype resolves a config name, case-insensitively.
func ParseArchetype(name string) (Archetype, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range archetypeNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

// Archetypes lists every archetype in declaration order.
func Archetypes() []Archetype {
	out := make([]Archetype, 0, len(archetypeNames))
	for a := ArchetypeEnemy; a <= ArchetypeBossAlien; a++ {
		out = append(out, a)
	}
	return out
}

// IsZombie reports zombie-family archetypes (population-capped).
func (a Archetype) IsZombie() bool {
	switch a {
	case ArchetypeZombie, ArchetypeNormalZombie, ArchetypeBlindZombie, ArchetypeMonsterZombie:
		return true
	}
	return false
}

// IsGhost reports ghost-family archetypes.
func (a Archetype) IsGhost() bool {
	switch a {
	case ArchetypeGhost, ArchetypeBasicGhost, ArchetypeMediumGhost, ArchetypeBossGhost:
		return true
	}
	return false
}
