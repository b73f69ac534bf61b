package ai

import (
	"log/slog"

	"github.com/udisondev/nightfall/internal/model"
)

// View is the read-only agent snapshot handed to decide hooks.
type View struct {
	ID            uint32
	Archetype     string
	State         string
	Phase         int
	Distance      float64
	InSight       bool
	InAttackRange bool
	SoundDetected bool
	Health        float64
	MaxHealth     float64
	Busy          bool
	Ready         map[string]bool
}

// DecideHook may override the state chosen by Decide.
// Returning "" keeps the decision.
type DecideHook interface {
	Decide(v View) (string, error)
}

// View builds the hook snapshot of the agent.
func (a *Agent) View() View {
	ready := make(map[string]bool, len(a.tuning.Cooldowns))
	for name := range a.tuning.Cooldowns {
		ready[name] = a.ready(name)
	}
	return View{
		ID:            a.id,
		Archetype:     a.archetype.String(),
		State:         a.state.String(),
		Phase:         int(a.phase),
		Distance:      a.sense.Distance,
		InSight:       a.sense.InSight,
		InAttackRange: a.sense.InAttackRange,
		SoundDetected: a.sense.SoundDetected,
		Health:        a.health.Current(),
		MaxHealth:     a.health.Max(),
		Busy:          a.busy,
		Ready:         ready,
	}
}

// applyHook validates the hook's answer against the archetype's states, ability cooldowns and the busy lock.
// Invalid answers and hook errors are logged and ignored.
func (a *Agent) applyHook() {
	if a.hook == nil {
		return
	}

	name, err := a.hook.Decide(a.View())
	if err != nil {
		slog.Warn("decide hook failed", "agent", a.id, "archetype", a.archetype, "err", err)
		return
	}
	if name == "" {
		return
	}

	s, ok := model.ParseState(name)
	if !ok || s == model.StateDead || !a.behavior.Allows(s) {
		slog.Warn("decide hook returned invalid state", "agent", a.id, "archetype", a.archetype, "state", name)
		return
	}
	if cd, cooling := a.abilityCooling(s); cooling {
		if IsDebugEnabled() {
			slog.Debug("decide hook refused by cooldown", "agent", a.id, "state", name, "ability", cd)
		}
		return
	}
	if !a.choose(s) && IsDebugEnabled() {
		slog.Debug("decide hook refused by busy lock", "agent", a.id, "state", name)
	}
}

// stateAbilities lists the cooldown names an ability state may be gated on.
var stateAbilities = map[model.State][]string{
	model.StateDodge:    {"dodge"},
	model.StateScream:   {"scream"},
	model.StateSpecial1: {"special1", "special"},
	model.StateSpecial2: {"special2", "special"},
	model.StateSpecial3: {"special3"},
}

// abilityCooling returns the first configured cooldown gating s that is not ready.
func (a *Agent) abilityCooling(s model.State) (string, bool) {
	for _, name := range stateAbilities[s] {
		if _, ok := a.tuning.Cooldowns[name]; ok && !a.ready(name) {
			return name, true
		}
	}
	return "", false
}
