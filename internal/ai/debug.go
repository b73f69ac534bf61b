package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/nightfall/internal/model"
)

// debugLoggingEnabled guards per-tick debug logs of the behavior core.
// Checking an atomic is cheaper than building slog attributes for every agent every tick.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables per-tick AI debug logs.
// Called from main after parsing the log level.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("expensive operation", "data", computeExpensiveData())
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}

func logTransition(a *Agent, from, to model.State) {
	if !IsDebugEnabled() {
		return
	}
	slog.Debug("agent state changed",
		"agent", a.id,
		"archetype", a.archetype,
		"from", from,
		"to", to)
}

func logAbility(a *Agent, name string) {
	if !IsDebugEnabled() {
		return
	}
	slog.Debug("agent used ability",
		"agent", a.id,
		"archetype", a.archetype,
		"ability", name)
}
