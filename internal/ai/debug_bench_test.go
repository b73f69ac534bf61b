package ai

import (
	"io"
	"log/slog"
	"testing"

	"github.com/udisondev/nightfall/internal/model"
)

func benchmarkStep(b *testing.B, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})))
	EnableDebugLogging(debug)
	defer EnableDebugLogging(false)

	h := newHarness(model.V(0, 0, 8))
	for i := range 50 {
		h.spawn(b, model.Archetypes()[i%len(model.Archetypes())], model.V(float64(i%10)-5, 0, float64(i/10)-5))
	}

	b.ResetTimer()
	for range b.N {
		h.mgr.Step(tick)
	}
}

// BenchmarkStep_DebugDisabled measures a tick of 50 mixed agents with debug logs guarded off.
func BenchmarkStep_DebugDisabled(b *testing.B) {
	benchmarkStep(b, false)
}

// BenchmarkStep_DebugEnabled measures the same tick with state-change and tick debug logs on.
func BenchmarkStep_DebugEnabled(b *testing.B) {
	benchmarkStep(b, true)
}

// BenchmarkIsDebugEnabled measures raw performance of IsDebugEnabled() check.
func BenchmarkIsDebugEnabled(b *testing.B) {
	EnableDebugLogging(false)

	b.ResetTimer()
	for range b.N {
		_ = IsDebugEnabled()
	}
}
