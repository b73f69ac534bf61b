// Package script runs designer-written tengo decide hooks.
//
// A hook script sees the agent snapshot as the immutable map `agent`, a per-agent
// map `memory` that survives between ticks, and overrides the decision by
// assigning a state name to `state`:
//
//	if agent.in_sight && agent.distance < 4 && agent.ready.dodge {
//	    state = "DODGE"
//	}
package script

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/udisondev/nightfall/internal/ai"
)

const (
	// DefaultTimeout bounds a single hook run.
	DefaultTimeout = 5 * time.Millisecond
	// DefaultMaxAllocs bounds objects allocated by a single hook run.
	DefaultMaxAllocs = 10000
)

// Modules importable from hook scripts. No os or file access.
var allowedModules = []string{"math", "text", "rand", "fmt", "enum"}

// Program is a compiled hook script. Each agent gets its own DecideHook clone.
type Program struct {
	name     string
	compiled *tengo.Compiled
	timeout  time.Duration
}

// Compile compiles src. name is used in errors.
func Compile(name string, src []byte) (*Program, error) {
	s := tengo.NewScript(src)
	_ = s.Add("agent", &tengo.ImmutableMap{Value: map[string]tengo.Object{}})
	_ = s.Add("memory", &tengo.Map{Value: map[string]tengo.Object{}})
	_ = s.Add("state", "")
	s.SetImports(stdlib.GetModuleMap(allowedModules...))
	s.SetMaxAllocs(DefaultMaxAllocs)

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling script %s: %w", name, err)
	}
	return &Program{name: name, compiled: compiled, timeout: DefaultTimeout}, nil
}

// Load reads and compiles the script at path.
func Load(path string) (*Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return Compile(path, src)
}

// Name returns the script name given to Compile.
func (p *Program) Name() string {
	return p.name
}

// NewHook returns a hook with its own globals and memory.
func (p *Program) NewHook() *DecideHook {
	return &DecideHook{
		name:     p.name,
		compiled: p.compiled.Clone(),
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
		timeout:  p.timeout,
	}
}

// DecideHook adapts one compiled script clone to ai.DecideHook.
// Not safe for concurrent use; every agent owns one.
type DecideHook struct {
	name     string
	compiled *tengo.Compiled
	memory   *tengo.Map
	timeout  time.Duration
}

// Decide runs the script against v and returns the assigned state, or "" to keep the decision.
func (h *DecideHook) Decide(v ai.View) (string, error) {
	if err := h.compiled.Set("agent", viewObject(v)); err != nil {
		return "", fmt.Errorf("script %s: setting agent: %w", h.name, err)
	}
	if err := h.compiled.Set("memory", h.memory); err != nil {
		return "", fmt.Errorf("script %s: setting memory: %w", h.name, err)
	}
	if err := h.compiled.Set("state", ""); err != nil {
		return "", fmt.Errorf("script %s: resetting state: %w", h.name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.compiled.RunContext(ctx); err != nil {
		return "", fmt.Errorf("running script %s: %w", h.name, err)
	}

	return strings.TrimSpace(objectString(h.compiled.Get("state").Object())), nil
}

func viewObject(v ai.View) *tengo.ImmutableMap {
	ready := make(map[string]tengo.Object, len(v.Ready))
	for name, ok := range v.Ready {
		ready[name] = boolObject(ok)
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"id":              &tengo.Int{Value: int64(v.ID)},
		"archetype":       &tengo.String{Value: v.Archetype},
		"state":           &tengo.String{Value: v.State},
		"phase":           &tengo.Int{Value: int64(v.Phase)},
		"distance":        &tengo.Float{Value: v.Distance},
		"in_sight":        boolObject(v.InSight),
		"in_attack_range": boolObject(v.InAttackRange),
		"sound_detected":  boolObject(v.SoundDetected),
		"health":          &tengo.Float{Value: v.Health},
		"max_health":      &tengo.Float{Value: v.MaxHealth},
		"busy":            boolObject(v.Busy),
		"ready":           &tengo.ImmutableMap{Value: ready},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectString(obj tengo.Object) string {
	switch v := obj.(type) {
	case nil, *tengo.Undefined:
		return ""
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
