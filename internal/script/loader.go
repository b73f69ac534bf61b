package script

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
)

// Loader compiles hook scripts on first use and caches them by path.
// Relative script paths resolve against dir.
type Loader struct {
	dir string

	mu       sync.Mutex
	programs map[string]*Program
}

// NewLoader creates a loader resolving scripts relative to dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, programs: make(map[string]*Program)}
}

// Hook returns a fresh hook for the tuning's script, or nil when it names none.
// Its signature matches spawn.HookLoader.
func (l *Loader) Hook(archetype model.Archetype, tuning config.Tuning) (ai.DecideHook, error) {
	if tuning.Script == "" {
		return nil, nil
	}
	p, err := l.program(tuning.Script)
	if err != nil {
		return nil, fmt.Errorf("%s decide hook: %w", archetype, err)
	}
	return p.NewHook(), nil
}

// Invalidate drops cached programs so edited scripts are recompiled for new agents.
// Agents already running keep the hook they spawned with.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	clear(l.programs)
	l.mu.Unlock()
}

func (l *Loader) program(name string) (*Program, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.dir, path)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.programs[path]; ok {
		return p, nil
	}
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	l.programs[path] = p
	return p, nil
}
