package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/model"
)

func TestWatcher_ReloadPublishesTable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "simulator.yaml", "archetypes:\n  zombie:\n    damage: 42\n")

	w := NewWatcher(path, BuildTuningTable(nil))
	assert.Equal(t, 10.0, w.Get(model.ArchetypeZombie).Damage)

	var called atomic.Bool
	w.OnReload(func(Simulator) { called.Store(true) })

	require.NoError(t, w.Reload())
	assert.Equal(t, 42.0, w.Get(model.ArchetypeZombie).Damage)
	assert.EqualValues(t, 1, w.Reloads())
	assert.True(t, called.Load())
}

func TestWatcher_ReloadErrorKeepsPrevious(t *testing.T) {
	path := writeFile(t, t.TempDir(), "simulator.yaml", "archetypes:\n  zombie:\n    damage: 42\n")
	w := NewWatcher(path, BuildTuningTable(nil))
	require.NoError(t, w.Reload())

	require.NoError(t, os.WriteFile(path, []byte("archetypes: [broken"), 0o644))
	assert.Error(t, w.Reload())
	assert.Equal(t, 42.0, w.Get(model.ArchetypeZombie).Damage)
}

func TestWatcher_RunPicksUpWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping fs watcher test in short mode")
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "simulator.yaml", "max_zombies: 1\n")

	w := NewWatcher(path, BuildTuningTable(nil))
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// unrelated files are ignored
	writeFile(t, dir, "notes.txt", "hello")
	require.NoError(t, os.WriteFile(path, []byte("archetypes:\n  monster:\n    damage: 99\n"), 0o644))

	assert.Eventually(t, func() bool {
		return w.Get(model.ArchetypeMonster).Damage == 99
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after context cancel")
	}
}

func TestWatcher_Relevant(t *testing.T) {
	w := NewWatcher(filepath.Join("cfg", "simulator.yaml"), nil)
	assert.True(t, w.relevant(filepath.Join("cfg", "simulator.yaml")))
	assert.True(t, w.relevant(filepath.Join("cfg", "boss.TENGO")))
	assert.False(t, w.relevant(filepath.Join("cfg", "other.yaml")))
}
