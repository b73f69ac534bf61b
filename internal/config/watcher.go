package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/udisondev/nightfall/internal/model"
)

// DefaultDebounce coalesces editor write bursts into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads archetype tuning when the config file (or a decide script next to it) changes.
// Readers on other goroutines see the latest table via Get/Table.
type Watcher struct {
	path     string
	table    atomic.Pointer[TuningTable]
	reloads  atomic.Int64
	onReload func(Simulator)
	Debounce time.Duration
}

// NewWatcher creates a watcher for the config file at path, starting from initial.
func NewWatcher(path string, initial TuningTable) *Watcher {
	w := &Watcher{
		path:     path,
		Debounce: DefaultDebounce,
	}
	w.table.Store(&initial)
	return w
}

// OnReload registers a callback invoked after every successful reload.
// Must be set before Run.
func (w *Watcher) OnReload(fn func(Simulator)) {
	w.onReload = fn
}

// Table returns the current tuning table.
func (w *Watcher) Table() TuningTable {
	return *w.table.Load()
}

// Get returns the current tuning of an archetype.
func (w *Watcher) Get(a model.Archetype) Tuning {
	return w.Table().Get(a)
}

// Reloads returns number of successful reloads.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Reload reads the config file now and publishes its tuning table.
// On error the previous table stays in effect.
func (w *Watcher) Reload() error {
	cfg, err := LoadSimulator(w.path)
	if err != nil {
		return fmt.Errorf("reloading tuning: %w", err)
	}
	table := cfg.TuningTable()
	w.table.Store(&table)
	w.reloads.Add(1)

	if w.onReload != nil {
		w.onReload(cfg)
	}
	return nil
}

// Run watches the config directory until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fs watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	slog.Info("config watcher started", "path", w.path)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("config watcher stopping")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			if err := w.Reload(); err != nil {
				slog.Warn("config reload failed", "err", err)
				continue
			}
			slog.Info("archetype tuning reloaded", "path", w.path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watcher error", "err", err)
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	if filepath.Clean(name) == filepath.Clean(w.path) {
		return true
	}
	return isScriptFile(name)
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
