package scheduler

import (
	"context"
	"time"
)

// DefaultWatchInterval matches the 30-second recurring check the task-list
// UI historically ran.
const DefaultWatchInterval = 30 * time.Second

// Watcher invokes the coordinator's tick on an interval until its context
// is cancelled. Ticks run on the watcher's goroutine and never overlap.
type Watcher struct {
	coordinator *Coordinator
	interval    time.Duration
}

// NewWatcher creates a watcher. A non-positive interval falls back to
// DefaultWatchInterval.
func NewWatcher(c *Coordinator, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{coordinator: c, interval: interval}
}

// Run performs an initial tick, then one per interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	log := w.coordinator.logger
	log.Info("recurring watcher started", "interval", w.interval)

	w.tick()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("recurring watcher stopping")
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Watcher) tick() {
	if _, err := w.coordinator.Tick(); err != nil {
		w.coordinator.logger.Error("recurring tick failed", "error", err)
	}
}
