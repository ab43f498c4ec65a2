package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmpratt/taskcycle/recur"
	"github.com/jmpratt/taskcycle/store"
	"github.com/jmpratt/taskcycle/store/memory"
)

func TestWatcher_InitialTickActivates(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	mem := memory.New()

	settings := recur.NormalizeAt(recur.Settings{Frequency: recur.Daily}, now)
	require.NoError(t, mem.SetTemplate(store.Template{ID: "task-1", Text: "Stretch", Settings: settings}))

	c := newTestCoordinator(t, mem, now)
	w := NewWatcher(c, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	tasks, err := mem.Tasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestWatcher_DefaultInterval(t *testing.T) {
	c := newTestCoordinator(t, memory.New(), time.Now())

	w := NewWatcher(c, 0)
	assert.Equal(t, DefaultWatchInterval, w.interval)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	c := newTestCoordinator(t, memory.New(), time.Now())
	w := NewWatcher(c, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
