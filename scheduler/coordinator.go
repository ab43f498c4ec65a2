// Package scheduler drives recurring-task evaluation: a coordinator that,
// once per tick, re-creates due task instances from their templates, and a
// watcher that invokes the coordinator on an interval.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmpratt/taskcycle/recur"
	"github.com/jmpratt/taskcycle/store"
)

// Deps carries the coordinator's collaborators. Store is required; Clock
// defaults to SystemClock, Logger to slog.Default, and a nil Enabled gate
// means always enabled.
type Deps struct {
	Store   store.Store
	Clock   Clock
	Logger  *slog.Logger
	Enabled func() bool
}

// Coordinator evaluates recurring templates against the predicate engine
// and performs task activation. Ticks are synchronous and must be
// serialized by the host; each template's activation decision is
// independent, so a restarted tick safely re-evaluates from scratch.
type Coordinator struct {
	store   store.Store
	clock   Clock
	logger  *slog.Logger
	enabled func() bool
}

// New creates a coordinator from its dependencies.
func New(deps Deps) (*Coordinator, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Coordinator{
		store:   deps.Store,
		clock:   deps.Clock,
		logger:  deps.Logger,
		enabled: deps.Enabled,
	}, nil
}

// Tick evaluates every recurring template once and activates those whose
// recurrence fires at the current instant. It returns the number of task
// instances created. A template with corrupt settings is skipped for the
// tick and logged, never allowed to halt evaluation of the rest.
func (c *Coordinator) Tick() (int, error) {
	if c.enabled != nil && !c.enabled() {
		return 0, nil
	}

	templates, err := c.store.RecurringTemplates()
	if err != nil {
		return 0, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	tasks, err := c.store.Tasks()
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	live := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		live[t.ID] = true
	}

	now := c.clock.Now()
	activated := 0

	for _, tmpl := range templates {
		if !c.shouldRecreate(tmpl, live, now) {
			continue
		}

		instance := taskFromTemplate(tmpl, now)
		if err := c.store.AddTask(instance); err != nil {
			c.logger.Error("failed to re-create recurring task",
				"task_id", tmpl.ID, "error", err)
			continue
		}
		if err := c.store.MarkActivated(tmpl.ID, now); err != nil {
			c.logger.Error("failed to record activation",
				"task_id", tmpl.ID, "error", err)
			continue
		}

		c.logger.Info("re-created recurring task",
			"task_id", tmpl.ID, "text", tmpl.Text)
		activated++
	}

	return activated, nil
}

// shouldRecreate decides whether one template fires at this instant. It
// recovers from panics caused by corrupt per-task data so a single bad
// template cannot take down the tick.
func (c *Coordinator) shouldRecreate(tmpl store.Template, live map[string]bool, now time.Time) (fire bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("skipping recurring template with corrupt settings",
				"task_id", tmpl.ID, "panic", r)
			fire = false
		}
	}()

	// Already live?
	if live[tmpl.ID] {
		return false
	}

	// Suppressed?
	if !tmpl.SuppressUntil.IsZero() && tmpl.SuppressUntil.After(now) {
		return false
	}

	settings := recur.NormalizeAt(tmpl.Settings, now)

	// Bounded templates stop once their activation count is spent.
	if !settings.Indefinitely && tmpl.TriggerCount >= settings.Count {
		return false
	}

	// Triggered for this period already? The predicate stays true for the
	// whole matching day when no clock time is set, so dedup granularity
	// follows the settings: exact minute for timed and hourly tasks,
	// calendar day otherwise.
	if !tmpl.LastTriggered.IsZero() && samePeriod(settings, tmpl.LastTriggered, now) {
		return false
	}

	return recur.ShouldFireNow(settings, now)
}

func samePeriod(s recur.Settings, last, now time.Time) bool {
	sameDay := last.Year() == now.Year() &&
		last.Month() == now.Month() &&
		last.Day() == now.Day()

	if s.Time.IsPresent() || s.Frequency == recur.Hourly {
		return sameDay &&
			last.Hour() == now.Hour() &&
			last.Minute() == now.Minute()
	}
	return sameDay
}

func taskFromTemplate(tmpl store.Template, now time.Time) store.Task {
	return store.Task{
		ID:               tmpl.ID,
		Text:             tmpl.Text,
		Completed:        false,
		Recurring:        true,
		Settings:         tmpl.Settings,
		HighPriority:     tmpl.HighPriority,
		RemindersEnabled: tmpl.RemindersEnabled,
		DueDate:          tmpl.DueDate,
		CreatedAt:        now,
	}
}

// HandleCycleReset removes live recurring instances after a cycle completes
// while leaving their templates in place, so the next matching tick
// re-creates them fresh.
func (c *Coordinator) HandleCycleReset() error {
	tasks, err := c.store.Tasks()
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	removed := 0
	for _, t := range tasks {
		if !t.Recurring {
			continue
		}
		if err := c.store.RemoveTask(t.ID); err != nil {
			c.logger.Error("failed to remove recurring task on reset",
				"task_id", t.ID, "error", err)
			continue
		}
		removed++
	}

	c.logger.Info("cycle reset handled", "recurring_removed", removed)
	return nil
}

// ActivateRecurring marks a task recurring and registers its template. A
// task that has never been configured gets the supplied defaults; a task
// re-activated later keeps its previous settings. The updated task is
// returned for the host to persist.
func (c *Coordinator) ActivateRecurring(task store.Task, defaults recur.Settings) (store.Task, error) {
	settings := task.Settings
	if settings.Frequency == "" {
		settings = defaults
	}
	settings = recur.NormalizeAt(settings, c.clock.Now())

	task.Recurring = true
	task.Settings = settings

	tmpl := store.Template{
		ID:               task.ID,
		Text:             task.Text,
		Settings:         settings,
		HighPriority:     task.HighPriority,
		RemindersEnabled: task.RemindersEnabled,
		DueDate:          task.DueDate,
	}
	if err := c.store.SetTemplate(tmpl); err != nil {
		return task, fmt.Errorf("failed to store recurring template: %w", err)
	}

	c.logger.Info("task set to recurring",
		"task_id", task.ID, "frequency", settings.Frequency)
	return task, nil
}

// DeactivateRecurring removes the task's template. The task instance keeps
// its settings so a later re-activation restores them.
func (c *Coordinator) DeactivateRecurring(taskID string) error {
	if err := c.store.RemoveTemplate(taskID); err != nil {
		return fmt.Errorf("failed to remove recurring template: %w", err)
	}
	c.logger.Info("task recurring turned off", "task_id", taskID)
	return nil
}

// ApplySettings is the settings-form save path: it normalizes the new
// settings and writes them through to the task's template, creating one if
// needed.
func (c *Coordinator) ApplySettings(taskID string, settings recur.Settings) error {
	settings = recur.NormalizeAt(settings, c.clock.Now())

	tmpl, err := c.store.Template(taskID)
	if err != nil {
		// No template yet: seed one from the live task.
		tasks, lerr := c.store.Tasks()
		if lerr != nil {
			return fmt.Errorf("failed to list tasks: %w", lerr)
		}
		found := false
		for _, t := range tasks {
			if t.ID == taskID {
				tmpl = store.Template{
					ID:               t.ID,
					Text:             t.Text,
					HighPriority:     t.HighPriority,
					RemindersEnabled: t.RemindersEnabled,
					DueDate:          t.DueDate,
				}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("task %q: %w", taskID, store.ErrNotFound)
		}
	}

	tmpl.Settings = settings
	if err := c.store.SetTemplate(tmpl); err != nil {
		return fmt.Errorf("failed to store recurring template: %w", err)
	}

	c.logger.Info("recurring settings applied", "task_id", taskID)
	return nil
}
