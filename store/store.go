// Package store defines the task-store collaborator consumed by the
// scheduler: live task instances plus the recurring templates that outlive
// them across cycle resets.
package store

import (
	"errors"
	"time"

	"github.com/jmpratt/taskcycle/recur"
)

// ErrNotFound is returned when a task or template id is unknown.
var ErrNotFound = errors.New("store: not found")

// Task is a live task instance in the active cycle.
type Task struct {
	ID               string         `json:"id"`
	Text             string         `json:"text"`
	Completed        bool           `json:"completed"`
	Recurring        bool           `json:"recurring"`
	Settings         recur.Settings `json:"recurringSettings"`
	HighPriority     bool           `json:"highPriority,omitempty"`
	RemindersEnabled bool           `json:"remindersEnabled,omitempty"`
	DueDate          string         `json:"dueDate,omitempty"`
	CreatedAt        time.Time      `json:"dateCreated"`
}

// Template persists a recurring task's configuration independently of the
// live instance's lifecycle. When a cycle resets the instance is removed but
// the template survives, and the scheduler recreates the instance from it
// the next time the recurrence fires.
type Template struct {
	ID               string         `json:"id"`
	Text             string         `json:"text"`
	Settings         recur.Settings `json:"recurringSettings"`
	HighPriority     bool           `json:"highPriority,omitempty"`
	RemindersEnabled bool           `json:"remindersEnabled,omitempty"`
	DueDate          string         `json:"dueDate,omitempty"`

	// LastTriggered is the instant of the most recent activation; zero
	// means never triggered. TriggerCount counts activations for bounded
	// (non-indefinite) templates.
	LastTriggered time.Time `json:"lastTriggeredTimestamp,omitempty"`
	TriggerCount  int       `json:"triggerCount,omitempty"`

	// SuppressUntil pauses activation until the given instant.
	SuppressUntil time.Time `json:"suppressUntil,omitempty"`
}

// Store is the task-list surface the scheduler works against. Persistence
// mechanics belong to the implementation; the scheduler only reads and
// mutates recurrence-relevant state, always from within a single tick.
type Store interface {
	// Tasks returns the live task instances of the active cycle.
	Tasks() ([]Task, error)

	// AddTask appends a task instance to the active cycle.
	AddTask(task Task) error

	// RemoveTask deletes a live task instance by id.
	RemoveTask(id string) error

	// RecurringTemplates returns all recurring templates.
	RecurringTemplates() ([]Template, error)

	// Template fetches one template by task id.
	Template(id string) (Template, error)

	// SetTemplate creates or replaces a template.
	SetTemplate(tmpl Template) error

	// RemoveTemplate deletes a template; removing an unknown id is not an
	// error.
	RemoveTemplate(id string) error

	// MarkActivated stamps a template's last-trigger instant and bumps its
	// trigger count.
	MarkActivated(id string, at time.Time) error
}
