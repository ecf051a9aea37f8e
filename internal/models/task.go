package models

import (
	"regexp"
	"strings"
	"time"
)

// Task status constants
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusDelayed    = "delayed"
)

// Statuses lists every recognised status in display order
var Statuses = []string{StatusPending, StatusInProgress, StatusDone, StatusDelayed}

// Date format constants
const (
	DateFormat          = "2006-01-02"
	DateTimeFormat      = "2006-01-02 15:04:05"
	DateTimeShortFormat = "2006-01-02 15:04"
)

// DefaultRootID is the conventional id of the task anchored to kickoff
const DefaultRootID = "t0"

// Task ids are short slugs: letters, digits, dot, dash and underscore
var taskIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,29}$`)

// ValidateTaskID validates that a task ID has the correct format
func ValidateTaskID(id string) bool {
	return taskIDPattern.MatchString(id)
}

// Task is a schedulable unit of work with at most one dependency
type Task struct {
	ID           string    `gorm:"primaryKey;size:30" json:"id"`
	Position     int       `gorm:"index" json:"position"`
	Phase        string    `gorm:"size:100;index" json:"phase"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Dependency   string    `gorm:"size:30;index" json:"dependency,omitempty"`
	BaseDuration int       `gorm:"not null;default:1" json:"base_duration"`
	Deviation    int       `gorm:"default:0" json:"deviation"`
	Status       string    `gorm:"size:20;default:pending;index" json:"status"`
	Custom       bool      `gorm:"default:false" json:"custom"` // not part of the template
	Synced       bool      `gorm:"default:false;index" json:"synced"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EffectiveDuration is the base duration adjusted by the deviation, never below one day
func (t *Task) EffectiveDuration() int {
	return EffectiveDuration(t.BaseDuration, t.Deviation)
}

// EffectiveDuration returns max(1, base+deviation)
func EffectiveDuration(base, deviation int) int {
	if d := base + deviation; d > 1 {
		return d
	}
	return 1
}

// DependencyID returns the trimmed dependency id, "" when there is none
func (t *Task) DependencyID() string {
	return strings.TrimSpace(t.Dependency)
}

// HasDependency reports whether the task waits on another task
func (t *Task) HasDependency() bool {
	return t.DependencyID() != ""
}

// IsDone returns true if the task is finished
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsStarted returns true if work on the task has begun or finished
func (t *Task) IsStarted() bool {
	return t.Status == StatusInProgress || t.Status == StatusDone
}

// StatusString returns a human-readable status
func (t *Task) StatusString() string {
	return StatusLabel(t.Status)
}

// ValidStatus reports whether s is one of the four recognised statuses
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// StatusLabel returns the display label for a status
func StatusLabel(s string) string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	case StatusDelayed:
		return "Delayed"
	default:
		return "Unknown"
	}
}

// ParseStatus maps user input to a canonical status. It accepts the
// canonical names, display labels and CamelCase names in any case.
func ParseStatus(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "pending", "todo", "open":
		return StatusPending, true
	case "inprogress", "active", "started":
		return StatusInProgress, true
	case "done", "finished", "complete", "completed":
		return StatusDone, true
	case "delayed", "late":
		return StatusDelayed, true
	}
	return "", false
}

// Clone returns a copy of tasks so callers can mutate it freely
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Index maps task ids to their first position in tasks
func Index(tasks []Task) map[string]int {
	idx := make(map[string]int, len(tasks))
	for i := range tasks {
		if _, ok := idx[tasks[i].ID]; !ok {
			idx[tasks[i].ID] = i
		}
	}
	return idx
}

// Find returns the first task with the given id
func Find(tasks []Task, id string) (*Task, bool) {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], true
		}
	}
	return nil, false
}
