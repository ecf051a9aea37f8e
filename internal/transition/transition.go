// Package transition gates status changes on the dependency graph.
//
// A task may only move past Pending once its dependency is Done, and a Done
// task may not be retracted while work that depends on it has started.
package transition

import (
	"errors"
	"fmt"

	"planline/internal/models"
)

// ErrNotFound is wrapped by rejections for unknown task ids
var ErrNotFound = errors.New("task not found")

// Rejection explains why a status change was refused. Reason is meant to
// be shown to the user as-is.
type Rejection struct {
	TaskID string
	Status string
	Reason string
	err    error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("cannot set '%s' to %s: %s", r.TaskID, r.Status, r.Reason)
}

func (r *Rejection) Unwrap() error {
	return r.err
}

func reject(id, status, reason string) *Rejection {
	return &Rejection{TaskID: id, Status: status, Reason: reason}
}

// Check reports whether task id may move to status. It returns nil when the
// change is allowed and a *Rejection otherwise.
func Check(tasks []models.Task, id, status string) error {
	task, ok := models.Find(tasks, id)
	if !ok {
		r := reject(id, status, "task not found")
		r.err = ErrNotFound
		return r
	}

	// No advancing while the dependency is unfinished. A dependency id that
	// is not in the list counts as unfinished.
	if dep := task.DependencyID(); dep != "" && status != models.StatusPending && models.ValidStatus(status) {
		parent, found := models.Find(tasks, dep)
		if !found || !parent.IsDone() {
			return reject(id, status, fmt.Sprintf(
				"it depends on '%s', which is not %s yet", dep, models.StatusLabel(models.StatusDone)))
		}
	}

	// A finished task stays finished once successors have started.
	if task.IsDone() && status != models.StatusDone {
		for i := range tasks {
			other := &tasks[i]
			if other.ID != id && other.DependencyID() == id && other.IsStarted() {
				return reject(id, status, fmt.Sprintf(
					"'%s' depends on it and is already %s", other.ID, other.StatusString()))
			}
		}
	}

	if !models.ValidStatus(status) {
		return reject(id, status, fmt.Sprintf("unknown status '%s' (must be one of: pending, in_progress, done, delayed)", status))
	}
	return nil
}

// Apply validates and performs a status change on a copy of tasks. On
// success the copy is returned. On failure tasks is returned unchanged along
// with the rejection.
//
// Marking a task Delayed while its deviation is 0 sets the deviation to +1,
// so a delayed task always shows at least one day of slip.
func Apply(tasks []models.Task, id, status string) ([]models.Task, error) {
	if err := Check(tasks, id, status); err != nil {
		return tasks, err
	}

	match := -1
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if match >= 0 {
			return tasks, reject(id, status, "task id is duplicated")
		}
		match = i
	}

	out := models.Clone(tasks)
	t := &out[match]
	t.Status = status
	if status == models.StatusDelayed && t.Deviation == 0 {
		t.Deviation = 1
	}
	return out, nil
}

// Allowed returns the statuses Check would accept for task id, in display order
func Allowed(tasks []models.Task, id string) []string {
	var out []string
	for _, s := range models.Statuses {
		if Check(tasks, id, s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// Blocked reports whether the task's dependency keeps it from advancing
func Blocked(tasks []models.Task, id string) bool {
	task, ok := models.Find(tasks, id)
	if !ok || !task.HasDependency() {
		return false
	}
	parent, found := models.Find(tasks, task.DependencyID())
	return !found || !parent.IsDone()
}
