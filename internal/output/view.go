package output

import (
	"planline/internal/calendar"
	"planline/internal/models"
	"planline/internal/schedule"
	"planline/internal/transition"
)

// TaskView is a task joined with its computed schedule
type TaskView struct {
	models.Task
	EffectiveDuration int    `json:"effective_duration"`
	Start             string `json:"start,omitempty"`
	End               string `json:"end,omitempty"`
	Blocked           bool   `json:"blocked"`
}

// Views joins every task with its schedule entry and blocked state
func Views(tasks []models.Task, result *schedule.Result) []TaskView {
	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = View(tasks, &tasks[i], result)
	}
	return views
}

// View joins one task with its schedule entry
func View(all []models.Task, t *models.Task, result *schedule.Result) TaskView {
	v := TaskView{
		Task:              *t,
		EffectiveDuration: t.EffectiveDuration(),
		Blocked:           transition.Blocked(all, t.ID),
	}
	if result != nil {
		if e, ok := result.Get(t.ID); ok && e.Resolved() {
			v.Start = calendar.Format(*e.Start)
			v.End = calendar.Format(*e.End)
		}
	}
	return v
}
