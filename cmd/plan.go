package cmd

import (
	"time"

	"github.com/sirupsen/logrus"

	"planline/internal/db"
	"planline/internal/log"
	"planline/internal/models"
	"planline/internal/output"
	"planline/internal/schedule"
)

// changedBy is recorded in task history
const changedBy = "user"

// plan is the project as loaded for one command
type plan struct {
	Project *db.Project
	Tasks   []models.Task
}

func loadPlan() (*plan, error) {
	project, err := db.LoadProject()
	if err != nil {
		return nil, err
	}
	tasks, err := db.ListTasks()
	if err != nil {
		return nil, err
	}
	return &plan{Project: project, Tasks: tasks}, nil
}

func (p *plan) options() schedule.Options {
	return schedule.Options{
		Kickoff:      p.Project.Kickoff,
		SkipWeekends: p.Project.SkipWeekends,
		RootID:       p.Project.RootID,
	}
}

// schedule recomputes every date from scratch and logs anything that could
// not be placed normally.
func (p *plan) schedule() *schedule.Result {
	return buildSchedule(p.Tasks, p.options())
}

func (p *plan) views() ([]output.TaskView, *schedule.Result) {
	r := p.schedule()
	return output.Views(p.Tasks, r), r
}

func (p *plan) find(id string) (*models.Task, bool) {
	return models.Find(p.Tasks, id)
}

func buildSchedule(tasks []models.Task, opts schedule.Options) *schedule.Result {
	start := time.Now()
	r := schedule.Build(tasks, opts)
	logger := log.GetLogger()
	for _, id := range r.Dangling {
		t, _ := models.Find(tasks, id)
		logger.WithFields(logrus.Fields{"task": id, "dependency": t.DependencyID()}).
			Warn("unknown dependency, scheduling from kickoff")
	}
	if len(r.Unresolved) > 0 {
		logger.WithFields(logrus.Fields{"unresolved": r.Unresolved, "cycle": r.Cycle}).
			Warn("tasks left unscheduled")
	}
	logger.WithFields(logrus.Fields{
		"tasks":   len(tasks),
		"passes":  r.Passes,
		"elapsed": time.Since(start),
	}).Debug("schedule built")
	return r
}
