package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/models"
	"planline/internal/transition"
)

var delayBy int

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change a task's status",
	Long: `Move a task to pending, in_progress, done or delayed.

A task cannot leave pending until its dependency is done, and a done task
cannot be moved back while any task depending on it is in progress or done.
Marking a task delayed with no deviation sets its deviation to +1 day.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, ok := models.ParseStatus(args[1])
		if !ok {
			status = args[1]
		}
		return changeStatus(args[0], status, "Updated")
	},
}

var startCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Mark a task in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(args[0], models.StatusInProgress, "Started")
	},
}

var doneCmd = &cobra.Command{
	Use:     "done <id>",
	Aliases: []string{"finish"},
	Short:   "Mark a task done",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(args[0], models.StatusDone, "Done")
	},
}

var delayCmd = &cobra.Command{
	Use:   "delay <id>",
	Short: "Mark a task delayed",
	Long: `Mark a task delayed. With --by the deviation is set to that many business
days first; otherwise a task with no deviation gets +1.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelay,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(delayCmd)
	delayCmd.Flags().IntVar(&delayBy, "by", 0, "Deviation to record, in business days")
}

func runDelay(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("by") {
		return changeStatus(args[0], models.StatusDelayed, "Delayed")
	}

	p, err := loadPlan()
	if err != nil {
		return err
	}
	task, ok := p.find(args[0])
	if !ok {
		return transition.Check(p.Tasks, args[0], models.StatusDelayed)
	}
	before := *task
	tasks, err := transitionTasks(p.Tasks, task.ID, models.StatusDelayed)
	if err != nil {
		return err
	}
	after, _ := models.Find(tasks, task.ID)
	after.Deviation = delayBy
	if err := saveTask(before, *after); err != nil {
		return err
	}
	p.Tasks = tasks
	return reportTask(p, task.ID, "Delayed")
}

// changeStatus validates and persists one status change
func changeStatus(id, status, verb string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	tasks, err := transitionTasks(p.Tasks, id, status)
	if err != nil {
		return err
	}
	before, _ := p.find(id)
	after, _ := models.Find(tasks, id)
	if *before == *after {
		return reportTask(p, id, "Unchanged")
	}
	if err := db.SaveTasks(p.Tasks, tasks, changedBy); err != nil {
		return err
	}
	p.Tasks = tasks
	return reportTask(p, id, verb)
}

// transitionTasks applies a status change, turning a rejection into an
// error that names the command to run next.
func transitionTasks(tasks []models.Task, id, status string) ([]models.Task, error) {
	out, err := transition.Apply(tasks, id, status)
	if err == nil {
		return out, nil
	}
	var rej *transition.Rejection
	if errors.As(err, &rej) {
		switch {
		case errors.Is(err, transition.ErrNotFound):
			return tasks, fmt.Errorf("%w (use 'pln list' to see available tasks)", err)
		case !models.ValidStatus(status):
			return tasks, err
		}
		return tasks, fmt.Errorf("%w (see 'pln show %s')", err, id)
	}
	return tasks, err
}
