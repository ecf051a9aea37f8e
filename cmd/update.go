package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/models"
	"planline/internal/output"
	"planline/internal/schedule"
)

var (
	updateName       string
	updatePhase      string
	updateDuration   int
	updateDeviation  int
	updateDependency string
	updateStatus     string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Long: `Edit one task. Every change is recorded in 'pln history'.

Durations are business days. --deviation is the signed slip (+) or gain (-)
against the base duration; the effective duration never drops below 1 day.
Changing either moves every task that depends on this one, directly or not.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateName, "name", "", "New name")
	updateCmd.Flags().StringVar(&updatePhase, "phase", "", "New phase")
	updateCmd.Flags().IntVarP(&updateDuration, "duration", "d", 0, "New base duration (business days, >= 1)")
	updateCmd.Flags().IntVar(&updateDeviation, "deviation", 0, "New deviation (signed business days)")
	updateCmd.Flags().StringVar(&updateDependency, "after", "", "New dependency id (\"\" clears it)")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "New status (pending, in_progress, done, delayed)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	task, ok := p.find(args[0])
	if !ok {
		return fmt.Errorf("cannot update task: task '%s' not found (use 'pln list' to see available tasks)", args[0])
	}
	before := *task
	flags := cmd.Flags()

	// validate everything before writing anything
	if flags.Changed("name") && strings.TrimSpace(updateName) == "" {
		return fmt.Errorf("cannot update task '%s': name cannot be empty", task.ID)
	}
	if flags.Changed("duration") && updateDuration < 1 {
		return fmt.Errorf("invalid duration %d for task '%s': must be at least 1 business day", updateDuration, task.ID)
	}
	if flags.Changed("after") {
		if err := schedule.CheckDependency(p.Tasks, task.ID, updateDependency); err != nil {
			return fmt.Errorf("cannot update task '%s': %w", task.ID, err)
		}
	}

	if flags.Changed("name") {
		task.Name = strings.TrimSpace(updateName)
	}
	if flags.Changed("phase") {
		task.Phase = strings.TrimSpace(updatePhase)
	}
	if flags.Changed("duration") {
		task.BaseDuration = updateDuration
	}
	if flags.Changed("deviation") {
		task.Deviation = updateDeviation
	}
	if flags.Changed("after") {
		task.Dependency = strings.TrimSpace(updateDependency)
	}

	tasks := p.Tasks
	if flags.Changed("status") {
		status, ok := models.ParseStatus(updateStatus)
		if !ok {
			status = updateStatus
		}
		if tasks, err = transitionTasks(p.Tasks, task.ID, status); err != nil {
			return err
		}
		task, _ = models.Find(tasks, before.ID)
	}

	if *task == before {
		return fmt.Errorf("nothing to update for task '%s' (see 'pln update --help')", task.ID)
	}
	if err := saveTask(before, *task); err != nil {
		return err
	}

	p.Tasks = tasks
	return reportTask(p, task.ID, "Updated")
}

// saveTask writes one edited task and records a history entry per changed field
func saveTask(before, after models.Task) error {
	return db.SaveTask(before, after, changedBy)
}

// reportTask prints the task with its recomputed dates
func reportTask(p *plan, id, verb string) error {
	views, r := p.views()
	var view output.TaskView
	for _, v := range views {
		if v.ID == id {
			view = v
			break
		}
	}

	if IsJSONOutput() {
		out := map[string]interface{}{"success": true, "task": view}
		if end, ok := r.ProjectEnd(); ok {
			out["project_end"] = end.Format(models.DateFormat)
		}
		OutputJSON(out)
		return nil
	}
	fmt.Printf("%s: %s - %s [%s] %s\n", verb, view.ID, view.Name, models.StatusLabel(view.Status), datesOf(view))
	if end, ok := r.ProjectEnd(); ok {
		fmt.Printf("Project end: %s\n", end.Format(models.DateFormat))
	}
	return nil
}
