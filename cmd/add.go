package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/idgen"
	"planline/internal/models"
	"planline/internal/output"
	"planline/internal/schedule"
)

var (
	addID       string
	addPhase    string
	addAfter    string
	addDuration int
)

var addCmd = &cobra.Command{
	Use:   "add \"name\"",
	Short: "Add a custom task to the plan",
	Long: `Append a task that is not part of the template. Custom tasks survive
template revisions: 'pln template apply' and 'pln import' keep them.

Without --id a random id like "task-a1b2c3d4" is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addID, "id", "", "Task id (letters, digits, . _ -)")
	addCmd.Flags().StringVarP(&addPhase, "phase", "p", "", "Phase (default: the dependency's phase)")
	addCmd.Flags().StringVarP(&addAfter, "after", "a", "", "Id of the task this one depends on")
	addCmd.Flags().IntVarP(&addDuration, "duration", "d", 1, "Base duration in business days")
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if addDuration < 1 {
		return fmt.Errorf("invalid duration %d: must be at least 1 business day", addDuration)
	}

	p, err := loadPlan()
	if err != nil {
		return err
	}

	id := strings.TrimSpace(addID)
	if id == "" {
		if id, err = idgen.GenerateWithPrefix(idgen.TaskPrefix); err != nil {
			return fmt.Errorf("failed to generate task id: %w", err)
		}
	}
	if !models.ValidateTaskID(id) {
		return fmt.Errorf("invalid task id '%s': use up to 30 letters, digits, '.', '_' or '-'", id)
	}
	if _, exists := p.find(id); exists {
		return fmt.Errorf("task '%s' already exists (use 'pln update %s' to change it)", id, id)
	}

	position, err := db.NextPosition()
	if err != nil {
		return err
	}
	task := models.Task{
		ID:           id,
		Position:     position,
		Phase:        strings.TrimSpace(addPhase),
		Name:         name,
		BaseDuration: addDuration,
		Status:       models.StatusPending,
		Custom:       true,
	}

	if dep := strings.TrimSpace(addAfter); dep != "" {
		candidate := append(models.Clone(p.Tasks), task)
		if err := schedule.CheckDependency(candidate, id, dep); err != nil {
			return fmt.Errorf("cannot add task '%s': %w", id, err)
		}
		task.Dependency = dep
		if task.Phase == "" {
			parent, _ := p.find(dep)
			task.Phase = parent.Phase
		}
	}
	if task.Phase == "" {
		task.Phase = "Custom"
	}

	if err := db.GetDB().Create(&task).Error; err != nil {
		return fmt.Errorf("failed to create task '%s': database error: %w", id, err)
	}
	models.RecordChange(db.GetDB(), id, "created", "", name, changedBy)

	p.Tasks = append(p.Tasks, task)
	views, _ := p.views()
	view := views[len(views)-1]

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{"success": true, "task": view})
	} else {
		fmt.Printf("Added: %s - %s (%s)\n", view.ID, view.Name, datesOf(view))
	}
	return nil
}

func datesOf(v output.TaskView) string {
	if v.Start == "" {
		return "unscheduled"
	}
	return v.Start + " → " + v.End
}
