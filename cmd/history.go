package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/models"
)

var (
	historyLimit int
	historyField string
)

var historyCmd = &cobra.Command{
	Use:   "history [task-id]",
	Short: "Show change history for a task, or recent changes across the plan",
	Long: `Show recorded edits: status changes, deviations, durations, renames and
dependency moves. Without a task id the most recent changes to any task are
listed.

  pln history t4                   # everything that happened to t4
  pln history --field deviation    # every slip and gain, newest first`,
	Args: cobra.RangeArgs(0, 1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Maximum entries to show")
	historyCmd.Flags().StringVar(&historyField, "field", "", "Only one field (status, deviation, base_duration, dependency, name, phase)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	query := db.GetDB().Order("changed_at DESC").Limit(historyLimit)

	taskID, title := "", "Recent changes"
	if len(args) > 0 {
		taskID = args[0]
		task, err := db.GetTaskByID(taskID)
		if err != nil {
			return err
		}
		title = fmt.Sprintf("Change history for %s (%s)", task.ID, task.Name)
		query = query.Where("task_id = ?", taskID)
	}
	if historyField != "" {
		query = query.Where("field = ?", historyField)
	}

	var history []models.TaskHistory
	if err := query.Find(&history).Error; err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if IsJSONOutput() {
		out := map[string]interface{}{
			"count":   len(history),
			"history": history,
		}
		if taskID != "" {
			out["task_id"] = taskID
		}
		OutputJSON(out)
		return nil
	}

	if len(history) == 0 {
		if taskID != "" {
			fmt.Printf("No change history for task %s\n", taskID)
		} else {
			fmt.Println("No changes recorded yet")
		}
		return nil
	}

	fmt.Printf("%s:\n\n", title)
	for _, h := range history {
		prefix := fmt.Sprintf("[%s]", h.ChangedAt.Format(models.DateTimeShortFormat))
		if taskID == "" {
			prefix += " " + h.TaskID
		}
		fmt.Printf("%s %s\n", prefix, describeChange(h))
	}
	return nil
}

func describeChange(h models.TaskHistory) string {
	s := ""
	switch {
	case h.Field == "created":
		s = fmt.Sprintf("created as %q", h.NewValue)
	case h.Field == "reset":
		s = fmt.Sprintf("reset to template %s", h.NewValue)
	case h.Field == "status":
		s = fmt.Sprintf("status %s → %s", models.StatusLabel(h.OldValue), models.StatusLabel(h.NewValue))
	case h.OldValue == "":
		s = fmt.Sprintf("%s: set to %q", h.Field, h.NewValue)
	case h.NewValue == "":
		s = fmt.Sprintf("%s: removed %q", h.Field, h.OldValue)
	default:
		s = fmt.Sprintf("%s: %q → %q", h.Field, h.OldValue, h.NewValue)
	}
	if h.ChangedBy != "" {
		s += fmt.Sprintf(" (by %s)", h.ChangedBy)
	}
	return s
}
