package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/models"
)

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Move a task back to pending",
	Long: `Move a task back to pending. A done task can only be reopened while no
task depending on it has started.`,
	Args: cobra.ExactArgs(1),
	RunE: runReopen,
}

func init() {
	rootCmd.AddCommand(reopenCmd)
}

func runReopen(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	task, ok := p.find(args[0])
	if !ok {
		return fmt.Errorf("cannot reopen task: task '%s' not found (use 'pln list' to see available tasks)", args[0])
	}
	if task.Status == models.StatusPending {
		return fmt.Errorf("cannot reopen task '%s': task is already pending", task.ID)
	}
	return changeStatus(task.ID, models.StatusPending, "Reopened")
}
