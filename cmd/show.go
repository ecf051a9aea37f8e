package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/models"
	"planline/internal/output"
	"planline/internal/schedule"
	"planline/internal/transition"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	task, ok := p.find(args[0])
	if !ok {
		return fmt.Errorf("task '%s' not found (use 'pln list' to see available tasks)", args[0])
	}

	r := p.schedule()
	view := output.View(p.Tasks, task, r)
	dependents := schedule.Dependents(p.Tasks, task.ID)
	successors := schedule.Successors(p.Tasks, task.ID)
	allowed := transition.Allowed(p.Tasks, task.ID)

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{
			"task":       view,
			"dependents": dependents,
			"successors": successors,
			"allowed":    allowed,
		})
		return nil
	}

	output.New(false).Task(view)
	if len(dependents) > 0 {
		fmt.Println("\nDependents:")
		for _, id := range dependents {
			d, _ := p.find(id)
			fmt.Printf("  [%s] %s - %s\n", d.ID, models.StatusLabel(d.Status), d.Name)
		}
		if extra := len(successors) - len(dependents); extra > 0 {
			fmt.Printf("  (+%d further down the chain)\n", extra)
		}
	}
	fmt.Println("\nAllowed statuses:")
	for _, s := range models.Statuses {
		mark := " "
		if contains(allowed, s) {
			mark = "✓"
		}
		fmt.Printf("  %s %s\n", mark, s)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
