package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/models"
	"planline/internal/output"
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List unfinished tasks whose dependency is done",
	RunE:  runReady,
}

func init() {
	rootCmd.AddCommand(readyCmd)
}

func runReady(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	all, _ := p.views()

	var ready []output.TaskView
	for _, v := range all {
		if v.Status != models.StatusDone && !v.Blocked {
			ready = append(ready, v)
		}
	}

	if IsJSONOutput() {
		output.New(true).TaskList(ready, "")
		return nil
	}
	if len(ready) == 0 {
		fmt.Println("No ready tasks")
		return nil
	}
	output.New(false).TaskList(ready, "Ready tasks")
	return nil
}
