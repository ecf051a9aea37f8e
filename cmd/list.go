package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planline/internal/models"
	"planline/internal/output"
)

var (
	listStatus  string
	listPhase   string
	listBlocked bool
	listCustom  bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status")
	listCmd.Flags().StringVarP(&listPhase, "phase", "p", "", "Filter by phase (case-insensitive)")
	listCmd.Flags().BoolVar(&listBlocked, "blocked", false, "Only tasks waiting on an unfinished dependency")
	listCmd.Flags().BoolVar(&listCustom, "custom", false, "Only tasks added outside the template")
}

func runList(cmd *cobra.Command, args []string) error {
	status := ""
	if listStatus != "" {
		s, ok := models.ParseStatus(listStatus)
		if !ok {
			return fmt.Errorf("invalid status '%s': must be one of: %s", listStatus, strings.Join(models.Statuses, ", "))
		}
		status = s
	}

	p, err := loadPlan()
	if err != nil {
		return err
	}
	all, _ := p.views()

	var views []output.TaskView
	for _, v := range all {
		if status != "" && v.Status != status {
			continue
		}
		if listPhase != "" && !strings.EqualFold(v.Phase, listPhase) {
			continue
		}
		if listBlocked && !v.Blocked {
			continue
		}
		if listCustom && !v.Custom {
			continue
		}
		views = append(views, v)
	}

	f := output.New(IsJSONOutput())
	if !IsJSONOutput() && len(views) == 0 {
		fmt.Println("No tasks found")
		return nil
	}
	f.TaskList(views, "")
	return nil
}
