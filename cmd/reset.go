package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/models"
)

var (
	resetYes      bool
	resetTemplate string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all progress and restore the template defaults",
	Long: `Replace every task with the template's defaults: all pending, no
deviation, template durations. Custom tasks are removed. Kickoff and calendar
settings are kept.

Requires --yes.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Confirm the reset")
	resetCmd.Flags().StringVarP(&resetTemplate, "template", "t", "", "Reset to another template")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		return fmt.Errorf("reset discards all progress. Re-run with --yes to confirm (or 'pln export -o backup.json' first)")
	}
	project, err := db.LoadProject()
	if err != nil {
		return err
	}
	name := project.Template
	if resetTemplate != "" {
		name = resetTemplate
	}
	tmpl, err := lookupTemplate(name)
	if err != nil {
		return err
	}

	tasks := tmpl.ToTasks()
	if err := db.ReplaceTasks(tasks); err != nil {
		return err
	}
	project.Template = tmpl.Name
	project.RootID = tmpl.RootID
	if err := db.SaveProject(project); err != nil {
		return err
	}
	for i := range tasks {
		models.RecordChange(db.GetDB(), tasks[i].ID, "reset", "", tmpl.Name, changedBy)
	}

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{"success": true, "template": tmpl.Name, "tasks": len(tasks)})
		return nil
	}
	fmt.Printf("Reset to template '%s': %d tasks, all pending\n", tmpl.Name, len(tasks))
	return nil
}
