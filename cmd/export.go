package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"planline/internal/calendar"
	"planline/internal/db"
	"planline/internal/log"
	"planline/internal/state"
)

var (
	exportOut    string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the plan as a portable JSON state file",
	Long: `Write kickoff_date, skip_weekends and every task to a JSON file
(stdout when -o is not given). The file can be read back with 'pln import'.`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a JSON state file into the current template",
	Long: `Read a state file and merge it into the project's template.

Tasks known to the template keep the saved status, deviation and base
duration. Saved tasks the template does not know are appended as custom
tasks. Bad numbers fall back to defaults (deviation 0, duration 1) and unknown
statuses become pending. The file's kickoff_date and skip_weekends replace the
project's when present.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would change without writing")
}

func runExport(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	doc := state.FromTasks(p.Tasks, p.Project.Kickoff, p.Project.SkipWeekends)

	if exportOut == "" {
		data, err := state.Encode(doc)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := state.Save(exportOut, doc); err != nil {
		return err
	}
	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{"success": true, "path": exportOut, "tasks": len(doc.Tasks)})
	} else {
		fmt.Printf("Exported %d tasks to %s\n", len(doc.Tasks), exportOut)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	doc, err := state.Load(args[0])
	if err != nil {
		return fmt.Errorf("cannot import %s: %w", args[0], err)
	}
	p, err := loadPlan()
	if err != nil {
		return err
	}
	tmpl, err := lookupTemplate(p.Project.Template)
	if err != nil {
		return err
	}

	saved, skipped := doc.Records()
	logger := log.GetLogger()
	if skipped > 0 {
		logger.WithField("skipped", skipped).Warn("state file records without an id were ignored")
	}
	for _, s := range saved {
		if !s.ValidStatus || !s.ValidDuration {
			logger.WithField("task", s.Task.ID).Info("state file record had unusable fields, defaults applied")
		}
	}

	merged, report := state.Merge(tmpl.ToTasks(), saved)
	p.Tasks = merged
	p.Project.Kickoff = doc.Kickoff(p.Project.Kickoff)
	if doc.SkipWeekends != nil {
		p.Project.SkipWeekends = doc.Weekends()
	}

	if importDryRun {
		return reportMerge(p, report, "Would import")
	}

	if err := db.ReplaceTasks(merged); err != nil {
		return err
	}
	if err := db.SaveProject(p.Project); err != nil {
		return err
	}
	logger.WithField("kickoff", calendar.Format(p.Project.Kickoff)).Debug("state imported")
	return reportMerge(p, report, fmt.Sprintf("Imported %s", args[0]))
}
