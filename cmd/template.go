package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/models"
	"planline/internal/state"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tmpl"},
	Short:   "Browse and apply plan templates",
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List built-in templates",
	RunE:    runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Switch the project to another template, keeping progress",
	Long: `Replace the task list with the named template.

Tasks whose id exists in both keep their status, deviation and base
duration. Tasks that only exist in the project are kept at the end as custom
tasks. Everything else starts from the template defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateApply,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateApplyCmd)
}

func lookupTemplate(name string) (*models.Template, error) {
	tmpl, ok := models.LookupTemplate(name)
	if !ok {
		return nil, fmt.Errorf("template '%s' not found. Use 'pln template list' to see available templates", name)
	}
	return tmpl, nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	var templates []*models.Template
	for _, name := range models.TemplateNames() {
		t, _ := models.LookupTemplate(name)
		templates = append(templates, t)
	}

	if IsJSONOutput() {
		OutputJSON(templates)
		return nil
	}

	fmt.Println("Templates:")
	for _, t := range templates {
		marker := " "
		if t.Name == models.DefaultTemplate {
			marker = "*"
		}
		fmt.Printf(" %s %-12s %-30s %d tasks, %d phases\n", marker, t.Name, t.Title, len(t.Tasks), len(t.Phases()))
	}
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	tmpl, err := lookupTemplate(args[0])
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		OutputJSON(tmpl)
		return nil
	}

	fmt.Printf("Template: %s (%s)\n", tmpl.Name, tmpl.Title)
	if tmpl.Description != "" {
		fmt.Printf("  %s\n", tmpl.Description)
	}
	fmt.Printf("Root task: %s\n", tmpl.RootID)
	for _, phase := range tmpl.Phases() {
		fmt.Printf("\n%s\n", phase)
		for _, tt := range tmpl.Tasks {
			if tt.Phase != phase {
				continue
			}
			dep := ""
			if tt.Dependency != "" {
				dep = fmt.Sprintf(" (after %s)", tt.Dependency)
			}
			fmt.Printf("  %-6s %-40s %2dd%s\n", tt.ID, tt.Name, tt.Duration, dep)
		}
	}
	return nil
}

func runTemplateApply(cmd *cobra.Command, args []string) error {
	tmpl, err := lookupTemplate(args[0])
	if err != nil {
		return err
	}
	p, err := loadPlan()
	if err != nil {
		return err
	}

	merged, report := state.Merge(tmpl.ToTasks(), savedFromTasks(p.Tasks))
	if err := db.ReplaceTasks(merged); err != nil {
		return err
	}

	p.Project.Template = tmpl.Name
	p.Project.RootID = tmpl.RootID
	if err := db.SaveProject(p.Project); err != nil {
		return err
	}
	p.Tasks = merged
	return reportMerge(p, report, fmt.Sprintf("Applied template '%s'", tmpl.Name))
}

// savedFromTasks wraps live tasks so they can be merged like a saved file
func savedFromTasks(tasks []models.Task) []state.Saved {
	out := make([]state.Saved, len(tasks))
	for i, t := range tasks {
		out[i] = state.Saved{Task: t, ValidDuration: true, ValidStatus: true}
	}
	return out
}

// reportMerge prints what a merge did and where the project now ends
func reportMerge(p *plan, report state.MergeReport, headline string) error {
	r := p.schedule()
	end, hasEnd := r.ProjectEnd()

	if IsJSONOutput() {
		out := map[string]interface{}{
			"success": true,
			"tasks":   len(p.Tasks),
			"carried": report.Carried,
			"added":   report.Added,
			"fresh":   report.Fresh,
		}
		if hasEnd {
			out["project_end"] = end.Format(models.DateFormat)
		}
		OutputJSON(out)
		return nil
	}

	fmt.Printf("%s: %d tasks\n", headline, len(p.Tasks))
	fmt.Printf("  Kept progress: %d\n", len(report.Carried))
	fmt.Printf("  From template: %d\n", len(report.Fresh))
	if len(report.Added) > 0 {
		fmt.Printf("  Custom tasks:  %d %v\n", len(report.Added), report.Added)
	}
	if hasEnd {
		fmt.Printf("Project end: %s\n", end.Format(models.DateFormat))
	}
	return nil
}
