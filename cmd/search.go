package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/models"
	"planline/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tasks by id, name or phase",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := "%" + strings.ToLower(args[0]) + "%"

	var matches []models.Task
	if err := db.GetDB().
		Where("LOWER(id) LIKE ? OR LOWER(name) LIKE ? OR LOWER(phase) LIKE ?", query, query, query).
		Order("position ASC").
		Find(&matches).Error; err != nil {
		return err
	}

	p, err := loadPlan()
	if err != nil {
		return err
	}
	r := p.schedule()
	views := make([]output.TaskView, len(matches))
	for i := range matches {
		views[i] = output.View(p.Tasks, &matches[i], r)
	}

	if !IsJSONOutput() && len(views) == 0 {
		fmt.Println("No matches found")
		return nil
	}
	output.New(IsJSONOutput()).TaskList(views, "")
	return nil
}
