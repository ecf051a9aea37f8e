package cmd

import (
	"github.com/spf13/cobra"

	"planline/internal/calendar"
	"planline/internal/output"
)

var (
	scheduleKickoff  string
	schedulePhase    string
	scheduleWeekends bool
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"sched"},
	Short:   "Show start and end dates for every task",
	Long: `Compute the business-day schedule from scratch.

Each task starts on the first business day after its dependency ends; the
root task and tasks without a dependency start at kickoff. A dependency on an
unknown id is reported and treated as none. Tasks caught in a dependency
cycle are listed as unscheduled.

--kickoff and --include-weekends preview a different calendar without saving
it (use 'pln config project' to change it for good).`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVarP(&scheduleKickoff, "kickoff", "k", "", "Preview with another kickoff date (YYYY-MM-DD)")
	scheduleCmd.Flags().BoolVar(&scheduleWeekends, "include-weekends", false, "Preview with weekends as working days")
	scheduleCmd.Flags().StringVarP(&schedulePhase, "phase", "p", "", "Only show one phase")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	if scheduleKickoff != "" {
		k, err := calendar.Parse(scheduleKickoff)
		if err != nil {
			return err
		}
		p.Project.Kickoff = k
	}
	if cmd.Flags().Changed("include-weekends") {
		p.Project.SkipWeekends = !scheduleWeekends
	}

	views, r := p.views()
	if schedulePhase != "" {
		var filtered []output.TaskView
		for _, v := range views {
			if v.Phase == schedulePhase {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	output.New(IsJSONOutput()).Schedule(views, r)
	return nil
}
