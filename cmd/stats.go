package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/calendar"
	"planline/internal/db"
	"planline/internal/models"
	"planline/internal/output"
	"planline/internal/schedule"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show project statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

type phaseStats struct {
	Phase string `json:"phase"`
	Total int    `json:"total"`
	Done  int    `json:"done"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	// status counts in a single query
	type statusCount struct {
		Status string
		Count  int64
	}
	var statusCounts []statusCount
	db.GetDB().Model(&models.Task{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts)

	byStatus := make(map[string]int64, len(models.Statuses))
	for _, s := range models.Statuses {
		byStatus[s] = 0
	}
	var total int64
	for _, sc := range statusCounts {
		total += sc.Count
		byStatus[sc.Status] = sc.Count
	}

	p, err := loadPlan()
	if err != nil {
		return err
	}
	r := p.schedule()

	slip, blocked := 0, 0
	for i := range p.Tasks {
		t := &p.Tasks[i]
		slip += t.EffectiveDuration() - t.BaseDuration
	}
	for _, v := range output.Views(p.Tasks, r) {
		if v.Blocked && v.Status != models.StatusDone {
			blocked++
		}
	}

	phases := phaseBreakdown(p.Tasks, r)

	stats := map[string]interface{}{
		"total":         total,
		"by_status":     byStatus,
		"blocked":       blocked,
		"slip_days":     slip,
		"kickoff_date":  calendar.Format(p.Project.Kickoff),
		"skip_weekends": p.Project.SkipWeekends,
		"phases":        phases,
		"unscheduled":   len(r.Unresolved),
	}
	end, hasEnd := r.ProjectEnd()
	if hasEnd {
		stats["project_end"] = calendar.Format(end)
	}

	if IsJSONOutput() {
		OutputJSON(stats)
		return nil
	}

	fmt.Printf("Total tasks: %d\n\n", total)
	fmt.Println("By status:")
	for _, s := range models.Statuses {
		fmt.Printf("  %-12s %d\n", models.StatusLabel(s)+":", byStatus[s])
	}
	fmt.Printf("\nBlocked:     %d\n", blocked)
	fmt.Printf("Slip:        %+d business days\n", slip)
	fmt.Printf("Kickoff:     %s\n", calendar.Format(p.Project.Kickoff))
	if hasEnd {
		cal := calendar.New(p.Project.SkipWeekends)
		days := cal.BusinessDaysBetween(cal.NextBusinessDay(p.Project.Kickoff), end) + 1
		fmt.Printf("Project end: %s (%d business days)\n", calendar.Format(end), days)
	}
	if len(r.Unresolved) > 0 {
		fmt.Printf("Unscheduled: %d (see 'pln schedule')\n", len(r.Unresolved))
	}

	fmt.Println("\nBy phase:")
	for _, ps := range phases {
		span := ""
		if ps.Start != "" {
			span = fmt.Sprintf("  %s → %s", ps.Start, ps.End)
		}
		fmt.Printf("  %-24s %d/%d done%s\n", ps.Phase, ps.Done, ps.Total, span)
	}
	return nil
}

func phaseBreakdown(tasks []models.Task, r *schedule.Result) []phaseStats {
	var out []phaseStats
	index := make(map[string]int)
	for i := range tasks {
		t := &tasks[i]
		j, ok := index[t.Phase]
		if !ok {
			j = len(out)
			index[t.Phase] = j
			out = append(out, phaseStats{Phase: t.Phase})
		}
		ps := &out[j]
		ps.Total++
		if t.IsDone() {
			ps.Done++
		}
		e, ok := r.Get(t.ID)
		if !ok || !e.Resolved() {
			continue
		}
		if start := calendar.Format(*e.Start); ps.Start == "" || start < ps.Start {
			ps.Start = start
		}
		if end := calendar.Format(*e.End); end > ps.End {
			ps.End = end
		}
	}
	return out
}
