package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/models"
)

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which tasks are out of date on GitHub",
	Long:  `Compare each task's current dates and status with what was last published.`,
	RunE:  runSyncStatus,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	target, err := loadGitHubTarget()
	if err != nil {
		if IsJSONOutput() {
			OutputJSON(map[string]interface{}{"configured": false, "message": "GitHub not configured"})
		} else {
			fmt.Println("GitHub not configured. Run 'pln config github' first.")
		}
		return nil
	}

	p, err := loadPlan()
	if err != nil {
		return err
	}
	views, _ := p.views()

	var links []models.GitHubIssueLink
	database := db.GetDB()
	if err := database.Find(&links).Error; err != nil {
		return fmt.Errorf("failed to load issue links: %w", err)
	}
	linkByTask := make(map[string]models.GitHubIssueLink, len(links))
	for _, l := range links {
		linkByTask[l.TaskID] = l
	}

	var unpublished, stale []string
	for _, v := range views {
		link, ok := linkByTask[v.ID]
		if !ok {
			unpublished = append(unpublished, v.ID)
			continue
		}
		start, end := viewDates(v)
		if !v.Synced || link.IsStale(start, end, v.Status) {
			stale = append(stale, v.ID)
		}
	}

	var recentLinks []models.GitHubIssueLink
	database.Order("last_synced_at DESC").Limit(5).Find(&recentLinks)

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{
			"configured":   true,
			"repository":   target.String(),
			"total_tasks":  len(views),
			"published":    len(links),
			"unpublished":  unpublished,
			"stale":        stale,
			"recent_syncs": recentLinks,
		})
		return nil
	}

	fmt.Printf("GitHub Sync Status\n")
	fmt.Printf("==================\n\n")
	fmt.Printf("Repository: %s\n\n", target)

	fmt.Printf("Tasks:\n")
	fmt.Printf("  Total:       %d\n", len(views))
	fmt.Printf("  Published:   %d\n", len(links))
	fmt.Printf("  Unpublished: %d\n", len(unpublished))
	fmt.Printf("  Stale:       %d (dates or status changed)\n", len(stale))

	if len(recentLinks) > 0 {
		fmt.Printf("\nRecent Syncs:\n")
		for _, link := range recentLinks {
			fmt.Printf("  %s #%d -> %s (%s to %s, %s)\n",
				link.LastSyncedAt.Format(models.DateTimeShortFormat),
				link.IssueNumber,
				link.TaskID,
				link.SyncedStart,
				link.SyncedEnd,
				link.SyncedStatus,
			)
		}
	}

	if n := len(unpublished) + len(stale); n > 0 {
		fmt.Printf("\nTip: Run 'pln sync push' to publish %d task(s) to GitHub.\n", n)
	}
	return nil
}
