package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v63/github"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"planline/internal/db"
	"planline/internal/log"
	"planline/internal/models"
	"planline/internal/output"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Publish the plan to external systems",
}

var syncPushCmd = &cobra.Command{
	Use:   "push [task-id]",
	Short: "Publish tasks as GitHub Issues",
	Long: `Publish tasks to GitHub Issues with their scheduled dates.

Each task gets one issue whose body carries phase, status, dependency,
duration and the current start/end dates. Issues are created on first push
and edited afterwards. A task is pushed again whenever its dates or status
changed since the last push, so slips that ripple down the plan reach
GitHub too. Done tasks close their issue.

Failed API calls are retried with exponential backoff ([sync] max_retries
and timeout in .planline/config.toml, or PLN_SYNC_RETRIES).`,
	RunE: runSyncPush,
}

var (
	syncPushAll    bool
	syncPushDryRun bool
)

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPushCmd)

	syncPushCmd.Flags().BoolVar(&syncPushAll, "all", false, "Push every task, even ones already up to date")
	syncPushCmd.Flags().BoolVar(&syncPushDryRun, "dry-run", false, "Show what would be pushed without actually pushing")
}

// githubTarget is the configured repository
type githubTarget struct {
	owner, repo, prefix string
}

func loadGitHubTarget() (*githubTarget, error) {
	repo, err := db.GetConfig(models.ConfigGitHubRepo)
	if err != nil || repo == "" {
		return nil, fmt.Errorf("GitHub sync not configured: repository not set (run 'pln config github' to configure)")
	}
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid repository format '%s': expected 'owner/repo' (run 'pln config github' to reconfigure)", repo)
	}
	return &githubTarget{
		owner:  parts[0],
		repo:   parts[1],
		prefix: db.GetConfigOr(models.ConfigGitHubIssuePrefix, models.DefaultGitHubIssuePrefix),
	}, nil
}

func (g *githubTarget) String() string {
	return g.owner + "/" + g.repo
}

// pendingPush pairs a task view with its existing link, if any
type pendingPush struct {
	view output.TaskView
	link *models.GitHubIssueLink
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	target, err := loadGitHubTarget()
	if err != nil {
		return err
	}
	p, err := loadPlan()
	if err != nil {
		return err
	}
	views, _ := p.views()

	var links []models.GitHubIssueLink
	if err := db.GetDB().Find(&links).Error; err != nil {
		return fmt.Errorf("failed to load issue links: %w", err)
	}
	linkByTask := make(map[string]*models.GitHubIssueLink, len(links))
	for i := range links {
		linkByTask[links[i].TaskID] = &links[i]
	}

	var pending []pendingPush
	for _, v := range views {
		if len(args) > 0 && v.ID != args[0] {
			continue
		}
		link := linkByTask[v.ID]
		start, end := viewDates(v)
		if len(args) == 0 && !syncPushAll && link != nil && v.Synced && !link.IsStale(start, end, v.Status) {
			continue
		}
		pending = append(pending, pendingPush{view: v, link: link})
	}
	if len(args) > 0 && len(pending) == 0 {
		return fmt.Errorf("cannot sync task: task '%s' not found (use 'pln list' to see available tasks)", args[0])
	}

	if len(pending) == 0 {
		if IsJSONOutput() {
			OutputJSON(map[string]interface{}{"success": true, "synced": 0, "message": "No tasks to sync"})
		} else {
			fmt.Println("Everything is up to date on GitHub")
		}
		return nil
	}

	if syncPushDryRun {
		if IsJSONOutput() {
			ids := make([]string, len(pending))
			for i, pp := range pending {
				ids[i] = pp.view.ID
			}
			OutputJSON(map[string]interface{}{"dry_run": true, "tasks": ids})
		} else {
			fmt.Printf("Would push %d task(s) to %s:\n", len(pending), target)
			for _, pp := range pending {
				action := "create"
				if pp.link != nil {
					action = fmt.Sprintf("update #%d", pp.link.IssueNumber)
				}
				fmt.Printf("  [%s] %s (%s)\n", pp.view.ID, pp.view.Name, action)
			}
		}
		return nil
	}

	token, err := GetGitHubToken()
	if err != nil {
		return err
	}
	httpClient := &http.Client{
		Timeout: settings.Sync.Timeout.Duration,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	client := github.NewClient(httpClient).WithAuthToken(token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var results []map[string]interface{}
	synced, failed := 0, 0
	for _, pp := range pending {
		result, err := pushTask(ctx, client, target, pp)
		if err != nil {
			failed++
			result = map[string]interface{}{"task_id": pp.view.ID, "error": err.Error()}
			log.GetLogger().WithError(err).WithField("task", pp.view.ID).Warn("sync failed")
			if !IsJSONOutput() {
				fmt.Printf("Error syncing %s: %v\n", pp.view.ID, err)
			}
		} else {
			synced++
			if !IsJSONOutput() {
				fmt.Printf("Synced: %s -> %s (%s)\n", pp.view.ID, result["issue_url"], result["action"])
			}
		}
		results = append(results, result)
	}

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{
			"success": failed == 0,
			"synced":  synced,
			"errors":  failed,
			"results": results,
		})
	} else {
		fmt.Printf("\nSynced %d task(s) to %s\n", synced, target)
		if failed > 0 {
			fmt.Printf("%d task(s) failed to sync\n", failed)
		}
	}
	return nil
}

// withRetry runs op with exponential backoff. Client errors other than rate
// limits are not retried.
func withRetry(ctx context.Context, what string, op func() error) error {
	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		var rateErr *github.RateLimitError
		var abuseErr *github.AbuseRateLimitError
		var respErr *github.ErrorResponse
		switch {
		case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		case errors.As(err, &respErr) && respErr.Response != nil &&
			respErr.Response.StatusCode >= 400 && respErr.Response.StatusCode < 500:
			return backoff.Permanent(err)
		}
		log.GetLogger().WithFields(logrus.Fields{"call": what, "attempt": attempt}).
			WithError(err).Debug("GitHub call failed, retrying")
		return err
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(settings.Sync.MaxRetries))
	return backoff.Retry(wrapped, backoff.WithContext(b, ctx))
}

func pushTask(ctx context.Context, client *github.Client, target *githubTarget, pp pendingPush) (map[string]interface{}, error) {
	database := db.GetDB()
	v := pp.view
	start, end := viewDates(v)
	title := fmt.Sprintf("%s %s: %s", target.prefix, v.ID, v.Name)
	body := buildIssueBody(v)
	state := mapStatusToGitHub(v.Status)
	labels := buildLabels(v)

	var issue *github.Issue
	action := "updated"
	if pp.link != nil {
		req := &github.IssueRequest{Title: &title, Body: &body, State: &state, Labels: &labels}
		err := withRetry(ctx, "issues.edit", func() error {
			var err error
			issue, _, err = client.Issues.Edit(ctx, target.owner, target.repo, pp.link.IssueNumber, req)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update issue #%d: %w", pp.link.IssueNumber, err)
		}
	} else {
		action = "created"
		req := &github.IssueRequest{Title: &title, Body: &body, Labels: &labels}
		err := withRetry(ctx, "issues.create", func() error {
			var err error
			issue, _, err = client.Issues.Create(ctx, target.owner, target.repo, req)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create issue: %w", err)
		}
		if state == "closed" {
			closeReq := &github.IssueRequest{State: &state}
			err := withRetry(ctx, "issues.close", func() error {
				var err error
				issue, _, err = client.Issues.Edit(ctx, target.owner, target.repo, issue.GetNumber(), closeReq)
				return err
			})
			if err != nil {
				return nil, fmt.Errorf("failed to close issue: %w", err)
			}
		}
	}

	link := pp.link
	if link == nil {
		link = &models.GitHubIssueLink{TaskID: v.ID}
	}
	link.IssueNumber = issue.GetNumber()
	link.IssueURL = issue.GetHTMLURL()
	link.Repository = target.String()
	link.LastSyncedAt = time.Now()
	link.SyncedStart = start
	link.SyncedEnd = end
	link.SyncedStatus = v.Status
	if err := database.Save(link).Error; err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}
	if err := database.Model(&models.Task{}).Where("id = ?", v.ID).Update("synced", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark task as synced: %w", err)
	}

	return map[string]interface{}{
		"task_id":      v.ID,
		"issue_number": issue.GetNumber(),
		"issue_url":    issue.GetHTMLURL(),
		"action":       action,
	}, nil
}

// viewDates returns the scheduled dates as strings, empty when unscheduled
func viewDates(v output.TaskView) (start, end string) {
	return v.Start, v.End
}

func buildIssueBody(v output.TaskView) string {
	var sb strings.Builder
	start, end := viewDates(v)
	if start == "" {
		start, end = "(unscheduled)", "(unscheduled)"
	}

	sb.WriteString(fmt.Sprintf("**Task ID:** `%s`\n\n", v.ID))
	sb.WriteString("## Schedule\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("| ----- | ----- |\n")
	sb.WriteString(fmt.Sprintf("| Phase | %s |\n", v.Phase))
	sb.WriteString(fmt.Sprintf("| Status | %s |\n", models.StatusLabel(v.Status)))
	sb.WriteString(fmt.Sprintf("| Start | %s |\n", start))
	sb.WriteString(fmt.Sprintf("| End | %s |\n", end))
	sb.WriteString(fmt.Sprintf("| Duration | %d business days |\n", v.EffectiveDuration))
	if v.Deviation != 0 {
		sb.WriteString(fmt.Sprintf("| Deviation | %+d days |\n", v.Deviation))
	}
	if v.Dependency != "" {
		sb.WriteString(fmt.Sprintf("| After | `%s` |\n", v.Dependency))
	}

	sb.WriteString("\n---\n")
	sb.WriteString("*Published by planline. Dates are recomputed on every push.*")
	return sb.String()
}

func buildLabels(v output.TaskView) []string {
	var labels []string
	if v.Phase != "" {
		labels = append(labels, "phase: "+strings.ToLower(v.Phase))
	}
	switch v.Status {
	case models.StatusDelayed:
		labels = append(labels, "delayed")
	case models.StatusInProgress:
		labels = append(labels, "in progress")
	}
	if v.Blocked {
		labels = append(labels, "blocked")
	}
	return append(labels, "plan")
}

func mapStatusToGitHub(status string) string {
	if status == models.StatusDone {
		return "closed"
	}
	return "open"
}
