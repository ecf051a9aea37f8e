package models

import (
	"time"
)

// GitHubIssueLink tracks the mapping between plan tasks and GitHub issues
type GitHubIssueLink struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TaskID        string    `gorm:"size:30;uniqueIndex;not null" json:"task_id"`
	IssueNumber   int       `gorm:"not null;index" json:"issue_number"`
	IssueURL      string    `gorm:"size:500" json:"issue_url"`
	Repository    string    `gorm:"size:200;not null;index" json:"repository"` // owner/repo format
	LastSyncedAt  time.Time `json:"last_synced_at"`
	SyncedStart   string    `gorm:"size:10" json:"synced_start,omitempty"` // schedule dates at last push
	SyncedEnd     string    `gorm:"size:10" json:"synced_end,omitempty"`
	SyncedStatus  string    `gorm:"size:20" json:"synced_status,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GitHubIssueLink
func (GitHubIssueLink) TableName() string {
	return "github_issue_links"
}

// IsStale reports whether the published dates or status differ from the given ones
func (l *GitHubIssueLink) IsStale(start, end, status string) bool {
	return l.SyncedStart != start || l.SyncedEnd != end || l.SyncedStatus != status
}
