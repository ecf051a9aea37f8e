package models

import (
	"time"
)

// Config stores key-value configuration for the project
type Config struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Config
func (Config) TableName() string {
	return "config"
}

// Common config keys
const (
	ConfigSchemaVersion = "schema_version"
	ConfigProjectName   = "project_name"
	ConfigInitializedAt = "initialized_at"
	ConfigMode          = "mode"
	ConfigKickoffDate   = "kickoff_date"
	ConfigSkipWeekends  = "skip_weekends"
	ConfigRootTaskID    = "root_task_id"
	ConfigTemplate      = "template"
)

// GitHub config keys
const (
	ConfigGitHubRepo        = "github_repo"
	ConfigGitHubIssuePrefix = "github_issue_prefix"
	ConfigGitHubTokenSet    = "github_token_set"
)

// Keyring entries for the GitHub token
const (
	KeyringServiceName    = "planline"
	KeyringGitHubTokenKey = "github_token"
)

// DefaultGitHubIssuePrefix is prepended to published issue titles
const DefaultGitHubIssuePrefix = "[Plan]"

// Mode constants
const (
	ModeDefault = "default" // Standard mode, .planline is committed
	ModeStealth = "stealth" // Local-only, added to .gitignore
)
