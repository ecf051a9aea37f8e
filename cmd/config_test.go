package cmd

import (
	"testing"
	"time"

	"planline/internal/config"
	"planline/internal/db"
	"planline/internal/models"
)

func TestSetSetting(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		check      func(c config.Config) bool
	}{
		{"log_level", "debug", false, func(c config.Config) bool { return c.LogLevel == "debug" }},
		{"log_level", "chatty", true, nil},
		{"gantt.title", "Launch", false, func(c config.Config) bool { return c.Gantt.Title == "Launch" }},
		{"gantt.axis_format", "%b %d", false, func(c config.Config) bool { return c.Gantt.AxisFormat == "%b %d" }},
		{"sync.max_retries", "5", false, func(c config.Config) bool { return c.Sync.MaxRetries == 5 }},
		{"sync.max_retries", "-1", true, nil},
		{"sync.timeout", "1m", false, func(c config.Config) bool { return c.Sync.Timeout.Duration == time.Minute }},
		{"sync.timeout", "soon", true, nil},
		{"colour", "red", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := config.Default()
			err := setSetting(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setSetting() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("setting not applied: %+v", cfg)
			}
		})
	}
}

func TestConfigSetWritesFile(t *testing.T) {
	setupTestProject(t, chain())

	if err := runConfigSet(configSetCmd, []string{"gantt.title", "Store launch"}); err != nil {
		t.Fatalf("config set: %v", err)
	}
	dir, _ := db.GetDataDir()
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gantt.Title != "Store launch" {
		t.Errorf("title = %q, want %q", cfg.Gantt.Title, "Store launch")
	}
}

func TestConfigProjectRoot(t *testing.T) {
	setupTestProject(t, chain())

	configProjectCmd.Flags().Set("root", "t1")
	defer configProjectCmd.Flags().Set("root", "")
	if err := runConfigProject(configProjectCmd, nil); err != nil {
		t.Fatalf("config project: %v", err)
	}
	project, _ := db.LoadProject()
	if project.RootID != "t1" {
		t.Errorf("root = %q, want t1", project.RootID)
	}

	configProjectCmd.Flags().Set("root", "ghost")
	if err := runConfigProject(configProjectCmd, nil); err == nil {
		t.Error("expected unknown root task to be refused")
	}
}

func TestGitHubTokenFromEnv(t *testing.T) {
	t.Setenv(EnvGitHubToken, "ghp_test")
	token, err := GetGitHubToken()
	if err != nil || token != "ghp_test" {
		t.Errorf("GetGitHubToken() = %q, %v", token, err)
	}
}

func TestLoadGitHubTarget(t *testing.T) {
	setupTestProject(t, chain())

	if _, err := loadGitHubTarget(); err == nil {
		t.Error("expected error without a repository")
	}
	db.SetConfig(models.ConfigGitHubRepo, "acme")
	if _, err := loadGitHubTarget(); err == nil {
		t.Error("expected error for a repository without owner")
	}
	db.SetConfig(models.ConfigGitHubRepo, "acme/store")
	target, err := loadGitHubTarget()
	if err != nil {
		t.Fatal(err)
	}
	if target.String() != "acme/store" || target.prefix != models.DefaultGitHubIssuePrefix {
		t.Errorf("target = %s prefix %q", target, target.prefix)
	}
}

func TestValidRepo(t *testing.T) {
	tests := map[string]bool{
		"acme/store":   true,
		"acme":         false,
		"/store":       false,
		"acme/":        false,
		"acme/store/x": false,
	}
	for repo, want := range tests {
		if got := validRepo(repo); got != want {
			t.Errorf("validRepo(%q) = %v, want %v", repo, got, want)
		}
	}
}

func TestSaveGitHubSettingsRejectsBadRepo(t *testing.T) {
	setupTestProject(t, chain())

	if err := saveGitHubSettings(githubSettings{Repo: "acme"}); err == nil {
		t.Fatal("expected owner/repo validation error")
	}
	if err := saveGitHubSettings(githubSettings{Repo: "acme/store", Prefix: "[Launch]"}); err != nil {
		t.Fatalf("saveGitHubSettings: %v", err)
	}
	if got := db.GetConfigOr(models.ConfigGitHubIssuePrefix, ""); got != "[Launch]" {
		t.Errorf("prefix = %q, want [Launch]", got)
	}
}
