package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"planline/internal/calendar"
	"planline/internal/models"
)

func setupTestDB(t *testing.T) func() {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "pln-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	_, err = InitDB(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to init test DB: %v", err)
	}

	return func() {
		CloseDB()
		os.RemoveAll(tmpDir)
	}
}

func seed(t *testing.T) []models.Task {
	t.Helper()
	tmpl, _ := models.LookupTemplate("web")
	tasks := tmpl.ToTasks()
	if err := ReplaceTasks(tasks); err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	return tasks
}

func TestInitDB(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	if GetDB() == nil {
		t.Fatal("GetDB() returned nil after InitDB")
	}
}

func TestGetTaskByID(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	task := &models.Task{ID: "t0", Name: "Kickoff", BaseDuration: 1, Status: models.StatusPending}
	if err := GetDB().Create(task).Error; err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}

	found, err := GetTaskByID("t0")
	if err != nil {
		t.Fatalf("GetTaskByID() error: %v", err)
	}
	if found.Name != "Kickoff" {
		t.Errorf("GetTaskByID() name = %s, want Kickoff", found.Name)
	}

	_, err = GetTaskByID("nope")
	if err == nil {
		t.Error("GetTaskByID() should error for non-existent task")
	}
}

func TestReplaceAndListTasks(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	want := seed(t)
	got, err := ListTasks()
	if err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("ListTasks() returned %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("task %d = %s, want %s (order must follow position)", i, got[i].ID, want[i].ID)
		}
	}

	// replacing drops the old rows
	if err := ReplaceTasks(want[:2]); err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	got, _ = ListTasks()
	if len(got) != 2 {
		t.Errorf("after replace got %d tasks, want 2", len(got))
	}
}

func TestReplaceTasksDropsStaleLinks(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	tasks := seed(t)
	last := tasks[len(tasks)-1].ID
	GetDB().Create(&models.GitHubIssueLink{TaskID: last, IssueNumber: 1, Repository: "o/r"})
	GetDB().Create(&models.GitHubIssueLink{TaskID: tasks[0].ID, IssueNumber: 2, Repository: "o/r"})

	if err := ReplaceTasks(tasks[:len(tasks)-1]); err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	var count int64
	GetDB().Model(&models.GitHubIssueLink{}).Count(&count)
	if count != 1 {
		t.Errorf("issue links = %d, want 1", count)
	}
}

func TestNextPosition(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	pos, err := NextPosition()
	if err != nil || pos != 0 {
		t.Fatalf("NextPosition() on empty table = %d, %v; want 0", pos, err)
	}
	tasks := seed(t)
	pos, err = NextPosition()
	if err != nil {
		t.Fatalf("NextPosition() error: %v", err)
	}
	if pos != len(tasks) {
		t.Errorf("NextPosition() = %d, want %d", pos, len(tasks))
	}
}

func TestSaveTasksRecordsHistory(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	seed(t)
	before, _ := ListTasks()
	after := models.Clone(before)
	after[0].Status = models.StatusDelayed
	after[0].Deviation = 1

	if err := SaveTasks(before, after, "test"); err != nil {
		t.Fatalf("SaveTasks() error: %v", err)
	}

	got, _ := GetTaskByID(after[0].ID)
	if got.Status != models.StatusDelayed || got.Deviation != 1 {
		t.Errorf("saved task = %s/%d, want delayed/1", got.Status, got.Deviation)
	}

	var history []models.TaskHistory
	GetDB().Where("task_id = ?", after[0].ID).Find(&history)
	if len(history) != 2 {
		t.Errorf("history entries = %d, want 2", len(history))
	}
}

func TestSaveTask(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	seed(t)
	before, _ := GetTaskByID("t2")
	after := *before
	after.Name = "Platform setup"
	after.BaseDuration = 4
	after.Synced = true

	if err := SaveTask(*before, after, "test"); err != nil {
		t.Fatalf("SaveTask() error: %v", err)
	}

	got, _ := GetTaskByID("t2")
	if got.Name != "Platform setup" || got.BaseDuration != 4 {
		t.Errorf("saved task = %q/%d", got.Name, got.BaseDuration)
	}
	if got.Synced {
		t.Error("an edited task should be marked unsynced")
	}

	var fields []string
	GetDB().Model(&models.TaskHistory{}).Where("task_id = ?", "t2").Order("field").Pluck("field", &fields)
	if len(fields) != 2 || fields[0] != "base_duration" || fields[1] != "name" {
		t.Errorf("history fields = %v, want [base_duration name]", fields)
	}
}

func TestSetGetConfig(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	if err := SetConfig("test_key", "test_value"); err != nil {
		t.Fatalf("SetConfig() error: %v", err)
	}
	value, err := GetConfig("test_key")
	if err != nil {
		t.Fatalf("GetConfig() error: %v", err)
	}
	if value != "test_value" {
		t.Errorf("GetConfig() = %s, want test_value", value)
	}

	if err := SetConfig("test_key", "updated_value"); err != nil {
		t.Fatalf("SetConfig() update error: %v", err)
	}
	value, _ = GetConfig("test_key")
	if value != "updated_value" {
		t.Errorf("GetConfig() after update = %s, want updated_value", value)
	}

	if _, err := GetConfig("nonexistent"); err == nil {
		t.Error("GetConfig() should error for non-existent key")
	}
	if got := GetConfigOr("nonexistent", "fallback"); got != "fallback" {
		t.Errorf("GetConfigOr() = %s, want fallback", got)
	}
}

func TestProjectSettings(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	p, err := LoadProject()
	if err != nil {
		t.Fatalf("LoadProject() error: %v", err)
	}
	if !p.SkipWeekends || p.RootID != models.DefaultRootID || p.Template != models.DefaultTemplate {
		t.Errorf("defaults = %+v", p)
	}

	p.Kickoff = calendar.Day(2026, 3, 2)
	p.SkipWeekends = false
	p.RootID = "k0"
	if err := SaveProject(p); err != nil {
		t.Fatalf("SaveProject() error: %v", err)
	}

	got, _ := LoadProject()
	if !got.Kickoff.Equal(p.Kickoff) || got.SkipWeekends || got.RootID != "k0" {
		t.Errorf("LoadProject() = %+v, want %+v", got, p)
	}
}

func TestEnsureInitializedWithoutProject(t *testing.T) {
	CloseDB()
	t.Setenv(EnvDBPath, filepath.Join(t.TempDir(), "missing", DBFileName))

	if err := EnsureInitialized(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("EnsureInitialized() = %v, want ErrNotInitialized", err)
	}
}

func TestCloseDB(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	if err := CloseDB(); err != nil {
		t.Fatalf("CloseDB() error: %v", err)
	}
	if GetDB() != nil {
		t.Error("GetDB() should return nil after CloseDB()")
	}
	if err := CloseDB(); err != nil {
		t.Errorf("CloseDB() second call error: %v", err)
	}
}
