package cmd

import (
	"path/filepath"
	"testing"

	"planline/internal/calendar"
	"planline/internal/db"
	"planline/internal/models"
)

// setupTestProject opens a fresh database in a temp dir and seeds tasks
func setupTestProject(t *testing.T, tasks []models.Task) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.DataDir, db.DBFileName)
	t.Setenv(db.EnvDBPath, dbPath)

	if _, err := db.InitDB(dbPath); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { db.CloseDB() })

	project := &db.Project{
		Name:         "test",
		Kickoff:      calendar.Day(2026, 1, 5),
		SkipWeekends: true,
		RootID:       models.DefaultRootID,
		Template:     "web",
	}
	if err := db.SaveProject(project); err != nil {
		t.Fatalf("failed to save project: %v", err)
	}
	if err := db.ReplaceTasks(tasks); err != nil {
		t.Fatalf("failed to seed tasks: %v", err)
	}
}

// chain returns t0 <- t1 <- t2, all pending
func chain() []models.Task {
	return []models.Task{
		{ID: "t0", Position: 0, Phase: "Kickoff", Name: "Kickoff", BaseDuration: 1, Status: models.StatusPending},
		{ID: "t1", Position: 1, Phase: "Build", Name: "Build", Dependency: "t0", BaseDuration: 2, Status: models.StatusPending},
		{ID: "t2", Position: 2, Phase: "Build", Name: "Ship", Dependency: "t1", BaseDuration: 1, Status: models.StatusPending},
	}
}

func mustTask(t *testing.T, id string) *models.Task {
	t.Helper()
	task, err := db.GetTaskByID(id)
	if err != nil {
		t.Fatalf("GetTaskByID(%s) error = %v", id, err)
	}
	return task
}
