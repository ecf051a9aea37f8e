package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"planline/internal/calendar"
	"planline/internal/db"
	"planline/internal/models"
)

func TestExportImportRoundTrip(t *testing.T) {
	web, _ := models.LookupTemplate("web")
	tasks := web.ToTasks()
	tasks[0].Status = models.StatusDone
	tasks[2].Deviation = -1
	setupTestProject(t, tasks)

	path := filepath.Join(t.TempDir(), "plan.json")
	exportOut = path
	defer func() { exportOut = "" }()
	if err := runExport(exportCmd, nil); err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := db.ReplaceTasks(web.ToTasks()); err != nil {
		t.Fatal(err)
	}

	if err := runImport(importCmd, []string{path}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := mustTask(t, "t0").Status; got != models.StatusDone {
		t.Errorf("t0 status = %q, want done", got)
	}
	if got := mustTask(t, tasks[2].ID).Deviation; got != -1 {
		t.Errorf("%s deviation = %d, want -1", tasks[2].ID, got)
	}
}

func TestImportLenientFile(t *testing.T) {
	setupTestProject(t, chain())

	path := filepath.Join(t.TempDir(), "state.json")
	data := `{
  "kickoff_date": "2026-02-02",
  "skip_weekends": false,
  "tasks": [
    {"id": "t0", "status": "done", "deviation": "2", "base_duration": null},
    {"id": "t1", "status": "finished", "deviation": "soon", "base_duration": "4"},
    {"id": "", "name": "no id"},
    {"id": "zz", "phase": "Later", "name": "Extra", "status": "pending", "base_duration": 2}
  ]
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if err := runImport(importCmd, []string{path}); err != nil {
		t.Fatalf("import: %v", err)
	}

	t0 := mustTask(t, "t0")
	if t0.Status != models.StatusDone || t0.Deviation != 2 || t0.BaseDuration != 1 {
		t.Errorf("t0 = %s/%d/%d, want done/2/1 (template duration kept)", t0.Status, t0.Deviation, t0.BaseDuration)
	}
	t1a := mustTask(t, "t1a")
	if t1a.Status != models.StatusPending {
		t.Errorf("t1a status = %q, want pending from template", t1a.Status)
	}
	t1 := mustTask(t, "t1")
	if t1.Status != models.StatusPending || t1.Deviation != 0 || t1.BaseDuration != 4 || !t1.Custom {
		t.Errorf("t1 = %+v, want custom pending, deviation 0, duration 4", t1)
	}
	if zz := mustTask(t, "zz"); !zz.Custom {
		t.Error("zz should be appended as a custom task")
	}

	project, _ := db.LoadProject()
	if !project.Kickoff.Equal(calendar.Day(2026, 2, 2)) {
		t.Errorf("kickoff = %s, want 2026-02-02", calendar.Format(project.Kickoff))
	}
	if project.SkipWeekends {
		t.Error("skip_weekends should be false after import")
	}
}

func TestImportEmptyFile(t *testing.T) {
	setupTestProject(t, chain())
	path := filepath.Join(t.TempDir(), "empty.json")
	os.WriteFile(path, []byte(`{"tasks": []}`), 0644)

	if err := runImport(importCmd, []string{path}); err == nil {
		t.Error("expected an error for a file without tasks")
	}
	if err := runImport(importCmd, []string{filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
