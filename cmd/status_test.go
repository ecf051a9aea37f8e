package cmd

import (
	"errors"
	"strings"
	"testing"

	"planline/internal/db"
	"planline/internal/models"
	"planline/internal/transition"
)

func TestChangeStatus(t *testing.T) {
	setupTestProject(t, chain())

	if err := changeStatus("t0", models.StatusInProgress, "Started"); err != nil {
		t.Fatalf("start t0: %v", err)
	}
	if got := mustTask(t, "t0").Status; got != models.StatusInProgress {
		t.Errorf("t0 status = %q, want %q", got, models.StatusInProgress)
	}

	var history []models.TaskHistory
	db.GetDB().Where("task_id = ? AND field = ?", "t0", "status").Find(&history)
	if len(history) != 1 || history[0].NewValue != models.StatusInProgress {
		t.Errorf("history = %+v, want one status entry", history)
	}
}

func TestChangeStatusGated(t *testing.T) {
	setupTestProject(t, chain())

	err := changeStatus("t1", models.StatusInProgress, "Started")
	if err == nil {
		t.Fatal("expected rejection while t0 is pending")
	}
	var rej *transition.Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("error %v is not a *transition.Rejection", err)
	}
	if rej.TaskID != "t1" {
		t.Errorf("rejection task = %q, want t1", rej.TaskID)
	}
	if !strings.Contains(err.Error(), "pln show t1") {
		t.Errorf("error %q should point at 'pln show t1'", err)
	}
	if got := mustTask(t, "t1").Status; got != models.StatusPending {
		t.Errorf("t1 status = %q after rejection, want pending", got)
	}
}

func TestChangeStatusRetractBlocked(t *testing.T) {
	tasks := chain()
	tasks[0].Status = models.StatusDone
	tasks[1].Status = models.StatusInProgress
	setupTestProject(t, tasks)

	if err := changeStatus("t0", models.StatusPending, "Reopened"); err == nil {
		t.Fatal("expected retract of t0 to be refused while t1 is in progress")
	}
	if got := mustTask(t, "t0").Status; got != models.StatusDone {
		t.Errorf("t0 status = %q, want done", got)
	}
}

func TestChangeStatusUnknown(t *testing.T) {
	setupTestProject(t, chain())

	err := changeStatus("nope", models.StatusDone, "Done")
	if !errors.Is(err, transition.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if err := changeStatus("t0", "finished", "Updated"); err == nil {
		t.Error("expected unknown status to be refused")
	}
}

func TestChangeStatusDelayedBumpsDeviation(t *testing.T) {
	setupTestProject(t, chain())

	if err := changeStatus("t0", models.StatusDelayed, "Delayed"); err != nil {
		t.Fatalf("delay t0: %v", err)
	}
	got := mustTask(t, "t0")
	if got.Status != models.StatusDelayed || got.Deviation != 1 {
		t.Errorf("t0 = %s/%d, want delayed/1", got.Status, got.Deviation)
	}
}

func TestDescribeChange(t *testing.T) {
	tests := []struct {
		h    models.TaskHistory
		want string
	}{
		{models.TaskHistory{Field: "status", OldValue: "pending", NewValue: "done"}, "status "},
		{models.TaskHistory{Field: "deviation", OldValue: "0", NewValue: "2", ChangedBy: "user"}, `deviation: "0" → "2" (by user)`},
		{models.TaskHistory{Field: "dependency", OldValue: "t3"}, `dependency: removed "t3"`},
		{models.TaskHistory{Field: "created", NewValue: "Extra"}, `created as "Extra"`},
	}
	for _, tt := range tests {
		if got := describeChange(tt.h); !strings.HasPrefix(got, tt.want) {
			t.Errorf("describeChange(%+v) = %q, want prefix %q", tt.h, got, tt.want)
		}
	}
}
