package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/calendar"
	"planline/internal/models"
)

func TestInt_Unmarshal(t *testing.T) {
	tests := []struct {
		in    string
		value int
		valid bool
	}{
		{`3`, 3, true},
		{`-2`, -2, true},
		{`"4"`, 4, true},
		{`" 5 "`, 5, true},
		{`2.9`, 2, true},
		{`"1.5"`, 1, true},
		{`null`, 0, false},
		{`"abc"`, 0, false},
		{`true`, 0, false},
		{`""`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Int
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.value, n.Value)
			assert.Equal(t, tt.valid, n.Valid)
		})
	}
}

func TestInt_ObjectOrArrayDoesNotFailDocument(t *testing.T) {
	doc, err := Decode([]byte(`{"tasks":[{"id":"a","base_duration":{"x":1},"deviation":[1]}]}`))
	require.NoError(t, err)
	assert.False(t, doc.Tasks[0].BaseDuration.Valid)
	assert.False(t, doc.Tasks[0].Deviation.Valid)
}

func TestDecode_Defaults(t *testing.T) {
	doc, err := Decode([]byte(`{"kickoff_date":"2026-01-05","tasks":[{"id":"t0","name":"Kickoff","base_duration":1}]}`))
	require.NoError(t, err)

	assert.True(t, doc.Weekends(), "skip_weekends defaults to true")
	assert.Equal(t, calendar.Day(2026, 1, 5), doc.Kickoff(calendar.Day(2000, 1, 1)))

	tasks := doc.ToTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, 0, tasks[0].Deviation, "missing deviation is 0")
	assert.Equal(t, models.StatusPending, tasks[0].Status)
}

func TestDecode_BadKickoffFallsBack(t *testing.T) {
	doc, err := Decode([]byte(`{"kickoff_date":"soon","tasks":[{"id":"a"}]}`))
	require.NoError(t, err)
	fallback := calendar.Day(2026, 3, 2)
	assert.Equal(t, fallback, doc.Kickoff(fallback))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"tasks":[]}`))
	assert.True(t, errors.Is(err, ErrNoTasks))

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSaveLoad(t *testing.T) {
	tasks := []models.Task{
		{ID: "t0", Phase: "Kickoff", Name: "Kickoff <call>", BaseDuration: 1, Status: models.StatusDone},
		{ID: "t1", Phase: "Build", Name: "Setup", Dependency: "t0", BaseDuration: 3, Deviation: 2, Status: models.StatusDelayed},
	}
	path := filepath.Join(t.TempDir(), "sub", "state.json")
	require.NoError(t, Save(path, FromTasks(tasks, calendar.Day(2026, 1, 5), false)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Kickoff <call>", "HTML should not be escaped")

	doc, err := Load(path)
	require.NoError(t, err)
	assert.False(t, doc.Weekends())
	assert.Equal(t, "2026-01-05", doc.KickoffDate)

	got := doc.ToTasks()
	require.Len(t, got, 2)
	assert.Equal(t, "t0", got[1].Dependency)
	assert.Equal(t, 2, got[1].Deviation)
	assert.Equal(t, models.StatusDelayed, got[1].Status)
	assert.Equal(t, 1, got[1].Position)
}

func TestRecords(t *testing.T) {
	doc, err := Decode([]byte(`{"tasks":[
		{"id":"", "name":"orphan"},
		{"id":" a ", "status":"In progress", "base_duration":"x", "deviation":"bad"},
		{"id":"b", "status":"blocked", "dependency":" a "}
	]}`))
	require.NoError(t, err)

	saved, skipped := doc.Records()
	assert.Equal(t, 1, skipped)
	require.Len(t, saved, 2)

	assert.Equal(t, "a", saved[0].Task.ID)
	assert.Equal(t, models.StatusInProgress, saved[0].Task.Status)
	assert.Equal(t, 1, saved[0].Task.BaseDuration)
	assert.Equal(t, 0, saved[0].Task.Deviation)
	assert.False(t, saved[0].ValidDuration)

	assert.Equal(t, models.StatusPending, saved[1].Task.Status)
	assert.False(t, saved[1].ValidStatus)
	assert.Equal(t, "a", saved[1].Task.Dependency)
}

func template() []models.Task {
	return []models.Task{
		{ID: "t0", Phase: "Kickoff", Name: "Kickoff", BaseDuration: 1, Status: models.StatusPending},
		{ID: "t1", Phase: "Build", Name: "Setup", Dependency: "t0", BaseDuration: 3, Status: models.StatusPending},
		{ID: "t2", Phase: "Build", Name: "Catalog", Dependency: "t1", BaseDuration: 5, Status: models.StatusPending},
	}
}

func TestMerge_CarriesForwardUserFields(t *testing.T) {
	saved := []Saved{
		{Task: models.Task{ID: "t0", Name: "Old name", BaseDuration: 2, Deviation: 1, Status: models.StatusDone}, ValidDuration: true, ValidStatus: true},
		{Task: models.Task{ID: "t1", BaseDuration: 1, Deviation: -1, Status: models.StatusInProgress}, ValidDuration: false, ValidStatus: true},
	}
	out, report := Merge(template(), saved)
	require.Len(t, out, 3)

	assert.Equal(t, "Kickoff", out[0].Name, "template name wins")
	assert.Equal(t, 2, out[0].BaseDuration)
	assert.Equal(t, 1, out[0].Deviation)
	assert.Equal(t, models.StatusDone, out[0].Status)

	assert.Equal(t, 3, out[1].BaseDuration, "invalid duration keeps template value")
	assert.Equal(t, -1, out[1].Deviation)
	assert.Equal(t, models.StatusInProgress, out[1].Status)

	assert.Equal(t, models.StatusPending, out[2].Status)
	assert.Equal(t, []string{"t0", "t1"}, report.Carried)
	assert.Equal(t, []string{"t2"}, report.Fresh)
	assert.Empty(t, report.Added)
}

func TestMerge_AppendsExtrasInSavedOrder(t *testing.T) {
	saved := []Saved{
		{Task: models.Task{ID: "z", Name: "Photos", Dependency: "t2", BaseDuration: 1, Status: models.StatusPending}},
		{Task: models.Task{ID: "t1", Status: models.StatusDone}, ValidStatus: true},
		{Task: models.Task{ID: "y", Name: "Copy", BaseDuration: 4, Status: models.StatusPending}, ValidDuration: true},
		{Task: models.Task{ID: "y", Name: "Duplicate", BaseDuration: 9}},
	}
	out, report := Merge(template(), saved)
	require.Len(t, out, 5)

	assert.Equal(t, "z", out[3].ID)
	assert.Equal(t, "y", out[4].ID)
	assert.Equal(t, "Copy", out[4].Name, "first saved occurrence wins")
	assert.True(t, out[3].Custom)
	assert.Equal(t, 3, out[3].Position)
	assert.Equal(t, 4, out[4].Position)
	assert.Equal(t, []string{"z", "y"}, report.Added)
}

func TestMerge_DoesNotMutateTemplate(t *testing.T) {
	tmpl := template()
	Merge(tmpl, []Saved{{Task: models.Task{ID: "t0", Status: models.StatusDone}, ValidStatus: true}})
	assert.Equal(t, models.StatusPending, tmpl[0].Status)
}
