package state

import (
	"planline/internal/models"
)

// MergeReport describes what Merge did
type MergeReport struct {
	Carried []string `json:"carried"` // template ids that took saved values
	Added   []string `json:"added"`   // saved-only ids appended as custom tasks
	Fresh   []string `json:"fresh"`   // template ids with no saved counterpart
}

// Merge folds a saved task list into the template. For ids present in both,
// status, deviation and a usable base duration are carried forward; template
// tasks missing from the save keep their defaults; saved tasks unknown to
// the template are appended in saved order so user edits survive template
// revisions.
func Merge(template []models.Task, saved []Saved) ([]models.Task, MergeReport) {
	var report MergeReport

	byID := make(map[string]Saved, len(saved))
	for _, s := range saved {
		if _, ok := byID[s.Task.ID]; !ok {
			byID[s.Task.ID] = s
		}
	}

	out := models.Clone(template)
	inTemplate := make(map[string]bool, len(out))
	for i := range out {
		t := &out[i]
		t.Position = i
		inTemplate[t.ID] = true

		s, ok := byID[t.ID]
		if !ok {
			report.Fresh = append(report.Fresh, t.ID)
			continue
		}
		t.Status = s.Task.Status
		t.Deviation = s.Task.Deviation
		if s.ValidDuration {
			t.BaseDuration = s.Task.BaseDuration
		}
		report.Carried = append(report.Carried, t.ID)
	}

	for _, s := range saved {
		if inTemplate[s.Task.ID] {
			continue
		}
		inTemplate[s.Task.ID] = true
		extra := s.Task
		extra.Position = len(out)
		extra.Custom = true
		out = append(out, extra)
		report.Added = append(report.Added, extra.ID)
	}

	return out, report
}
