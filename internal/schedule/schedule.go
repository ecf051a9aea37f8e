// Package schedule computes start and end dates for a task list.
//
// Every task starts on the business day after its dependency ends, or at
// kickoff when it has none. Because successors are always derived from the
// dependency's actual end date, a deviation on any task moves every
// transitive successor with it.
package schedule

import (
	"time"

	"planline/internal/calendar"
	"planline/internal/models"
)

// MaxPasses bounds the fixed-point loop in case the input contains a cycle
const MaxPasses = 999

// Options controls how a schedule is anchored
type Options struct {
	Kickoff      time.Time
	SkipWeekends bool
	RootID       string // defaults to models.DefaultRootID
}

// Entry is the computed schedule for one task. Start and End are nil when
// the task could not be resolved.
type Entry struct {
	TaskID            string     `json:"id"`
	EffectiveDuration int        `json:"effective_duration"`
	Start             *time.Time `json:"start,omitempty"`
	End               *time.Time `json:"end,omitempty"`
}

// Resolved reports whether the entry has dates
func (e Entry) Resolved() bool {
	return e.Start != nil && e.End != nil
}

// Result is the outcome of one scheduling pass
type Result struct {
	Entries    []Entry  `json:"entries"`              // input order
	Unresolved []string `json:"unresolved,omitempty"` // left without dates
	Dangling   []string `json:"dangling,omitempty"`   // dependency id missing from the set
	Cycle      []string `json:"cycle,omitempty"`
	Passes     int      `json:"passes"`

	byID map[string]int
}

// Get returns the entry for a task id
func (r *Result) Get(id string) (Entry, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}
	return r.Entries[i], true
}

// ProjectEnd returns the latest resolved end date
func (r *Result) ProjectEnd() (time.Time, bool) {
	var end time.Time
	found := false
	for _, e := range r.Entries {
		if e.End != nil && (!found || e.End.After(end)) {
			end = *e.End
			found = true
		}
	}
	return end, found
}

// Complete reports whether every task was given dates
func (r *Result) Complete() bool {
	return len(r.Unresolved) == 0
}

type span struct {
	start, end time.Time
}

// Build computes start/end dates for every task. It never fails: tasks
// that cannot be resolved (cycles) are left without dates, and a
// dependency on an unknown id is treated as no dependency.
func Build(tasks []models.Task, opts Options) *Result {
	cal := calendar.New(opts.SkipWeekends)
	rootID := opts.RootID
	if rootID == "" {
		rootID = models.DefaultRootID
	}
	anchor := cal.NextBusinessDay(calendar.Truncate(opts.Kickoff))

	// first occurrence of an id wins
	idx := models.Index(tasks)
	durations := make(map[string]int, len(idx))
	var order []string
	for i := range tasks {
		id := tasks[i].ID
		if idx[id] != i {
			continue
		}
		order = append(order, id)
		durations[id] = tasks[i].EffectiveDuration()
	}

	unresolved := make(map[string]bool, len(order))
	for _, id := range order {
		unresolved[id] = true
	}
	resolved := make(map[string]span, len(order))
	dangling := make(map[string]bool)

	passes := 0
	for len(unresolved) > 0 && passes < MaxPasses {
		passes++
		progressed := false

		for _, id := range order {
			if !unresolved[id] {
				continue
			}
			task := &tasks[idx[id]]
			dep := task.DependencyID()

			var start time.Time
			switch {
			case id == rootID || dep == "":
				start = anchor
			case unresolved[dep]:
				continue
			default:
				parent, ok := resolved[dep]
				if !ok {
					// unknown id: fail open
					dangling[id] = true
					start = anchor
				} else {
					start = cal.NextDayAfter(parent.end)
				}
			}

			resolved[id] = span{start: start, end: cal.AddBusinessDays(start, durations[id])}
			delete(unresolved, id)
			progressed = true
		}

		if !progressed {
			break
		}
	}

	r := &Result{
		Entries: make([]Entry, len(tasks)),
		Passes:  passes,
		byID:    make(map[string]int, len(idx)),
	}
	for i := range tasks {
		id := tasks[i].ID
		e := Entry{TaskID: id, EffectiveDuration: durations[id]}
		if s, ok := resolved[id]; ok {
			start, end := s.start, s.end
			e.Start, e.End = &start, &end
		}
		r.Entries[i] = e
		if _, ok := r.byID[id]; !ok {
			r.byID[id] = i
		}
	}
	for _, id := range order {
		if unresolved[id] {
			r.Unresolved = append(r.Unresolved, id)
		}
		if dangling[id] {
			r.Dangling = append(r.Dangling, id)
		}
	}
	if len(r.Unresolved) > 0 {
		r.Cycle = DetectCycle(tasks)
	}
	return r
}
