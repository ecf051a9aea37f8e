// Package gantt renders a task list as a timeline: Mermaid source, a
// standalone HTML page around it, or a plain terminal bar chart.
package gantt

import (
	"fmt"
	"strings"
	"time"

	"planline/internal/calendar"
	"planline/internal/models"
)

// Options control rendering
type Options struct {
	Title        string
	AxisFormat   string
	Kickoff      time.Time
	SkipWeekends bool
	RootID       string
}

func (o Options) rootID() string {
	if o.RootID == "" {
		return models.DefaultRootID
	}
	return o.RootID
}

// Flag returns the Mermaid task tag for a status, including the trailing
// separator, or "" for pending tasks.
func Flag(status string) string {
	switch status {
	case models.StatusInProgress:
		return "active, "
	case models.StatusDone:
		return "done, "
	case models.StatusDelayed:
		return "crit, "
	}
	return ""
}

// Phases returns the distinct task phases in first-appearance order
func Phases(tasks []models.Task) []string {
	var phases []string
	seen := make(map[string]bool)
	for _, t := range tasks {
		if !seen[t.Phase] {
			seen[t.Phase] = true
			phases = append(phases, t.Phase)
		}
	}
	return phases
}

var labelReplacer = strings.NewReplacer(":", " -", ";", ",", "#", "", "\n", " ", "\r", " ")

// label makes free text safe to place before the ':' of a Mermaid task line
func label(s string) string {
	s = strings.TrimSpace(labelReplacer.Replace(s))
	if s == "" {
		return "(unnamed)"
	}
	return s
}

// Mermaid builds the Mermaid gantt source for tasks. Mermaid computes the
// dates itself from the "after" references, so the root and tasks without a
// known dependency are pinned to the kickoff date.
func Mermaid(tasks []models.Task, opts Options) string {
	axis := opts.AxisFormat
	if axis == "" {
		axis = "%d-%m"
	}
	kickoff := calendar.Format(opts.Kickoff)
	known := models.Index(tasks)

	var b strings.Builder
	b.WriteString("gantt\n")
	if opts.Title != "" {
		fmt.Fprintf(&b, "    title %s\n", label(opts.Title))
	}
	b.WriteString("    dateFormat  YYYY-MM-DD\n")
	fmt.Fprintf(&b, "    axisFormat  %s\n", axis)
	if opts.SkipWeekends {
		b.WriteString("    excludes    weekends\n")
	}
	b.WriteString("\n")

	for _, phase := range Phases(tasks) {
		fmt.Fprintf(&b, "    section %s\n", label(phase))
		for i := range tasks {
			t := &tasks[i]
			if t.Phase != phase {
				continue
			}
			when := kickoff
			dep := t.DependencyID()
			if _, ok := known[dep]; ok && t.ID != opts.rootID() && dep != t.ID {
				when = "after " + dep
			}
			fmt.Fprintf(&b, "    %s :%s%s, %s, %dd\n", label(t.Name), Flag(t.Status), t.ID, when, t.EffectiveDuration())
		}
		b.WriteString("\n")
	}
	return b.String()
}
