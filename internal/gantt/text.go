package gantt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"planline/internal/calendar"
	"planline/internal/models"
	"planline/internal/schedule"
	"planline/internal/ui"
)

// TextOptions control the terminal chart
type TextOptions struct {
	Width int  // total line width; defaults to 100
	Color bool // wrap bars in ANSI status colours
}

const (
	barFull  = "█"
	barEmpty = "·"
)

// Text writes a bar chart of the resolved schedule, one row per task,
// grouped by phase. Each column covers one or more calendar days between
// the earliest start and the latest end.
func Text(w io.Writer, tasks []models.Task, result *schedule.Result, opts TextOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 100
	}

	first, last, ok := bounds(result)
	if !ok {
		_, err := fmt.Fprintln(w, "No scheduled tasks.")
		return err
	}
	days := int(last.Sub(first).Hours()/24) + 1

	nameWidth := 0
	for i := range tasks {
		if n := len([]rune(rowName(&tasks[i]))); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 32 {
		nameWidth = 32
	}

	// name, two spaces, bar, space, dates
	cols := width - nameWidth - 2 - 1 - 23
	if cols < 10 {
		cols = 10
	}
	if days < cols {
		cols = days
	}
	perCol := float64(days) / float64(cols)

	if _, err := fmt.Fprintf(w, "%s  %s .. %s (%d days)\n",
		pad("", nameWidth), calendar.Format(first), calendar.Format(last), days); err != nil {
		return err
	}

	for _, phase := range Phases(tasks) {
		if _, err := fmt.Fprintf(w, "\n%s\n", phase); err != nil {
			return err
		}
		for i := range tasks {
			t := &tasks[i]
			if t.Phase != phase {
				continue
			}
			e, _ := result.Get(t.ID)
			line := pad(rowName(t), nameWidth) + "  "
			if !e.Resolved() {
				line += strings.Repeat(" ", cols) + " (unscheduled)"
			} else {
				from := int(float64(dayIndex(first, *e.Start)) / perCol)
				to := int(float64(dayIndex(first, *e.End)) / perCol)
				if to >= cols {
					to = cols - 1
				}
				bar := strings.Repeat(barEmpty, from) +
					strings.Repeat(barFull, to-from+1) +
					strings.Repeat(barEmpty, cols-to-1)
				if opts.Color {
					bar = ui.RenderStatus(t.Status, bar)
				}
				line += fmt.Sprintf("%s %s → %s", bar, calendar.Format(*e.Start), calendar.Format(*e.End))
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func bounds(r *schedule.Result) (first, last time.Time, ok bool) {
	for _, e := range r.Entries {
		if !e.Resolved() {
			continue
		}
		if !ok || e.Start.Before(first) {
			first = *e.Start
		}
		if !ok || e.End.After(last) {
			last = *e.End
		}
		ok = true
	}
	return first, last, ok
}

func dayIndex(first, d time.Time) int {
	return int(d.Sub(first).Hours() / 24)
}

func rowName(t *models.Task) string {
	return t.ID + " " + t.Name
}

func pad(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		if n > 1 {
			return string(r[:n-1]) + "…"
		}
		return string(r[:n])
	}
	return s + strings.Repeat(" ", n-len(r))
}
