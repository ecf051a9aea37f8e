package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"planline/internal/calendar"
	"planline/internal/models"
	"planline/internal/schedule"
	"planline/internal/ui"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Task(v TaskView)
	TaskList(views []TaskView, title string)
	TaskBrief(v TaskView)
	Schedule(views []TaskView, r *schedule.Result)
	Success(msg string)
	Error(err error)
	Info(msg string)
	KeyValue(key, value string)
	Section(title string)
	JSON(v interface{})
}

// TextFormatter outputs human-readable text
type TextFormatter struct {
	Color bool
}

// JSONFormatter outputs JSON
type JSONFormatter struct{}

// New returns the appropriate formatter based on json flag
func New(jsonOutput bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &TextFormatter{Color: ui.ShouldUseColor()}
}

func (f *TextFormatter) status(status string) string {
	label := models.StatusLabel(status)
	if f.Color {
		return ui.RenderStatus(status, label)
	}
	return label
}

func dates(v TaskView) string {
	if v.Start == "" {
		return "unscheduled"
	}
	return v.Start + " → " + v.End
}

// TextFormatter implementations

func (f *TextFormatter) Task(v TaskView) {
	fmt.Printf("ID:        %s\n", v.ID)
	fmt.Printf("Name:      %s\n", v.Name)
	if v.Phase != "" {
		fmt.Printf("Phase:     %s\n", v.Phase)
	}
	fmt.Printf("Status:    %s\n", f.status(v.Status))
	if v.Dependency != "" {
		blocked := ""
		if v.Blocked {
			blocked = " (blocked)"
		}
		fmt.Printf("Depends:   %s%s\n", v.Dependency, blocked)
	}
	fmt.Printf("Duration:  %d (base %d, deviation %+d)\n", v.EffectiveDuration, v.BaseDuration, v.Deviation)
	fmt.Printf("Schedule:  %s\n", dates(v))
	if v.Custom {
		fmt.Printf("Custom:    yes\n")
	}
	if !v.CreatedAt.IsZero() {
		fmt.Printf("Created:   %s\n", v.CreatedAt.Format(models.DateTimeShortFormat))
	}
}

func (f *TextFormatter) TaskList(views []TaskView, title string) {
	if title != "" {
		fmt.Printf("%s (%d):\n", title, len(views))
	}
	for _, v := range views {
		f.TaskBrief(v)
	}
}

func (f *TextFormatter) TaskBrief(v TaskView) {
	indent := ""
	if v.HasDependency() {
		indent = "  "
	}
	dep := ""
	if v.Blocked {
		dep = fmt.Sprintf(" (waits on %s)", v.DependencyID())
	}
	fmt.Printf("%s[%s] %s - %s%s\n", indent, v.ID, f.status(v.Status), v.Name, dep)
}

func (f *TextFormatter) Schedule(views []TaskView, r *schedule.Result) {
	idWidth, nameWidth := 2, 4
	for _, v := range views {
		if n := len([]rune(v.ID)); n > idWidth {
			idWidth = n
		}
		if n := len([]rune(v.Name)); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 40 {
		nameWidth = 40
	}

	phase := ""
	for i, v := range views {
		if i == 0 || v.Phase != phase {
			phase = v.Phase
			fmt.Printf("\n%s\n", phase)
		}
		name := []rune(v.Name)
		if len(name) > nameWidth {
			name = append(name[:nameWidth-1], '…')
		}
		fmt.Printf("  %-*s  %-*s  %3dd  %-23s  %s\n",
			idWidth, v.ID, nameWidth, string(name), v.EffectiveDuration, dates(v), f.status(v.Status))
	}

	fmt.Println()
	if end, ok := r.ProjectEnd(); ok {
		fmt.Printf("Project end: %s\n", calendar.Format(end))
	}
	if len(r.Dangling) > 0 {
		fmt.Printf("Unknown dependencies (scheduled from kickoff): %s\n", strings.Join(r.Dangling, ", "))
	}
	if len(r.Unresolved) > 0 {
		fmt.Printf("Unscheduled: %s\n", strings.Join(r.Unresolved, ", "))
	}
	if len(r.Cycle) > 0 {
		fmt.Printf("Dependency cycle: %s. Fix it with 'pln dep set'\n", strings.Join(r.Cycle, " -> "))
	}
}

func (f *TextFormatter) Success(msg string) {
	fmt.Println(msg)
}

func (f *TextFormatter) Error(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func (f *TextFormatter) Info(msg string) {
	fmt.Println(msg)
}

func (f *TextFormatter) KeyValue(key, value string) {
	fmt.Printf("%s: %s\n", key, value)
}

func (f *TextFormatter) Section(title string) {
	fmt.Printf("\n%s:\n", title)
}

func (f *TextFormatter) JSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		f.Error(err)
		return
	}
	fmt.Println(string(data))
}

// JSONFormatter implementations

func (f *JSONFormatter) Task(v TaskView) {
	f.JSON(v)
}

func (f *JSONFormatter) TaskList(views []TaskView, title string) {
	f.JSON(map[string]interface{}{
		"count": len(views),
		"tasks": views,
	})
}

func (f *JSONFormatter) TaskBrief(v TaskView) {
	f.JSON(v)
}

func (f *JSONFormatter) Schedule(views []TaskView, r *schedule.Result) {
	out := map[string]interface{}{
		"tasks":      views,
		"unresolved": r.Unresolved,
		"dangling":   r.Dangling,
		"cycle":      r.Cycle,
		"passes":     r.Passes,
	}
	if end, ok := r.ProjectEnd(); ok {
		out["project_end"] = calendar.Format(end)
	}
	f.JSON(out)
}

func (f *JSONFormatter) Success(msg string) {
	f.JSON(map[string]interface{}{"success": true, "message": msg})
}

func (f *JSONFormatter) Error(err error) {
	f.JSON(map[string]interface{}{"error": true, "message": err.Error()})
}

func (f *JSONFormatter) Info(msg string) {
	f.JSON(map[string]interface{}{"message": msg})
}

func (f *JSONFormatter) KeyValue(key, value string) {
	f.JSON(map[string]string{key: value})
}

func (f *JSONFormatter) Section(title string) {
	// JSON doesn't need section headers
}

func (f *JSONFormatter) JSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"error": true, "message": "JSON marshal error: %s"}`+"\n", err.Error())
		return
	}
	fmt.Println(string(data))
}
