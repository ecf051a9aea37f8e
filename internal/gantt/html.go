package gantt

import (
	"fmt"
	"html/template"
	"io"

	"planline/internal/models"
)

// Status colours shared by the legend and the Mermaid theme
var statusColors = map[string]string{
	models.StatusPending:    "#94A3B8",
	models.StatusInProgress: "#3B82F6",
	models.StatusDone:       "#22C55E",
	models.StatusDelayed:    "#EF4444",
}

const todayColor = "#F59E0B"

type legendItem struct {
	Label string
	Color string
}

type page struct {
	Title   string
	Legend  []legendItem
	Mermaid string
}

var pageTemplate = template.Must(template.New("gantt").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
  <style>
    body { margin: 0; padding: 0; font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif; }
    .wrap { padding: 10px; }
    .card { background: white; border-radius: 18px; padding: 14px 14px 6px 14px;
      box-shadow: 0 18px 50px rgba(2, 8, 23, 0.08); border: 1px solid rgba(2, 8, 23, 0.06); }
    .legend { display: flex; gap: 10px; flex-wrap: wrap; padding: 6px 4px 12px 4px;
      font-size: 12px; color: rgba(15, 23, 42, 0.75); align-items: center; }
    .pill { display: flex; gap: 8px; align-items: center; padding: 6px 10px; border-radius: 999px;
      border: 1px solid rgba(2, 8, 23, 0.08); background: rgba(248, 250, 252, 0.9); font-weight: 600; }
    .dot { width: 10px; height: 10px; border-radius: 999px; }
    .mermaid svg { width: 100%; height: auto; }
    .mermaid .task rect { rx: 7px; ry: 7px; }
    .mermaid .taskText { font-weight: 600; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="card">
      <div class="legend">
{{- range .Legend}}
        <span class="pill"><span class="dot" style="background:{{.Color}}"></span>{{.Label}}</span>
{{- end}}
      </div>
      <div class="mermaid">
{{.Mermaid}}
      </div>
    </div>
  </div>
  <script>
    mermaid.initialize({
      startOnLoad: true,
      theme: "base",
      themeVariables: {
        fontFamily: "system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif",
        primaryColor: "#F8FAFC",
        primaryTextColor: "#0F172A",
        textColor: "#0F172A",
        taskTextColor: "#0F172A",
        taskTextOutsideColor: "#0F172A",
        activeTaskColor: "#3B82F6",
        activeTaskBorderColor: "#2563EB",
        doneTaskColor: "#22C55E",
        doneTaskBorderColor: "#16A34A",
        critTaskColor: "#EF4444",
        critTaskBorderColor: "#DC2626",
      },
      gantt: {
        barHeight: 22,
        barGap: 10,
        topPadding: 35,
        leftPadding: 240,
        rightPadding: 20,
        fontSize: 12,
        todayMarker: "stroke:#F59E0B,stroke-width:2px",
      },
    });
  </script>
</body>
</html>
`))

// HTML writes a standalone page that renders the timeline in a browser
func HTML(w io.Writer, tasks []models.Task, opts Options) error {
	legend := make([]legendItem, 0, len(models.Statuses)+1)
	for _, s := range models.Statuses {
		legend = append(legend, legendItem{Label: models.StatusLabel(s), Color: statusColors[s]})
	}
	legend = append(legend, legendItem{Label: "Today", Color: todayColor})

	title := opts.Title
	if title == "" {
		title = "Project plan"
	}
	err := pageTemplate.Execute(w, page{
		Title:   title,
		Legend:  legend,
		Mermaid: Mermaid(tasks, opts),
	})
	if err != nil {
		return fmt.Errorf("render gantt page: %w", err)
	}
	return nil
}
