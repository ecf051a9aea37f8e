package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"planline/internal/config"
	"planline/internal/gantt"
	"planline/internal/log"
	"planline/internal/ui"
)

var (
	ganttFormat string
	ganttOut    string
	ganttTitle  string
)

var ganttCmd = &cobra.Command{
	Use:   "gantt",
	Short: "Render the plan as a Gantt timeline",
	Long: `Render the plan as a timeline.

FORMATS:
  mermaid  Mermaid gantt source (default)
  html     Standalone page that draws the chart in a browser
  text     Bar chart for the terminal

The title and axis format default to the [gantt] section of
.planline/config.toml.`,
	RunE: runGantt,
}

func init() {
	rootCmd.AddCommand(ganttCmd)
	ganttCmd.Flags().StringVarP(&ganttFormat, "format", "f", "mermaid", "Output format (mermaid, html, text)")
	ganttCmd.Flags().StringVarP(&ganttOut, "output", "o", "", "Write to file instead of stdout")
	ganttCmd.Flags().StringVar(&ganttTitle, "title", "", "Chart title")
}

func runGantt(cmd *cobra.Command, args []string) error {
	switch ganttFormat {
	case "mermaid", "html", "text":
	default:
		return fmt.Errorf("unknown format '%s': must be one of: mermaid, html, text", ganttFormat)
	}

	p, err := loadPlan()
	if err != nil {
		return err
	}

	title := ganttTitle
	if title == "" {
		title = settings.Gantt.Title
		if title == config.DefaultGanttTitle && p.Project.Name != "" {
			title = p.Project.Name
		}
	}
	opts := gantt.Options{
		Title:        title,
		AxisFormat:   settings.Gantt.AxisFormat,
		Kickoff:      p.Project.Kickoff,
		SkipWeekends: p.Project.SkipWeekends,
		RootID:       p.Project.RootID,
	}

	var w io.Writer = os.Stdout
	if ganttOut != "" {
		f, err := os.Create(ganttOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", ganttOut, err)
		}
		defer f.Close()
		w = f
	}

	switch ganttFormat {
	case "html":
		err = gantt.HTML(w, p.Tasks, opts)
	case "text":
		err = gantt.Text(w, p.Tasks, p.schedule(), gantt.TextOptions{
			Width: ui.Width(100),
			Color: ganttOut == "" && ui.ShouldUseColor(),
		})
	default:
		_, err = io.WriteString(w, gantt.Mermaid(p.Tasks, opts))
	}
	if err != nil {
		return err
	}

	log.GetLogger().WithField("format", ganttFormat).Debug("gantt rendered")
	if ganttOut != "" {
		if IsJSONOutput() {
			OutputJSON(map[string]interface{}{"success": true, "path": ganttOut, "format": ganttFormat})
		} else {
			fmt.Printf("Wrote %s\n", ganttOut)
		}
	}
	return nil
}
