package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"planline/internal/calendar"
	"planline/internal/config"
	"planline/internal/db"
	"planline/internal/log"
	"planline/internal/models"
)

var (
	projectKickoff  string
	projectWeekends bool
	projectRoot     string
	projectName     string
)

var configProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Change kickoff date, calendar and root task",
	Long: `Change the settings every date in the plan is computed from.

  --kickoff            first day of the project (YYYY-MM-DD); a weekend
                       kickoff moves to the next Monday when weekends are skipped
  --include-weekends   count Saturdays and Sundays as working days
  --root               task pinned to the kickoff date (default t0)

With no flags the current settings are shown.`,
	RunE: runConfigProject,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in .planline/config.toml",
	Long: `Set a tool setting in .planline/config.toml.

KEYS:
  log_level          panic, fatal, error, warn, info, debug, trace
  gantt.title        default chart title
  gantt.axis_format  Mermaid axis format, e.g. %d-%m
  sync.max_retries   retries per GitHub call
  sync.timeout       per-request timeout, e.g. 30s`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configProjectCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	configProjectCmd.Flags().StringVarP(&projectKickoff, "kickoff", "k", "", "Kickoff date (YYYY-MM-DD)")
	configProjectCmd.Flags().BoolVar(&projectWeekends, "include-weekends", false, "Schedule on weekends too (--include-weekends=false to skip them)")
	configProjectCmd.Flags().StringVar(&projectRoot, "root", "", "Root task id")
	configProjectCmd.Flags().StringVar(&projectName, "name", "", "Project name")
}

func runConfigProject(cmd *cobra.Command, args []string) error {
	p, err := loadPlan()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	changed := false

	if flags.Changed("kickoff") {
		k, err := calendar.Parse(projectKickoff)
		if err != nil {
			return err
		}
		p.Project.Kickoff = k
		changed = true
	}
	if flags.Changed("include-weekends") {
		p.Project.SkipWeekends = !projectWeekends
		changed = true
	}
	if flags.Changed("root") {
		root := strings.TrimSpace(projectRoot)
		if _, ok := p.find(root); !ok {
			return fmt.Errorf("task '%s' not found (use 'pln list' to see available tasks)", root)
		}
		p.Project.RootID = root
		changed = true
	}
	if flags.Changed("name") {
		p.Project.Name = strings.TrimSpace(projectName)
		changed = true
	}

	if changed {
		if err := db.SaveProject(p.Project); err != nil {
			return err
		}
		log.GetLogger().WithField("kickoff", calendar.Format(p.Project.Kickoff)).Debug("project settings saved")
	}

	r := p.schedule()
	end, hasEnd := r.ProjectEnd()
	if IsJSONOutput() {
		out := map[string]interface{}{"success": true, "project": p.Project}
		if hasEnd {
			out["project_end"] = end.Format(models.DateFormat)
		}
		OutputJSON(out)
		return nil
	}

	printProject(p.Project)
	if hasEnd {
		fmt.Printf("  Project end:   %s\n", end.Format(models.DateFormat))
	}
	return nil
}

func printProject(p *db.Project) {
	calendarName := "business days (Mon-Fri)"
	if !p.SkipWeekends {
		calendarName = "every day"
	}
	fmt.Println("Project:")
	if p.Name != "" {
		fmt.Printf("  Name:          %s\n", p.Name)
	}
	fmt.Printf("  Kickoff:       %s (%s)\n", calendar.Format(p.Kickoff), p.Kickoff.Weekday())
	fmt.Printf("  Calendar:      %s\n", calendarName)
	fmt.Printf("  Root task:     %s\n", p.RootID)
	fmt.Printf("  Template:      %s\n", p.Template)
	fmt.Printf("  Mode:          %s\n", p.Mode)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	project, err := db.LoadProject()
	if err != nil {
		return err
	}
	dir, err := db.GetDataDir()
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{
			"project":     project,
			"config_file": config.Path(dir),
			"settings":    settings,
		})
		return nil
	}

	printProject(project)
	fmt.Printf("\nSettings (%s):\n", config.Path(dir))
	fmt.Printf("  log_level:         %s\n", settings.LogLevel)
	fmt.Printf("  gantt.title:       %s\n", settings.Gantt.Title)
	fmt.Printf("  gantt.axis_format: %s\n", settings.Gantt.AxisFormat)
	fmt.Printf("  sync.max_retries:  %d\n", settings.Sync.MaxRetries)
	fmt.Printf("  sync.timeout:      %s\n", settings.Sync.Timeout.Duration)
	fmt.Println()
	return showGitHubConfig()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	dir, err := db.GetDataDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if err := setSetting(&cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := config.Save(dir, cfg); err != nil {
		return err
	}

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{"success": true, "key": args[0], "value": args[1]})
	} else {
		fmt.Printf("Set %s = %s\n", args[0], args[1])
	}
	return nil
}

// setSetting applies one key=value to cfg
func setSetting(cfg *config.Config, key, value string) error {
	switch key {
	case "log_level":
		if !log.ValidLevel(value) {
			return fmt.Errorf("invalid log level '%s'", value)
		}
		cfg.LogLevel = value
	case "gantt.title":
		cfg.Gantt.Title = value
	case "gantt.axis_format":
		cfg.Gantt.AxisFormat = value
	case "sync.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max_retries '%s': must be a non-negative integer", value)
		}
		cfg.Sync.MaxRetries = n
	case "sync.timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout '%s': use a duration such as 30s", value)
		}
		cfg.Sync.Timeout = config.Duration{Duration: d}
	default:
		return fmt.Errorf("unknown setting '%s' (see 'pln config set --help')", key)
	}
	return nil
}
