package cmd

import (
	"fmt"
	"os"
	"path/filepath"
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
	forceInit       bool
	stealthMode     bool
	initTemplate    string
	initKickoff     string
	initName        string
	initAllWeekdays bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a plan in the current directory",
	Long: `Create .planline/ in the current directory and seed the task table from a
built-in template. Every task starts pending with no deviation.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Force reinitialize")
	initCmd.Flags().BoolVar(&stealthMode, "stealth", false, "Initialize in stealth mode (local-only, add to .gitignore)")
	initCmd.Flags().StringVarP(&initTemplate, "template", "t", models.DefaultTemplate, "Plan template ("+strings.Join(models.TemplateNames(), ", ")+")")
	initCmd.Flags().StringVarP(&initKickoff, "kickoff", "k", "", "Kickoff date YYYY-MM-DD (default today)")
	initCmd.Flags().StringVar(&initName, "name", "", "Project name")
	initCmd.Flags().BoolVar(&initAllWeekdays, "include-weekends", false, "Schedule on Saturdays and Sundays too")
}

func runInit(cmd *cobra.Command, args []string) error {
	tmpl, ok := models.LookupTemplate(initTemplate)
	if !ok {
		return fmt.Errorf("unknown template '%s' (use 'pln template list' to see available templates)", initTemplate)
	}

	kickoff := calendar.Today()
	if initKickoff != "" {
		k, err := calendar.Parse(initKickoff)
		if err != nil {
			return err
		}
		kickoff = k
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	dataDir := filepath.Join(cwd, db.DataDir)
	dbPath := filepath.Join(dataDir, db.DBFileName)

	if info, err := os.Stat(dataDir); err == nil && info.IsDir() {
		if !forceInit {
			return fmt.Errorf("already initialized. Use --force to reinitialize")
		}
		db.CloseDB()
		if err := os.RemoveAll(dataDir); err != nil {
			return fmt.Errorf("failed to remove existing %s directory: %w", db.DataDir, err)
		}
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", db.DataDir, err)
	}

	database, err := db.InitDB(dbPath)
	if err != nil {
		return err
	}

	if err := database.Create(&models.Config{Key: models.ConfigSchemaVersion, Value: db.SchemaVersion}).Error; err != nil {
		return fmt.Errorf("failed to save schema version: %w", err)
	}
	if err := database.Create(&models.Config{Key: models.ConfigInitializedAt, Value: time.Now().Format(time.RFC3339)}).Error; err != nil {
		return fmt.Errorf("failed to save initialization time: %w", err)
	}

	mode := models.ModeDefault
	if stealthMode {
		mode = models.ModeStealth
	}
	if err := database.Create(&models.Config{Key: models.ConfigMode, Value: mode}).Error; err != nil {
		return fmt.Errorf("failed to save mode: %w", err)
	}

	name := initName
	if name == "" {
		name = filepath.Base(cwd)
	}
	project := &db.Project{
		Name:         name,
		Kickoff:      kickoff,
		SkipWeekends: !initAllWeekdays,
		RootID:       tmpl.RootID,
		Template:     tmpl.Name,
	}
	if err := db.SaveProject(project); err != nil {
		return err
	}

	tasks := tmpl.ToTasks()
	if err := db.ReplaceTasks(tasks); err != nil {
		return err
	}

	if err := config.Save(dataDir, settings); err != nil {
		log.GetLogger().WithError(err).Warn("could not write config.toml")
	}

	if stealthMode {
		if err := addToGitignore(cwd, db.DataDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not add to .gitignore: %v\n", err)
		}
	}

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{
			"success":       true,
			"path":          dataDir,
			"mode":          mode,
			"template":      tmpl.Name,
			"tasks":         len(tasks),
			"kickoff_date":  calendar.Format(kickoff),
			"skip_weekends": project.SkipWeekends,
		})
		return nil
	}

	modeStr := ""
	if mode != models.ModeDefault {
		modeStr = fmt.Sprintf(" (mode: %s)", mode)
	}
	fmt.Printf("Planline initialized in %s/%s\n", db.DataDir, modeStr)
	fmt.Printf("Seeded %d tasks from template '%s', kickoff %s\n", len(tasks), tmpl.Name, calendar.Format(kickoff))

	fmt.Println("\nNext steps:")
	fmt.Println("  pln schedule                    Show start/end dates")
	fmt.Println("  pln ready                       Tasks that can start now")
	fmt.Println("  pln gantt --format html -o plan.html")
	if _, err := os.Stat(filepath.Join(cwd, ".git")); err == nil {
		fmt.Println("  pln config github               Setup GitHub sync (optional)")
	}

	return nil
}

func addToGitignore(dir, entry string) error {
	gitignorePath := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == entry || line == entry+"/" {
			return nil
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(content) > 0 && content[len(content)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(entry + "\n")
	return err
}
