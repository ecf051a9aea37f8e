package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"planline/internal/config"
	"planline/internal/db"
	"planline/internal/log"
	"planline/internal/transition"
)

var (
	Version    = "0.1.0"
	jsonOutput bool
)

// settings is the tool configuration loaded from config.toml
var settings = config.Default()

// commandsExemptFromDB lists commands that don't require database initialization
var commandsExemptFromDB = map[string]bool{
	"pln init":          true,
	"pln version":       true,
	"pln help":          true,
	"pln completion":    true,
	"pln template list": true,
	"pln template show": true,
}

var rootCmd = &cobra.Command{
	Use:   "pln",
	Short: "Planline - business-day project scheduling from the command line",
	Long: `Planline (pln) keeps a project plan as a table of tasks, each with at most one
dependency, and computes a business-day schedule from it.

QUICK START:
  pln init --kickoff 2026-03-02      # Seed the ecommerce plan, kickoff on a Monday
  pln schedule                       # Start/end dates for every task
  pln start t0                       # Mark a task in progress
  pln done t0                        # Finish it; t0's dependents may now start
  pln update t1 --deviation 2        # Two days of slip; successors move with it
  pln gantt --format html -o plan.html

STATUSES: pending, in_progress, done, delayed
A task may only leave pending once its dependency is done, and a done task
cannot be reopened while a task depending on it has started.

TEMPLATES: ecommerce (default), web-seo, web. See 'pln template list'.

JSON OUTPUT: Add --json flag to any command for machine-readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadSettings()
		if commandsExemptFromDB[cmd.CommandPath()] {
			return nil
		}
		return db.EnsureInitialized()
	},
}

// loadSettings reads config.toml next to the database. A broken file is
// reported and the defaults are used. A .env file in the project root is
// loaded first; variables already set in the environment win.
func loadSettings() {
	loadDotEnv()
	dir, err := db.GetDataDir()
	if err != nil {
		return
	}
	cfg, err := config.Load(dir)
	if err != nil {
		log.GetLogger().WithError(err).Warn("using default settings")
		cfg = config.Default()
	}
	settings = cfg
	log.Configure(settings.LogLevel)
}

func loadDotEnv() {
	root, err := db.FindProjectRoot()
	if err != nil {
		if root, err = os.Getwd(); err != nil {
			return
		}
	}
	path := filepath.Join(root, ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.GetLogger().WithError(err).WithField("path", path).Warn("could not read .env")
	}
}

func Execute() {
	defer db.CloseDB()

	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			out := map[string]interface{}{"error": true, "message": err.Error()}
			var rej *transition.Rejection
			if errors.As(err, &rej) {
				out["task_id"] = rej.TaskID
				out["status"] = rej.Status
				out["reason"] = rej.Reason
			}
			OutputJSON(out)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.Version = Version
}

func OutputJSON(data interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(data)
}

func IsJSONOutput() bool {
	return jsonOutput
}
