package db

import (
	"fmt"
	"strconv"
	"time"

	"planline/internal/calendar"
	"planline/internal/models"
)

// Project holds the settings that drive scheduling
type Project struct {
	Name         string    `json:"name"`
	Kickoff      time.Time `json:"kickoff_date"`
	SkipWeekends bool      `json:"skip_weekends"`
	RootID       string    `json:"root_task_id"`
	Template     string    `json:"template"`
	Mode         string    `json:"mode"`
}

// LoadProject reads the project settings. A missing or unreadable kickoff
// falls back to today, skip_weekends defaults to true.
func LoadProject() (*Project, error) {
	if GetDB() == nil {
		return nil, ErrNotInitialized
	}
	p := &Project{
		Name:         GetConfigOr(models.ConfigProjectName, ""),
		SkipWeekends: true,
		RootID:       GetConfigOr(models.ConfigRootTaskID, models.DefaultRootID),
		Template:     GetConfigOr(models.ConfigTemplate, models.DefaultTemplate),
		Mode:         GetConfigOr(models.ConfigMode, models.ModeDefault),
		Kickoff:      calendar.Today(),
	}
	if v := GetConfigOr(models.ConfigKickoffDate, ""); v != "" {
		if t, err := calendar.Parse(v); err == nil {
			p.Kickoff = t
		}
	}
	if v := GetConfigOr(models.ConfigSkipWeekends, ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			p.SkipWeekends = b
		}
	}
	return p, nil
}

// SaveProject writes the scheduling settings back to the config table
func SaveProject(p *Project) error {
	values := map[string]string{
		models.ConfigKickoffDate:  calendar.Format(p.Kickoff),
		models.ConfigSkipWeekends: strconv.FormatBool(p.SkipWeekends),
		models.ConfigRootTaskID:   p.RootID,
		models.ConfigTemplate:     p.Template,
	}
	if p.Name != "" {
		values[models.ConfigProjectName] = p.Name
	}
	for k, v := range values {
		if err := SetConfig(k, v); err != nil {
			return fmt.Errorf("failed to save %s: %w", k, err)
		}
	}
	return nil
}
