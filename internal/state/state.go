// Package state reads and writes the portable JSON plan file and merges a
// saved task list into the current template.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"planline/internal/calendar"
	"planline/internal/models"
)

// ErrNoTasks is returned when a document carries no task records
var ErrNoTasks = errors.New("state file has no tasks")

// Document is the persisted plan: kickoff settings plus one record per task
type Document struct {
	KickoffDate  string   `json:"kickoff_date"`
	SkipWeekends *bool    `json:"skip_weekends,omitempty"`
	Tasks        []Record `json:"tasks"`
}

// Record is one task as stored on disk
type Record struct {
	Phase        string `json:"phase"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	Dependency   string `json:"dependency"`
	BaseDuration Int    `json:"base_duration"`
	Status       string `json:"status"`
	Deviation    Int    `json:"deviation"`
}

// Int is a lenient JSON integer. Numbers, numeric strings, floats
// (truncated) and null decode without error; anything else leaves Valid
// false and Value 0.
type Int struct {
	Value int
	Valid bool
}

// NewInt returns a valid Int
func NewInt(v int) Int {
	return Int{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Int) UnmarshalJSON(data []byte) error {
	*n = Int{}
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = NewInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > -1e9 && f < 1e9 {
		*n = NewInt(int(f))
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (n Int) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(n.Value)), nil
}

// Or returns the value when valid, fallback otherwise
func (n Int) Or(fallback int) int {
	if n.Valid {
		return n.Value
	}
	return fallback
}

// Kickoff returns the parsed kickoff date, or fallback when absent or invalid
func (d *Document) Kickoff(fallback time.Time) time.Time {
	if d.KickoffDate == "" {
		return fallback
	}
	t, err := calendar.Parse(d.KickoffDate)
	if err != nil {
		return fallback
	}
	return t
}

// Weekends returns the skip_weekends flag, defaulting to true
func (d *Document) Weekends() bool {
	if d.SkipWeekends == nil {
		return true
	}
	return *d.SkipWeekends
}

// Load reads a state file. A missing deviation decodes as 0.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return Decode(data)
}

// Decode parses a state document from JSON
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if len(doc.Tasks) == 0 {
		return nil, ErrNoTasks
	}
	return &doc, nil
}

// Save writes doc as indented JSON, creating the parent directory if needed
func Save(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Encode renders doc as indented JSON without HTML escaping
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// FromTasks builds a document from the live task list
func FromTasks(tasks []models.Task, kickoff time.Time, skipWeekends bool) *Document {
	doc := &Document{
		KickoffDate:  calendar.Format(kickoff),
		SkipWeekends: &skipWeekends,
		Tasks:        make([]Record, len(tasks)),
	}
	for i, t := range tasks {
		doc.Tasks[i] = Record{
			Phase:        t.Phase,
			ID:           t.ID,
			Name:         t.Name,
			Dependency:   t.Dependency,
			BaseDuration: NewInt(t.BaseDuration),
			Status:       t.Status,
			Deviation:    NewInt(t.Deviation),
		}
	}
	return doc
}

// Saved is a task read from disk along with which numeric fields were usable
type Saved struct {
	Task          models.Task
	ValidDuration bool
	ValidStatus   bool
}

// Records converts the document's records into tasks. Records without an
// id are dropped and reported in skipped. Invalid deviations become 0,
// invalid durations become 1 and unknown statuses become pending.
func (d *Document) Records() (saved []Saved, skipped int) {
	for _, r := range d.Tasks {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			skipped++
			continue
		}
		status, ok := models.ParseStatus(r.Status)
		if !ok {
			status = models.StatusPending
		}
		saved = append(saved, Saved{
			Task: models.Task{
				ID:           id,
				Phase:        r.Phase,
				Name:         r.Name,
				Dependency:   strings.TrimSpace(r.Dependency),
				BaseDuration: r.BaseDuration.Or(1),
				Deviation:    r.Deviation.Or(0),
				Status:       status,
			},
			ValidDuration: r.BaseDuration.Valid,
			ValidStatus:   ok,
		})
	}
	return saved, skipped
}

// ToTasks returns the document's tasks in saved order with positions set
func (d *Document) ToTasks() []models.Task {
	saved, _ := d.Records()
	out := make([]models.Task, len(saved))
	for i, s := range saved {
		out[i] = s.Task
		out[i].Position = i
	}
	return out
}
