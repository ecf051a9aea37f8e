package models

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"planline/internal/idgen"
)

// TaskHistory records changes to tasks
type TaskHistory struct {
	ID        string    `gorm:"primaryKey;size:30" json:"id"`
	TaskID    string    `gorm:"size:30;index;not null" json:"task_id"`
	Field     string    `gorm:"size:50;not null" json:"field"`
	OldValue  string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue  string    `gorm:"type:text" json:"new_value,omitempty"`
	ChangedBy string    `gorm:"size:100" json:"changed_by,omitempty"`
	ChangedAt time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

// BeforeCreate hook to generate ID
func (h *TaskHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID != "" {
		return nil
	}
	id, err := idgen.GenerateWithPrefix(idgen.HistoryPrefix)
	if err != nil {
		return fmt.Errorf("history id: %w", err)
	}
	h.ID = id
	return nil
}

// RecordChange creates a history entry for a field change
func RecordChange(db *gorm.DB, taskID, field, oldValue, newValue, changedBy string) error {
	if oldValue == newValue {
		return nil
	}
	entry := &TaskHistory{
		TaskID:    taskID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: changedBy,
	}
	return db.Create(entry).Error
}

// FieldChange is one edited field of a task
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// TaskChanges lists the user-editable fields that differ between two
// versions of a task, in a fixed order.
func TaskChanges(before, after Task) []FieldChange {
	pairs := []FieldChange{
		{"name", before.Name, after.Name},
		{"phase", before.Phase, after.Phase},
		{"dependency", before.Dependency, after.Dependency},
		{"base_duration", strconv.Itoa(before.BaseDuration), strconv.Itoa(after.BaseDuration)},
		{"deviation", strconv.Itoa(before.Deviation), strconv.Itoa(after.Deviation)},
		{"status", before.Status, after.Status},
	}
	var out []FieldChange
	for _, c := range pairs {
		if c.OldValue != c.NewValue {
			out = append(out, c)
		}
	}
	return out
}

// RecordTaskChanges writes one history entry per changed field
func RecordTaskChanges(db *gorm.DB, before, after Task, changedBy string) error {
	for _, c := range TaskChanges(before, after) {
		if err := RecordChange(db, after.ID, c.Field, c.OldValue, c.NewValue, changedBy); err != nil {
			return fmt.Errorf("record %s change for %s: %w", c.Field, after.ID, err)
		}
	}
	return nil
}
