package db

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"planline/internal/models"
)

// GetTaskByID returns the task with the given id
func GetTaskByID(id string) (*models.Task, error) {
	var task models.Task
	if err := GetDB().Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task '%s' not found. Use 'pln list' to see all tasks", id)
		}
		return nil, err
	}
	return &task, nil
}

// ListTasks returns every task in table order
func ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := GetDB().Order("position ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return tasks, nil
}

// NextPosition returns the position for a task appended to the table
func NextPosition() (int, error) {
	var max sql.NullInt64
	if err := GetDB().Model(&models.Task{}).Select("MAX(position)").Row().Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// ReplaceTasks swaps the whole task table for tasks in one transaction.
// Issue links and history of tasks that no longer exist are dropped.
func ReplaceTasks(tasks []models.Task) error {
	return GetDB().Transaction(func(tx *gorm.DB) error {
		ids := make([]string, len(tasks))
		for i := range tasks {
			ids[i] = tasks[i].ID
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		stale := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			stale = stale.Where("task_id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.GitHubIssueLink{}).Error; err != nil {
			return fmt.Errorf("failed to clear issue links: %w", err)
		}
		stale = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			stale = stale.Where("task_id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.TaskHistory{}).Error; err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		if len(tasks) == 0 {
			return nil
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return fmt.Errorf("failed to write tasks: %w", err)
		}
		return nil
	})
}

// SaveTask writes one edited task and its history in a single transaction.
// The task is marked unsynced so the next push republishes it.
func SaveTask(before, after models.Task, changedBy string) error {
	return GetDB().Transaction(func(tx *gorm.DB) error {
		if err := models.RecordTaskChanges(tx, before, after, changedBy); err != nil {
			return err
		}
		after.Synced = false
		if err := tx.Save(&after).Error; err != nil {
			return fmt.Errorf("failed to update task '%s': database error: %w", after.ID, err)
		}
		return nil
	})
}

// SaveTasks writes back every task that differs from its stored version,
// recording history for each changed field. Tasks not in before are created.
func SaveTasks(before, after []models.Task, changedBy string) error {
	old := make(map[string]models.Task, len(before))
	for _, t := range before {
		old[t.ID] = t
	}
	return GetDB().Transaction(func(tx *gorm.DB) error {
		for i := range after {
			t := after[i]
			prev, ok := old[t.ID]
			if ok && prev == t {
				continue
			}
			if ok {
				if err := models.RecordTaskChanges(tx, prev, t, changedBy); err != nil {
					return err
				}
			}
			t.Synced = false
			if err := tx.Save(&t).Error; err != nil {
				return fmt.Errorf("failed to save task %s: %w", t.ID, err)
			}
		}
		return nil
	})
}
