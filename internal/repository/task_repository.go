package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-manager/internal/model"
)

// TaskRepository handles CRUD for tasks. Every task it returns has its category loaded.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Category").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Category").First(&task, id).Error; err != nil {
		return nil, notFound("task", id, err)
	}
	return &task, nil
}

// Create inserts the task and reloads it with its category.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	if err := db.Preload("Category").First(task, task.ID).Error; err != nil {
		return fmt.Errorf("reload task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error) {
	var updated model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Task
		if err := tx.First(&current, id).Error; err != nil {
			return notFound("task", id, err)
		}

		updates := make(map[string]interface{})
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Completed != nil {
			updates["completed"] = *patch.Completed
		}
		if patch.CategoryID != nil {
			updates["category_id"] = *patch.CategoryID
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.Task{ID: id}).Updates(updates).Error; err != nil {
				return fmt.Errorf("update task: %w", err)
			}
		}

		if err := tx.Preload("Category").First(&updated, id).Error; err != nil {
			return fmt.Errorf("reload task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a task and returns it as it was before deletion.
func (r *TaskRepository) Delete(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Category").First(&task, id).Error; err != nil {
			return notFound("task", id, err)
		}
		res := tx.Delete(&model.Task{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("task", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}
