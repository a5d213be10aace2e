package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task-manager/internal/model"
)

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks      TaskStore
	categories CategoryStore
}

func NewTaskService(tasks TaskStore, categories CategoryStore) *TaskService {
	return &TaskService{tasks: tasks, categories: categories}
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.tasks.List(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// CreateTask stores a new, not yet completed task.
func (s *TaskService) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, model.Invalid("title", "is required")
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	task := model.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		CategoryID:  input.CategoryID,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces the fields present in patch.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, model.Invalid("title", "must not be empty")
	}
	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	return s.tasks.Update(ctx, id, patch)
}

// DeleteTask removes a task and returns its last state.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.tasks.Delete(ctx, id)
}

func (s *TaskService) checkCategory(ctx context.Context, id uint) error {
	if id == 0 {
		return model.Invalid("categoryId", "is required")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Invalid("categoryId", fmt.Sprintf("category %d does not exist", id))
		}
		return err
	}
	return nil
}
