package service

import (
	"context"

	"task-manager/internal/model"
)

// TaskStore is the persistence the task operations need. Returned tasks carry
// their category. Missing ids are reported with model.ErrNotFound.
type TaskStore interface {
	List(ctx context.Context) ([]model.Task, error)
	FindByID(ctx context.Context, id uint) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id uint) (*model.Task, error)
}

// CategoryStore is the persistence the category operations need. Delete must
// refuse categories that tasks reference with model.ErrCategoryInUse.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, id uint, patch model.CategoryPatch) (*model.Category, error)
	Delete(ctx context.Context, id uint) (*model.Category, error)
}
