package rpc

import "task-manager/internal/model"

// Request and response messages. CreateTask and CreateCategory take
// model.TaskInput and model.CategoryInput as they are.

type ListTasksRequest struct{}

type ListCategoriesRequest struct{}

// IDRequest addresses a single task or category.
type IDRequest struct {
	ID uint `json:"id"`
}

type UpdateTaskRequest struct {
	ID uint `json:"id"`
	model.TaskPatch
}

type UpdateCategoryRequest struct {
	ID uint `json:"id"`
	model.CategoryPatch
}

type TaskList struct {
	Tasks []model.Task `json:"tasks"`
}

type CategoryList struct {
	Categories []model.Category `json:"categories"`
}
