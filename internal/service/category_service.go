package service

import (
	"context"
	"strings"

	"task-manager/internal/model"
)

// CategoryService provides CRUD around categories.
type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, input model.CategoryInput) (*model.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, model.Invalid("name", "is required")
	}
	category := model.Category{Name: input.Name, Color: input.Color}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, patch model.CategoryPatch) (*model.Category, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, model.Invalid("name", "must not be empty")
	}
	return s.categories.Update(ctx, id, patch)
}

// DeleteCategory removes a category. Categories still holding tasks are kept
// and the call fails with model.ErrCategoryInUse.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (*model.Category, error) {
	return s.categories.Delete(ctx, id)
}
