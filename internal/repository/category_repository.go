package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound("category", id, err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, id uint, patch model.CategoryPatch) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return notFound("category", id, err)
		}
		updates := make(map[string]interface{})
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Color != nil {
			updates["color"] = *patch.Color
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&model.Category{ID: id}).Updates(updates).Error; err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		category = model.Category{}
		if err := tx.First(&category, id).Error; err != nil {
			return fmt.Errorf("reload category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category nobody references. Categories still used by tasks
// are refused with model.ErrCategoryInUse.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return notFound("category", id, err)
		}
		var refs int64
		if err := tx.Model(&model.Task{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count tasks for category: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("category %d has %d task(s): %w", id, refs, model.ErrCategoryInUse)
		}
		if err := tx.Delete(&model.Category{}, id).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}
