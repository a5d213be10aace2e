package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"task-manager/internal/model"
)

const selectCategories = `SELECT id, name, color, created_at, updated_at FROM categories`

// SQLCategoryRepository is the database/sql counterpart of CategoryRepository.
type SQLCategoryRepository struct {
	db *sqlx.DB
}

func NewSQLCategoryRepository(db *sqlx.DB) *SQLCategoryRepository {
	return &SQLCategoryRepository{db: db}
}

func (r *SQLCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	if err := r.db.SelectContext(ctx, &categories, selectCategories+` ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *SQLCategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	return findCategory(ctx, r.db, id)
}

func (r *SQLCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	ts := timestamp()
	id, err := insertID(ctx, r.db,
		`INSERT INTO categories (name, color, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		category.Name, category.Color, ts, ts)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	category.ID = id
	category.CreatedAt = ts
	category.UpdatedAt = ts
	return nil
}

func (r *SQLCategoryRepository) Update(ctx context.Context, id uint, patch model.CategoryPatch) (*model.Category, error) {
	var updated *model.Category
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := findCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.Name == nil && patch.Color == nil {
			updated = current
			return nil
		}
		if patch.Name != nil {
			current.Name = *patch.Name
		}
		if patch.Color != nil {
			current.Color = *patch.Color
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`UPDATE categories SET name = ?, color = ?, updated_at = ? WHERE id = ?`),
			current.Name, current.Color, timestamp(), id); err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		updated, err = findCategory(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete refuses categories that tasks still reference with model.ErrCategoryInUse.
func (r *SQLCategoryRepository) Delete(ctx context.Context, id uint) (*model.Category, error) {
	var category *model.Category
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		category, err = findCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		var refs int
		if err := tx.GetContext(ctx, &refs, tx.Rebind(`SELECT COUNT(*) FROM tasks WHERE category_id = ?`), id); err != nil {
			return fmt.Errorf("count tasks for category: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("category %d has %d task(s): %w", id, refs, model.ErrCategoryInUse)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM categories WHERE id = ?`), id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func findCategory(ctx context.Context, q sqlx.ExtContext, id uint) (*model.Category, error) {
	var category model.Category
	if err := sqlx.GetContext(ctx, q, &category, q.Rebind(selectCategories+` WHERE id = ?`), id); err != nil {
		return nil, sqlNotFound("category", id, err)
	}
	return &category, nil
}
