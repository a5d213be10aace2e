package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"task-manager/internal/model"
)

const selectTasks = `SELECT t.id, t.title, t.description, t.completed, t.category_id, t.created_at, t.updated_at,
    c.id AS cat_id, c.name AS cat_name, c.color AS cat_color,
    c.created_at AS cat_created_at, c.updated_at AS cat_updated_at
FROM tasks t
JOIN categories c ON c.id = t.category_id`

type taskRow struct {
	ID           uint      `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Completed    bool      `db:"completed"`
	CategoryID   uint      `db:"category_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	CatID        uint      `db:"cat_id"`
	CatName      string    `db:"cat_name"`
	CatColor     string    `db:"cat_color"`
	CatCreatedAt time.Time `db:"cat_created_at"`
	CatUpdatedAt time.Time `db:"cat_updated_at"`
}

func (r taskRow) toModel() model.Task {
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CategoryID:  r.CategoryID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Category: model.Category{
			ID:        r.CatID,
			Name:      r.CatName,
			Color:     r.CatColor,
			CreatedAt: r.CatCreatedAt,
			UpdatedAt: r.CatUpdatedAt,
		},
	}
}

// SQLTaskRepository is the database/sql counterpart of TaskRepository.
type SQLTaskRepository struct {
	db *sqlx.DB
}

func NewSQLTaskRepository(db *sqlx.DB) *SQLTaskRepository {
	return &SQLTaskRepository{db: db}
}

func (r *SQLTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, selectTasks+` ORDER BY t.id ASC`); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toModel())
	}
	return tasks, nil
}

func (r *SQLTaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	return findTask(ctx, r.db, id)
}

func (r *SQLTaskRepository) Create(ctx context.Context, task *model.Task) error {
	ts := timestamp()
	id, err := insertID(ctx, r.db,
		`INSERT INTO tasks (title, description, completed, category_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		task.Title, task.Description, task.Completed, task.CategoryID, ts, ts)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	created, err := findTask(ctx, r.db, id)
	if err != nil {
		return fmt.Errorf("reload task: %w", err)
	}
	*task = *created
	return nil
}

func (r *SQLTaskRepository) Update(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error) {
	var updated *model.Task
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := findTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			current.Title = *patch.Title
		}
		if patch.Description != nil {
			current.Description = *patch.Description
		}
		if patch.Completed != nil {
			current.Completed = *patch.Completed
		}
		if patch.CategoryID != nil {
			current.CategoryID = *patch.CategoryID
		}
		if !patch.Empty() {
			_, err := tx.ExecContext(ctx, tx.Rebind(
				`UPDATE tasks SET title = ?, description = ?, completed = ?, category_id = ?, updated_at = ? WHERE id = ?`),
				current.Title, current.Description, current.Completed, current.CategoryID, timestamp(), id)
			if err != nil {
				return fmt.Errorf("update task: %w", err)
			}
		}
		updated, err = findTask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id uint) (*model.Task, error) {
	var task *model.Task
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		task, err = findTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE id = ?`), id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func findTask(ctx context.Context, q sqlx.ExtContext, id uint) (*model.Task, error) {
	var row taskRow
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind(selectTasks+` WHERE t.id = ?`), id); err != nil {
		return nil, sqlNotFound("task", id, err)
	}
	task := row.toModel()
	return &task, nil
}
