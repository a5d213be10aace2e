package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/model"
	"task-manager/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func newServices() (*TaskService, *CategoryService, *memStore) {
	store := newMemStore()
	return NewTaskService(memTasks{store}, memCategories{store}), NewCategoryService(memCategories{store}), store
}

func TestTaskService_CreateThenList(t *testing.T) {
	ctx := context.Background()
	for categoryID := uint(1); categoryID <= 4; categoryID++ {
		tasks, _, _ := newServices()

		created, err := tasks.CreateTask(ctx, model.TaskInput{Title: "Title", Description: "Body", CategoryID: categoryID})
		require.NoError(t, err)

		list, err := tasks.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)

		got := list[0]
		assert.Equal(t, created.ID, got.ID)
		assert.False(t, got.Completed)
		assert.Equal(t, "Title", got.Title)
		assert.Equal(t, "Body", got.Description)
		assert.Equal(t, categoryID, got.Category.ID)
		assert.Equal(t, model.DefaultCategories[categoryID-1].Name, got.Category.Name)
	}
}

func TestTaskService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input model.TaskInput
		field string
	}{
		{name: "empty title", input: model.TaskInput{Title: "", CategoryID: 1}, field: "title"},
		{name: "blank title", input: model.TaskInput{Title: "   ", CategoryID: 1}, field: "title"},
		{name: "no category", input: model.TaskInput{Title: "x", CategoryID: 0}, field: "categoryId"},
		{name: "unknown category", input: model.TaskInput{Title: "x", CategoryID: 77}, field: "categoryId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tasks, _, _ := newServices()

			_, err := tasks.CreateTask(ctx, tt.input)
			require.ErrorIs(t, err, model.ErrValidation)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)

			list, err := tasks.ListTasks(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestTaskService_UpdateMissingLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	tasks, _, _ := newServices()

	created, err := tasks.CreateTask(ctx, model.TaskInput{Title: "Keep", Description: "me", CategoryID: 1})
	require.NoError(t, err)
	before, err := tasks.ListTasks(ctx)
	require.NoError(t, err)

	_, err = tasks.UpdateTask(ctx, created.ID+100, model.TaskPatch{Completed: ptr(true), Title: ptr("Changed")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	after, err := tasks.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTaskService_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	tasks, _, _ := newServices()

	created, err := tasks.CreateTask(ctx, model.TaskInput{Title: "Keep", CategoryID: 1})
	require.NoError(t, err)

	_, err = tasks.UpdateTask(ctx, created.ID, model.TaskPatch{Title: ptr(" ")})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = tasks.UpdateTask(ctx, created.ID, model.TaskPatch{CategoryID: ptr(uint(0))})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = tasks.UpdateTask(ctx, created.ID, model.TaskPatch{CategoryID: ptr(uint(9))})
	assert.ErrorIs(t, err, model.ErrValidation)

	got, err := tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Title)
	assert.Equal(t, uint(1), got.CategoryID)
}

func TestTaskService_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	tasks, _, _ := newServices()

	first, err := tasks.CreateTask(ctx, model.TaskInput{Title: "one", CategoryID: 1})
	require.NoError(t, err)
	second, err := tasks.CreateTask(ctx, model.TaskInput{Title: "two", CategoryID: 2})
	require.NoError(t, err)

	deleted, err := tasks.DeleteTask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "one", deleted.Title)
	assert.Equal(t, "Personal", deleted.Category.Name)

	_, err = tasks.GetTask(ctx, first.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = tasks.DeleteTask(ctx, first.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	list, err := tasks.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestTaskService_ReadsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	tasks, _, _ := newServices()

	created, err := tasks.CreateTask(ctx, model.TaskInput{Title: "a", CategoryID: 3})
	require.NoError(t, err)

	list1, err := tasks.ListTasks(ctx)
	require.NoError(t, err)
	list2, err := tasks.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, list1, list2)

	get1, err := tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	get2, err := tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, get1, get2)
}

func TestTaskService_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	tasks, _, store := newServices()
	storeErr := errors.New("database is locked")
	store.failWith = storeErr

	_, err := tasks.ListTasks(ctx)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, "database is locked", err.Error())

	_, err = tasks.CreateTask(ctx, model.TaskInput{Title: "x", CategoryID: 1})
	assert.ErrorIs(t, err, storeErr)
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	tasks, categories, _ := newServices()

	_, err := categories.CreateCategory(ctx, model.CategoryInput{Name: " ", Color: "#fff"})
	assert.ErrorIs(t, err, model.ErrValidation)

	created, err := categories.CreateCategory(ctx, model.CategoryInput{Name: "Errands", Color: "#fff"})
	require.NoError(t, err)
	assert.Equal(t, uint(5), created.ID)

	list, err := categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)

	_, err = categories.UpdateCategory(ctx, created.ID, model.CategoryPatch{Name: ptr("")})
	assert.ErrorIs(t, err, model.ErrValidation)

	updated, err := categories.UpdateCategory(ctx, created.ID, model.CategoryPatch{Color: ptr("#000")})
	require.NoError(t, err)
	assert.Equal(t, "#000", updated.Color)

	_, err = categories.UpdateCategory(ctx, 99, model.CategoryPatch{Color: ptr("#000")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = tasks.CreateTask(ctx, model.TaskInput{Title: "Buy milk", CategoryID: created.ID})
	require.NoError(t, err)

	_, err = categories.DeleteCategory(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrCategoryInUse)

	_, err = categories.GetCategory(ctx, created.ID)
	assert.NoError(t, err)

	_, err = categories.DeleteCategory(ctx, 99)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestScenario_SQLite runs the full create/update/delete walk against the real store.
func TestScenario_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "scenario.db"), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	categoryRepo := repository.NewCategoryRepository(db)
	tasks := NewTaskService(repository.NewTaskRepository(db), categoryRepo)
	categories := NewCategoryService(categoryRepo)

	errands, err := categories.CreateCategory(ctx, model.CategoryInput{Name: "Errands", Color: "#fff"})
	require.NoError(t, err)
	require.Equal(t, uint(5), errands.ID)

	task, err := tasks.CreateTask(ctx, model.TaskInput{Title: "Buy milk", Description: "2%", CategoryID: 5})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2%", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, uint(5), task.Category.ID)
	assert.Equal(t, "Errands", task.Category.Name)
	assert.Equal(t, "#fff", task.Category.Color)

	updated, err := tasks.UpdateTask(ctx, task.ID, model.TaskPatch{
		Title:       ptr("Buy milk"),
		Description: ptr("2%"),
		Completed:   ptr(true),
		CategoryID:  ptr(uint(5)),
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Errands", updated.Category.Name)

	_, err = tasks.DeleteTask(ctx, task.ID)
	require.NoError(t, err)

	_, err = tasks.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
