package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"task-manager/internal/model"
)

// memStore is an in-memory TaskStore and CategoryStore used as a test double.
type memStore struct {
	mu         sync.Mutex
	tasks      map[uint]model.Task
	categories map[uint]model.Category
	nextTask   uint
	nextCat    uint
	failWith   error
	calls      int
}

func newMemStore() *memStore {
	s := &memStore{
		tasks:      make(map[uint]model.Task),
		categories: make(map[uint]model.Category),
		nextTask:   1,
		nextCat:    1,
	}
	for _, def := range model.DefaultCategories {
		s.categories[s.nextCat] = model.Category{ID: s.nextCat, Name: def.Name, Color: def.Color}
		s.nextCat++
	}
	return s
}

type memTasks struct{ *memStore }

type memCategories struct{ *memStore }

func (s *memStore) enter() error {
	s.mu.Lock()
	s.calls++
	return s.failWith
}

func (s memTasks) List(ctx context.Context) ([]model.Task, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.joined(s.tasks[id]))
	}
	return out, nil
}

func (s memTasks) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
	}
	joined := s.joined(task)
	return &joined, nil
}

func (s memTasks) Create(ctx context.Context, task *model.Task) error {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return err
	}
	if _, ok := s.categories[task.CategoryID]; !ok {
		return errors.New("FOREIGN KEY constraint failed")
	}
	task.ID = s.nextTask
	s.nextTask++
	s.tasks[task.ID] = *task
	*task = s.joined(*task)
	return nil
}

func (s memTasks) Update(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.CategoryID != nil {
		task.CategoryID = *patch.CategoryID
	}
	s.tasks[id] = task
	joined := s.joined(task)
	return &joined, nil
}

func (s memTasks) Delete(ctx context.Context, id uint) (*model.Task, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
	}
	delete(s.tasks, id)
	joined := s.joined(task)
	return &joined, nil
}

func (s *memStore) joined(task model.Task) model.Task {
	task.Category = s.categories[task.CategoryID]
	return task
}

func (s memCategories) List(ctx context.Context) ([]model.Category, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memCategories) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, model.ErrNotFound)
	}
	return &c, nil
}

func (s memCategories) Create(ctx context.Context, category *model.Category) error {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return err
	}
	category.ID = s.nextCat
	s.nextCat++
	s.categories[category.ID] = *category
	return nil
}

func (s memCategories) Update(ctx context.Context, id uint, patch model.CategoryPatch) (*model.Category, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, model.ErrNotFound)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	s.categories[id] = c
	return &c, nil
}

func (s memCategories) Delete(ctx context.Context, id uint) (*model.Category, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, model.ErrNotFound)
	}
	for _, task := range s.tasks {
		if task.CategoryID == id {
			return nil, fmt.Errorf("category %d: %w", id, model.ErrCategoryInUse)
		}
	}
	delete(s.categories, id)
	return &c, nil
}
