package view

import (
	"context"
	"fmt"
	"log"
	"sync"

	"task-manager/internal/model"
)

// API is the subset of task operations a client view needs. Both
// service.TaskService and rpc.Client satisfy it.
type API interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id uint) (*model.Task, error)
}

// Controller holds one client's draft and task list. Mutations go straight to
// the API and the list is fetched again after each one that succeeds.
type Controller struct {
	api API

	mu         sync.Mutex
	draft      Draft
	list       ListState
	generation uint64
}

func NewController(api API) *Controller {
	return &Controller{api: api, list: ListState{Status: StatusLoading}}
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// List returns a snapshot of the list state.
func (c *Controller) List() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.list
	state.Tasks = append([]model.Task(nil), c.list.Tasks...)
	return state
}

func (c *Controller) Dispatch(a Action) Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Reduce(c.draft, a)
	return c.draft
}

// Mount shows the loading state and fetches the list.
func (c *Controller) Mount(ctx context.Context) {
	c.mu.Lock()
	c.list = ListState{Status: StatusLoading}
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Refresh fetches the list. Only the most recently started fetch may change
// the state. A failed fetch keeps a list that was already shown.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	tasks, err := c.api.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	if err != nil {
		if c.list.Status == StatusReady {
			log.Printf("[error] refresh tasks: %v", err)
			return
		}
		c.list = ListState{Status: StatusFailed, Err: err.Error()}
		return
	}
	c.list = ListState{Status: StatusReady, Tasks: tasks}
}

// Submit creates a task from the draft. On success the draft is reset and the
// list fetched again; on failure the draft is kept. The reset also drops
// field edits dispatched while the create call was in flight.
func (c *Controller) Submit(ctx context.Context) (*model.Task, error) {
	draft := c.Draft()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	task, err := c.api.CreateTask(ctx, draft.Input())
	if err != nil {
		log.Printf("[error] create task: %v", err)
		return nil, err
	}

	c.Dispatch(Reset{})
	c.Refresh(ctx)
	return task, nil
}

func (c *Controller) Update(ctx context.Context, id uint, patch model.TaskPatch) error {
	if _, err := c.api.UpdateTask(ctx, id, patch); err != nil {
		log.Printf("[error] update task %d: %v", id, err)
		return err
	}
	c.Refresh(ctx)
	return nil
}

func (c *Controller) SetCompleted(ctx context.Context, id uint, completed bool) error {
	return c.Update(ctx, id, model.TaskPatch{Completed: &completed})
}

// Toggle flips the completed flag of a listed task.
func (c *Controller) Toggle(ctx context.Context, id uint) error {
	for _, task := range c.List().Tasks {
		if task.ID == id {
			return c.SetCompleted(ctx, id, !task.Completed)
		}
	}
	return fmt.Errorf("task %d: %w", id, model.ErrNotFound)
}

func (c *Controller) Delete(ctx context.Context, id uint) error {
	if _, err := c.api.DeleteTask(ctx, id); err != nil {
		log.Printf("[error] delete task %d: %v", id, err)
		return err
	}
	c.Refresh(ctx)
	return nil
}
