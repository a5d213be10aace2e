package view

import "task-manager/internal/model"

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ListState is what the task list shows. Err holds the failure message as
// the server sent it.
type ListState struct {
	Status Status
	Tasks  []model.Task
	Err    string
}
