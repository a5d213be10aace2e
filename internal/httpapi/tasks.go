package httpapi

import (
	"net/http"

	"task-manager/internal/model"
)

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var input model.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}
	task, err := h.tasks.CreateTask(r.Context(), input)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, task)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var patch model.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, err)
		return
	}
	task, err := h.tasks.UpdateTask(r.Context(), id, patch)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	task, err := h.tasks.DeleteTask(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}
