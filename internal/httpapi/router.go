package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"task-manager/internal/service"
)

// Handler serves the JSON API and the browser page.
type Handler struct {
	tasks      *service.TaskService
	categories *service.CategoryService
}

func NewHandler(tasks *service.TaskService, categories *service.CategoryService) *Handler {
	return &Handler{tasks: tasks, categories: categories}
}

// Router registers every route on a new gorilla/mux router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, logRequests)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tasks", h.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", h.createTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id:[0-9]+}", h.getTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id:[0-9]+}", h.updateTask).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/tasks/{id:[0-9]+}", h.deleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.createCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id:[0-9]+}", h.getCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", h.updateCategory).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/categories/{id:[0-9]+}", h.deleteCategory).Methods(http.MethodDelete)

	r.HandleFunc("/", h.page).Methods(http.MethodGet)
	r.HandleFunc("/", h.submit).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id:[0-9]+}/toggle", h.toggle).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id:[0-9]+}/delete", h.remove).Methods(http.MethodPost)
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
