package httpapi

import (
	"net/http"

	"task-manager/internal/model"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	category, err := h.categories.GetCategory(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var input model.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}
	category, err := h.categories.CreateCategory(r.Context(), input)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var patch model.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, err)
		return
	}
	category, err := h.categories.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	category, err := h.categories.DeleteCategory(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}
