package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"task-manager/internal/model"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[error] encode response: %v", err)
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusServiceUnavailable {
		log.Printf("[error] store: %v", err)
	}
	respondWithJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: err.Error()}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, model.ErrCategoryInUse):
		return http.StatusConflict, "CATEGORY_IN_USE"
	default:
		return http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.Invalid("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// pathID reads the {id} route variable. The route pattern only admits digits.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, model.Invalid("id", "must be a positive integer")
	}
	return uint(id), nil
}
