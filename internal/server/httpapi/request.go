package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/models"
)

// Request bodies. Each operation has its own struct, decoded and validated
// at the boundary before anything reaches the task service. Delay values are
// in milliseconds.

type loginRequest struct {
	Username string `json:"username"`
}

type addTaskRequest struct {
	Title string `json:"title"`
	Delay int64  `json:"delay"`
}

type deleteTaskRequest struct {
	ID    int64 `json:"id"`
	Delay int64 `json:"delay"`
}

type updateStateRequest struct {
	ID    int64            `json:"id"`
	State models.TaskState `json:"state"`
}

type renameTaskRequest struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type usernameResponse struct {
	Username string `json:"username"`
}

// decodeJSON fills dst from the request body. Malformed bodies are a
// validation error, never a 500.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}
