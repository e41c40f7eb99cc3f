package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/models"
	"github.com/cuadratic/tasklist/internal/server/auth"
	"github.com/cuadratic/tasklist/internal/server/services"
)

var errorInvalidDelay = fmt.Errorf("%w: invalid delay", common.ErrorValidation)

// writeServiceError maps the shared error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an internal error: logged, answered with
// a generic message.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		s.logger.Error(r.Context(), "request failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := services.ValidateUsername(req.Username); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(req.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	setSessionCookie(w, token)
	s.logger.Info(r.Context(), "login", "username", req.Username)
	writeJSON(w, http.StatusOK, usernameResponse{Username: req.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

// handleWhoami reports the session identity. An invalid cookie is cleared on
// the way out, so a browser holding a forged or stale credential drops it.
func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	username, err := auth.GetUsernameFromToken(cookie.Value, s.jwtSecret)
	if err != nil {
		clearSessionCookie(w)
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, usernameResponse{Username: username})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "OK"})
}

// handleListTasks serves the task list for the session user. The `user`
// query parameter is validated first (it is the client's cache key and must
// be well-formed), but scoping always follows the session: a session for
// alice can never read bob's rows regardless of the parameter.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" || utf8.RuneCountInString(user) > common.TitleMaxLen {
		writeError(w, http.StatusBadRequest, "missing or invalid user")
		return
	}

	delay, err := delayFromQuery(r.URL.Query().Get("delay"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	username := usernameFromContext(r.Context())
	if username == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := s.tasks.List(r.Context(), username, delay)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if result == nil {
		result = []models.Task{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	if username == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	task, err := s.tasks.Add(r.Context(), username, req.Title, time.Duration(req.Delay)*time.Millisecond)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	if username == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req deleteTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.tasks.Delete(r.Context(), req.ID, time.Duration(req.Delay)*time.Millisecond); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

func (s *Server) handleUpdateState(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	if username == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateStateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.tasks.SetState(r.Context(), req.ID, req.State); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

func (s *Server) handleRenameTask(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	if username == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req renameTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.tasks.Rename(r.Context(), req.ID, req.Title); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

// delayFromQuery parses the optional delay query parameter (milliseconds).
// An empty value means no delay; a non-numeric value is a validation error.
func delayFromQuery(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errorInvalidDelay
	}
	return time.Duration(ms) * time.Millisecond, nil
}
