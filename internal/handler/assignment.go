package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/service"
	"github.com/dukerupert/choretrack/internal/websocket"
)

type AssignmentHandler struct {
	assignments *service.AssignmentService
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewAssignmentHandler(assignments *service.AssignmentService, hub *websocket.Hub, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, hub: hub, logger: logger}
}

func (h *AssignmentHandler) broadcast(ev websocket.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type assignmentRequest struct {
	UserID  int64   `json:"user_id"`
	ChoreID int64   `json:"chore_id"`
	DueAt   *string `json:"due_at"`
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}

	var dueAt *time.Time
	if req.DueAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "due_at must be RFC 3339")
			return
		}
		dueAt = &parsed
	}

	assignment, err := h.assignments.Create(req.UserID, req.ChoreID, dueAt, time.Now().UTC())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("assignment", "created", assignment.ID))

	writeJSON(w, http.StatusCreated, assignment)
}

// List supports filtering by user_id or by status, one at a time.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	rawUser := r.URL.Query().Get("user_id")
	rawStatus := r.URL.Query().Get("status")
	if rawUser != "" && rawStatus != "" {
		writeError(w, http.StatusBadRequest, "validation_error", "filter by either user_id or status, not both")
		return
	}

	var (
		assignments []model.Assignment
		err         error
	)
	switch {
	case rawUser != "":
		userID, parseErr := strconv.ParseInt(rawUser, 10, 64)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "user_id must be an integer")
			return
		}
		assignments, err = h.assignments.ListByUser(userID)
	case rawStatus != "":
		assignments, err = h.assignments.ListByStatus(model.AssignmentStatus(rawStatus))
	default:
		assignments, err = h.assignments.List()
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	assignment, err := h.assignments.Get(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

// UpdateStatus handles PUT /assignments/{id}. The status field is the only
// mutable attribute.
func (h *AssignmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}

	assignment, err := h.assignments.UpdateStatus(id, model.AssignmentStatus(req.Status), time.Now().UTC())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	ev := websocket.NewEvent("assignment", "status_changed", id)
	ev.Status = string(assignment.Status)
	h.broadcast(ev)

	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	if err := h.assignments.Delete(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("assignment", "deleted", id))

	w.WriteHeader(http.StatusNoContent)
}

// Statistics handles GET /statistics with an optional user_id filter.
func (h *AssignmentHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	var userID *int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "user_id must be an integer")
			return
		}
		userID = &parsed
	}

	stats, err := h.assignments.GetStatistics(time.Now().UTC(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]service.Statistics{"statistics": stats})
}
