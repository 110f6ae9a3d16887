package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/service"
	"github.com/dukerupert/choretrack/internal/websocket"
)

type UserHandler struct {
	users  *service.UserService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, hub *websocket.Hub, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, hub: hub, logger: logger}
}

func (h *UserHandler) broadcast(ev websocket.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}

	user, err := h.users.Create(req.Name, req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("user", "created", user.ID))

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	user, err := h.users.Get(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}

	user, err := h.users.Update(id, req.Name, req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("user", "updated", id))

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	if err := h.users.Delete(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("user", "deleted", id))

	w.WriteHeader(http.StatusNoContent)
}
