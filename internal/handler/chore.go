package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/choretrack/internal/model"
	"github.com/dukerupert/choretrack/internal/service"
	"github.com/dukerupert/choretrack/internal/websocket"
)

type ChoreHandler struct {
	chores *service.ChoreService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewChoreHandler(chores *service.ChoreService, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{chores: chores, hub: hub, logger: logger}
}

func (h *ChoreHandler) broadcast(ev websocket.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type choreRequest struct {
	Title   string `json:"title"`
	Cadence string `json:"cadence"`
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}

	chore, err := h.chores.Create(req.Title, model.Cadence(req.Cadence))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("chore", "created", chore.ID))

	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.chores.List()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	chore, err := h.chores.Get(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}

	chore, err := h.chores.Update(id, req.Title, model.Cadence(req.Cadence))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("chore", "updated", id))

	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid id")
		return
	}

	if err := h.chores.Delete(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.broadcast(websocket.NewEvent("chore", "deleted", id))

	w.WriteHeader(http.StatusNoContent)
}
