package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lingo-backend/internal/chat"
	"lingo-backend/internal/models"
	"lingo-backend/internal/session"
)

// SessionHandler exposes server-side chat sessions, each with its own
// conversation history.
type SessionHandler struct {
	registry *session.Registry
	logger   *zap.Logger
}

func NewSessionHandler(registry *session.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, logger: logger}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.registry.Create()
	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{ID: id})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.SessionResponse{ID: id, Conversation: controller.Conversation()})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid session ID"))
		return
	}
	if err := h.registry.Delete(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("Session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	_, controller, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SessionMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	res, err := controller.Submit(r.Context(), req.Text)
	if errors.Is(err, chat.ErrEmptyInput) {
		writeJSON(w, http.StatusBadRequest, errorResp("Message is required"))
		return
	}
	if err != nil {
		h.logger.Error("submission failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, models.SessionMessageResponse{
		State:   res.State.String(),
		HTML:    res.HTML,
		Message: res.Message,
	})
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *chat.Controller, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid session ID"))
		return uuid.Nil, nil, false
	}
	controller, err := h.registry.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("Session not found"))
		return uuid.Nil, nil, false
	}
	return id, controller, true
}
