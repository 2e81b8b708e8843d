package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lingo-backend/internal/models"
	"lingo-backend/internal/relay"
)

type relayService interface {
	Send(ctx context.Context, conversation models.Conversation, instruction string, temperature float32) (string, error)
}

// ChatHandler serves POST /api/chat: the full conversation in, the model's
// verbatim reply out. Every failure is answered with 500 and a message.
type ChatHandler struct {
	relay       relayService
	instruction string
	temperature float32
	logger      *zap.Logger
}

func NewChatHandler(relay relayService, instruction string, temperature float32, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		relay:       relay,
		instruction: instruction,
		temperature: temperature,
		logger:      logger,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Conversation json.RawMessage `json:"conversation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("Invalid request body"))
		return
	}

	conversation, err := parseConversation(body.Conversation)
	if err != nil {
		h.logger.Debug("rejected chat request", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(err.Error()))
		return
	}

	result, err := h.relay.Send(r.Context(), conversation, h.instruction, h.temperature)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Result: result})
}

// parseConversation accepts only a JSON array of turns with known roles.
func parseConversation(raw json.RawMessage) (models.Conversation, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, &relay.ValidationError{Message: "Message must be an array"}
	}

	var conversation models.Conversation
	if err := json.Unmarshal(raw, &conversation); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &relay.ValidationError{Message: "Each turn must have a string role and text"}
		}
		return nil, &relay.ValidationError{Message: "Invalid conversation"}
	}
	if err := conversation.Validate(); err != nil {
		return nil, &relay.ValidationError{Message: err.Error()}
	}
	if conversation == nil {
		conversation = models.Conversation{}
	}
	return conversation, nil
}
