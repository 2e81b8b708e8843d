package models

import "github.com/google/uuid"

type CreateSessionResponse struct {
	ID uuid.UUID `json:"id"`
}

type SessionMessageRequest struct {
	Text string `json:"text"`
}

// SessionMessageResponse reports the outcome of one submission cycle.
// HTML is set when State is "rendered", Message when State is "failed".
type SessionMessageResponse struct {
	State   string `json:"state"`
	HTML    string `json:"html,omitempty"`
	Message string `json:"message,omitempty"`
}

type SessionResponse struct {
	ID           uuid.UUID    `json:"id"`
	Conversation Conversation `json:"conversation"`
}
