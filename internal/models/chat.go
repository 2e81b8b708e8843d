package models

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// Turn is a single utterance in a conversation. Text is always the verbatim
// content: the user's input or the raw model reply, never rendered markup.
type Turn struct {
	Role Role   `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

func UserTurn(text string) Turn  { return Turn{Role: RoleUser, Text: text} }
func ModelTurn(text string) Turn { return Turn{Role: RoleModel, Text: text} }

// Conversation is the ordered history replayed to the model on every call.
type Conversation []Turn

// Validate checks that every turn carries a known role.
func (c Conversation) Validate() error {
	for i, t := range c {
		if !t.Role.Valid() {
			return fmt.Errorf("turn %d has invalid role %q", i, t.Role)
		}
	}
	return nil
}

// ChatRequest is the payload accepted by POST /api/chat.
type ChatRequest struct {
	Conversation Conversation `json:"conversation"`
}

// ChatResponse carries the verbatim model text.
type ChatResponse struct {
	Result string `json:"result"`
}

// ErrorResponse is the failure body of every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
}
