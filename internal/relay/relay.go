// Package relay forwards a conversation to the remote language model and
// normalises the outcome into text or an error.
package relay

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"lingo-backend/internal/models"
)

// GenerateRequest is everything the model needs for one call.
type GenerateRequest struct {
	Instruction string
	Temperature float32
	Contents    []*genai.Content
}

// Generator is the remote language-model capability.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*genai.GenerateContentResponse, error)
}

type Service struct {
	generator Generator
	logger    *zap.Logger
}

func NewService(generator Generator, logger *zap.Logger) *Service {
	return &Service{generator: generator, logger: logger}
}

// Send makes exactly one call to the generator with the given conversation.
// The conversation is read, never modified. On success the model text is
// returned untouched; any failure is returned as *Error.
func (s *Service) Send(ctx context.Context, conversation models.Conversation, instruction string, temperature float32) (string, error) {
	s.logger.Debug("relaying conversation",
		zap.Int("turns", len(conversation)),
		zap.Float32("temperature", temperature),
	)

	resp, err := s.generator.Generate(ctx, GenerateRequest{
		Instruction: instruction,
		Temperature: temperature,
		Contents:    ToContents(conversation),
	})
	if err != nil {
		s.logger.Error("model call failed", zap.Error(err))
		return "", &Error{Message: err.Error(), Err: err}
	}

	text := extractText(resp)
	if text == "" {
		s.logger.Warn("model returned no text", zap.Int("turns", len(conversation)))
		return "", &Error{Message: "model returned no text"}
	}

	return text, nil
}

// ToContents maps turns onto the model's wire shape, one content per turn
// with a single text part, keeping order and role.
func ToContents(conversation models.Conversation) []*genai.Content {
	contents := make([]*genai.Content, len(conversation))
	for i, turn := range conversation {
		contents[i] = &genai.Content{
			Role:  string(turn.Role),
			Parts: []*genai.Part{{Text: turn.Text}},
		}
	}
	return contents
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			text.WriteString(partsText(cand.Content.Parts))
		}
	}
	return text.String()
}

func partsText(parts []*genai.Part) string {
	var text strings.Builder
	for _, part := range parts {
		if part != nil && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}
