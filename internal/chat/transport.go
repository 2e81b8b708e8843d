package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lingo-backend/internal/models"
)

// ErrNoResult means the relay answered successfully but without any text.
var ErrNoResult = errors.New("relay response has no result")

// TransportError reports that the relay could not be reached or answered
// with a non-success status.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("relay request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPTransport posts the conversation to a relay's /api/chat endpoint.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, conversation models.Conversation) (string, error) {
	if conversation == nil {
		conversation = models.Conversation{}
	}
	body, err := json.Marshal(models.ChatRequest{Conversation: conversation})
	if err != nil {
		return "", fmt.Errorf("failed to encode conversation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp models.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &errResp) != nil || errResp.Message == "" {
			errResp.Message = strings.TrimSpace(string(raw))
		}
		return "", &TransportError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	var out struct {
		Result *string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &TransportError{StatusCode: 0, Err: fmt.Errorf("invalid relay response: %w", err)}
	}
	if out.Result == nil || *out.Result == "" {
		return "", ErrNoResult
	}
	return *out.Result, nil
}

// Relay is the in-process relay capability.
type Relay interface {
	Send(ctx context.Context, conversation models.Conversation, instruction string, temperature float32) (string, error)
}

// LocalTransport calls a relay in the same process with fixed model settings.
type LocalTransport struct {
	relay       Relay
	instruction string
	temperature float32
}

func NewLocalTransport(relay Relay, instruction string, temperature float32) *LocalTransport {
	return &LocalTransport{relay: relay, instruction: instruction, temperature: temperature}
}

func (t *LocalTransport) Send(ctx context.Context, conversation models.Conversation) (string, error) {
	return t.relay.Send(ctx, conversation, t.instruction, t.temperature)
}
