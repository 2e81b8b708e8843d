package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingo-backend/internal/models"
)

func TestHTTPTransport_Send(t *testing.T) {
	var got models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"You **have** an apple."}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", srv.Client())
	conv := models.Conversation{models.UserTurn("I has a apple.")}

	reply, err := tr.Send(context.Background(), conv)

	require.NoError(t, err)
	assert.Equal(t, "You **have** an apple.", reply)
	assert.Equal(t, conv, got.Conversation)
}

func TestHTTPTransport_Send_NilConversationIsArray(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(srv.URL, srv.Client()).Send(context.Background(), nil)

	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw["conversation"]))
}

func TestHTTPTransport_Send_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		noResult  bool
		wantCode  int
		wantInMsg string
	}{
		{"server error with message", http.StatusInternalServerError, `{"message":"quota exceeded"}`, false, 500, "quota exceeded"},
		{"server error plain body", http.StatusBadGateway, "bad gateway", false, 502, "bad gateway"},
		{"missing result", http.StatusOK, `{}`, true, 0, ""},
		{"empty result", http.StatusOK, `{"result":""}`, true, 0, ""},
		{"malformed body", http.StatusOK, `not json`, false, 0, "invalid relay response"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewHTTPTransport(srv.URL, srv.Client()).Send(context.Background(), models.Conversation{})
			require.Error(t, err)

			if tc.noResult {
				assert.ErrorIs(t, err, ErrNoResult)
				return
			}
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tc.wantCode, te.StatusCode)
			assert.Contains(t, te.Error(), tc.wantInMsg)
		})
	}
}

func TestHTTPTransport_Send_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPTransport(url, nil).Send(context.Background(), models.Conversation{})

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, FailedMessage, failureMessage(err))
}

type stubRelay struct {
	instruction string
	temperature float32
}

func (s *stubRelay) Send(ctx context.Context, conv models.Conversation, instruction string, temperature float32) (string, error) {
	s.instruction = instruction
	s.temperature = temperature
	return "reply", nil
}

func TestLocalTransport_PassesModelSettings(t *testing.T) {
	r := &stubRelay{}
	tr := NewLocalTransport(r, "be a tutor", 0.9)

	reply, err := tr.Send(context.Background(), models.Conversation{models.UserTurn("hi")})

	require.NoError(t, err)
	assert.Equal(t, "reply", reply)
	assert.Equal(t, "be a tutor", r.instruction)
	assert.InDelta(t, 0.9, r.temperature, 1e-6)
}
