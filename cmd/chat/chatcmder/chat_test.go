package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingo-backend/internal/chat"
	"lingo-backend/internal/models"
)

func TestRun_SubmitsEachLineWithHistory(t *testing.T) {
	var requests []models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)
		w.Write([]byte(`{"result":"**ok**"}`))
	}))
	defer srv.Close()

	cmder := &chatCommander{relayURL: srv.URL, timeout: time.Second, format: formatHTML}
	var out bytes.Buffer

	err := cmder.run(context.Background(), strings.NewReader("first\n\n   \nsecond\n"), &out)

	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Len(t, requests[1].Conversation, 3)
	assert.Equal(t, 2, strings.Count(out.String(), chat.PlaceholderText))
	assert.Contains(t, out.String(), "<strong>ok</strong>")
}

func TestRun_RelayDownShowsFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cmder := &chatCommander{relayURL: url, timeout: time.Second}
	var out bytes.Buffer

	err := cmder.run(context.Background(), strings.NewReader("hello\n"), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), chat.FailedMessage)
}

func TestRun_TerminalFormatRendersMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"You **have** an apple."}`))
	}))
	defer srv.Close()

	cmder := &chatCommander{relayURL: srv.URL, timeout: time.Second, format: formatTerminal, style: "notty"}
	var out bytes.Buffer

	err := cmder.run(context.Background(), strings.NewReader("I has a apple.\n"), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "have")
	assert.Contains(t, out.String(), "apple.")
	assert.NotContains(t, out.String(), "<strong>")
	assert.NotContains(t, out.String(), "<br>")
}

func TestRun_UnknownFormat(t *testing.T) {
	cmder := &chatCommander{relayURL: "http://localhost:1", timeout: time.Second, format: "pdf"}

	err := cmder.run(context.Background(), strings.NewReader(""), &bytes.Buffer{})

	assert.ErrorContains(t, err, "unknown format")
}

func TestLastModelText(t *testing.T) {
	conv := models.Conversation{
		models.UserTurn("a"),
		models.ModelTurn("b"),
		models.UserTurn("c"),
	}
	assert.Equal(t, "b", lastModelText(conv))
	assert.Empty(t, lastModelText(models.Conversation{models.UserTurn("a")}))
}
