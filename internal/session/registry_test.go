package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lingo-backend/internal/models"
)

type echoTransport struct{}

func (echoTransport) Send(ctx context.Context, conv models.Conversation) (string, error) {
	return "echo: " + conv[len(conv)-1].Text, nil
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry(echoTransport{}, time.Minute, zap.NewNop())

	id := r.Create()
	c, err := r.Get(id)

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.Conversation())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry(echoTransport{}, time.Minute, zap.NewNop())

	_, err := r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := NewRegistry(echoTransport{}, time.Minute, zap.NewNop())
	a, b := r.Create(), r.Create()

	ca, err := r.Get(a)
	require.NoError(t, err)
	_, err = ca.Submit(context.Background(), "hello from a")
	require.NoError(t, err)

	cb, err := r.Get(b)
	require.NoError(t, err)

	assert.Len(t, ca.Conversation(), 2)
	assert.Empty(t, cb.Conversation())
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry(echoTransport{}, time.Minute, zap.NewNop())
	id := r.Create()

	require.NoError(t, r.Delete(id))
	assert.ErrorIs(t, r.Delete(id), ErrNotFound)

	_, err := r.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_SweepRemovesIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(echoTransport{}, 10*time.Minute, zap.NewNop())
	r.now = func() time.Time { return now }

	idle := r.Create()
	active := r.Create()

	now = now.Add(8 * time.Minute)
	_, err := r.Get(active)
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, r.Sweep())

	_, err = r.Get(idle)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(active)
	assert.NoError(t, err)
}

func TestRegistry_SweepDisabledWithoutTimeout(t *testing.T) {
	r := NewRegistry(echoTransport{}, 0, zap.NewNop())
	r.Create()

	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_StartStop(t *testing.T) {
	r := NewRegistry(echoTransport{}, time.Minute, zap.NewNop())
	r.Start()
	r.Stop()
	r.Stop()
}
