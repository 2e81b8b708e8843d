// Package session keeps the server-side chat sessions. Every session gets
// its own conversation store and controller; nothing is shared between them
// and nothing outlives the process.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lingo-backend/internal/chat"
	"lingo-backend/internal/conversation"
)

var ErrNotFound = errors.New("session not found")

type entry struct {
	controller *chat.Controller
	lastSeen   time.Time
}

type Registry struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*entry
	transport   chat.Transport
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRegistry(transport chat.Transport, idleTimeout time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		sessions:    make(map[uuid.UUID]*entry),
		transport:   transport,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Create starts a new session with an empty conversation.
func (r *Registry) Create() uuid.UUID {
	id := uuid.New()
	controller := chat.NewController(
		conversation.NewStore(),
		r.transport,
		nil,
		r.logger.With(zap.String("session_id", id.String())),
	)

	r.mu.Lock()
	r.sessions[id] = &entry{controller: controller, lastSeen: r.now()}
	r.mu.Unlock()

	r.logger.Debug("session created", zap.String("session_id", id.String()))
	return id
}

// Get returns the session's controller and marks the session as active.
func (r *Registry) Get(id uuid.UUID) (*chat.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.controller, nil
}

// Delete ends a session and discards its history.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	r.logger.Debug("session ended", zap.String("session_id", id.String()))
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the idle timeout and returns
// how many were removed.
func (r *Registry) Sweep() int {
	if r.idleTimeout <= 0 {
		return 0
	}

	now := r.now()
	removed := 0

	r.mu.Lock()
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idleTimeout {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("expired idle sessions", zap.Int("count", removed))
	}
	return removed
}

// Start runs Sweep periodically until Stop is called.
func (r *Registry) Start() {
	interval := r.idleTimeout / 2
	if interval <= 0 {
		close(r.done)
		return
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper started by Start and waits for it to exit.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}
