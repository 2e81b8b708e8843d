package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"lingo-backend/internal/handlers"
	"lingo-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	sessionHandler *handlers.SessionHandler,
	chatLimiter *middleware.RateLimiter,
	staticDir string,
	corsOrigin string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(corsOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.With(chatLimiter.Middleware).Post("/chat", chatHandler.Chat)

		// ──── Server-side sessions ────
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/{id}", sessionHandler.Get)
			r.Delete("/{id}", sessionHandler.Delete)
			r.With(chatLimiter.Middleware).Post("/{id}/messages", sessionHandler.PostMessage)
		})
	})

	// ──── Client bundle ────
	r.Handle("/*", http.FileServer(http.Dir(staticDir)))

	return r
}
