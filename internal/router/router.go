package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"fatcat-backend/internal/handlers"
	"fatcat-backend/internal/middleware"
	"fatcat-backend/web"
)

func New(
	chatHandler *handlers.ChatHandler,
	voiceHandler *handlers.VoiceHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Turn rate limiter (30 req/min per IP)
	turnLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Turn Routes ────
	// Registered for every method; the handlers answer non-POST with a JSON 405.
	r.Route("/api", func(r chi.Router) {
		r.Use(turnLimiter.Middleware)
		r.HandleFunc("/chat", chatHandler.HandleChat)
		r.HandleFunc("/voice", voiceHandler.HandleVoice)
	})

	// ──── Frontend ────
	r.Handle("/*", http.FileServer(http.FS(web.Static())))

	return r
}
