package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	cardapi "github.com/cardifyhq/cardify-backend/internal/api/card"
	"github.com/cardifyhq/cardify-backend/internal/api/docs"
	"github.com/cardifyhq/cardify-backend/internal/api/middleware"
	sessionapi "github.com/cardifyhq/cardify-backend/internal/api/session"
	userapi "github.com/cardifyhq/cardify-backend/internal/api/user"
	"github.com/cardifyhq/cardify-backend/internal/pkg/auth"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	userHandler *userapi.Handler,
	sessionHandler *sessionapi.Handler,
	cardHandler *cardapi.Handler,
	tokens *auth.Manager,
	requestTimeout time.Duration,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	// Session creation runs the full generation pipeline, so the request
	// timeout has to outlive the configured pipeline run deadline.
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	docs.RegisterRoutes(r)

	userapi.RegisterRoutes(r, userHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		sessionapi.RegisterRoutes(r, sessionHandler, func(r chi.Router) {
			cardapi.RegisterSessionRoutes(r, cardHandler)
		})
		cardapi.RegisterRoutes(r, cardHandler)
	})

	return r
}
