package api

import (
	"net/http"
	"time"

	analysisapi "github.com/futig/practice-analyzer/internal/api/analysis"
	"github.com/futig/practice-analyzer/internal/api/docs"
	"github.com/futig/practice-analyzer/internal/api/middleware"
	"github.com/futig/practice-analyzer/internal/api/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(analysisHandler *analysisapi.Handler, handlerTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.CORS)                       // Handle CORS
	r.Use(chimiddleware.Timeout(handlerTimeout)) // Upstream calls may take a while

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Upload page
	web.RegisterRoutes(r)

	analysisapi.RegisterRoutes(r, analysisHandler)

	return r
}
