package analysis

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers analysis routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze-practice", h.AnalyzePractice)
		r.Post("/reference-sheet", h.ReferenceSheet)
		r.Post("/export", h.Export)

		if h.usecase.HistoryEnabled() {
			r.Get("/analyses", h.ListAnalyses)
			r.Get("/analyses/{analysis_id}", h.GetAnalysis)
		}
	})
}
