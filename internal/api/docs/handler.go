package docs

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

//go:embed swagger.yaml
var swaggerYAML []byte

// Handler returns a handler that serves Swagger UI.
func Handler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yaml"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// SwaggerYAMLHandler serves the embedded Swagger YAML document.
func SwaggerYAMLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(swaggerYAML)
	}
}

// RegisterRoutes registers Swagger documentation routes on the router.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get("/docs/swagger.yaml", SwaggerYAMLHandler())
	r.Get("/docs/*", Handler())
}
