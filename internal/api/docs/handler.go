package docs

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

//go:embed swagger.yaml
var specYAML []byte

// Handler serves the Swagger UI pointed at the embedded OpenAPI document.
func Handler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yaml"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

func specHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(specYAML)
}

// RegisterRoutes registers Swagger documentation routes on the router.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get("/docs/swagger.yaml", specHandler)
	r.Get("/docs/*", Handler())
}
