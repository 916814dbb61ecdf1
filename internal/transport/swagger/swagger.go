package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/frahmantamala/sakti/api"
)

const SpecPath = "/openapi.yml"

// Handler serves Swagger UI pointed at the embedded document.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecPath),
	)
}

// SpecHandler serves the embedded OpenAPI document itself.
func SpecHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.Spec)
}
