package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	// Registers the OpenAPI document served at /swagger/doc.json.
	_ "altd/docs"
)

// MountSwagger serves the Swagger UI and the generated spec under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
