//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the interactive API docs at /swagger/. The UI loads
// /swagger/doc.json from the swag-generated docs package; run
// `swag init -g cmd/llamactl/docs.go -o docs` and import the docs package
// from the main package before building with -tags=swagger.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler())
}
