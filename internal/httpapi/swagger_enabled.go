//go:build swagger

package httpapi

import (
    "github.com/go-chi/chi/v5"
    httpSwagger "github.com/swaggo/http-swagger"

    _ "github.com/rodrigocostacamargos/TalkToEBM/docs"
)

// MountSwagger serves the Swagger UI at /swagger/ when built with -tags=swagger.
func MountSwagger(r chi.Router) {
    r.Get("/swagger/*", httpSwagger.Handler(
        httpSwagger.URL("/swagger/doc.json"),
    ))
}
