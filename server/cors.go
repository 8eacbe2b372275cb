package server

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS restricts cross-origin access to origin. An empty origin leaves the
// handler untouched, so no Access-Control-* header is ever sent.
func CORS(origin string, next http.Handler) http.Handler {
	if origin == "" {
		return next
	}
	return cors.New(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		// legacy browsers reject 204 on preflight
		OptionsSuccessStatus: http.StatusOK,
	}).Handler(next)
}
